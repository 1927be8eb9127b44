package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/internal/workers"
	"github.com/minisocial/minisocial/pkg/cache"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting activity worker process...")

	if !cfg.Kafka.Enabled {
		logger.Fatal("Kafka is disabled; set kafka.enabled to run the worker")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
	activityService := services.NewActivityService(redisClient, &cfg.Activity, logger)
	worker := workers.NewActivityWorker(activityService, consumer, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := worker.Start(ctx); err != nil {
			logger.WithError(err).Error("Activity worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}

	logger.Info("Shutting down worker...")
	cancel()
	<-done

	if err := worker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop activity worker")
	}

	logger.Info("Worker exited")
}
