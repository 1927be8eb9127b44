package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/internal/handlers"
	"github.com/minisocial/minisocial/internal/middleware"
	"github.com/minisocial/minisocial/internal/repository"
	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/cache"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting minisocial server...")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLevel := gormlogger.Info
	if cfg.Server.Mode == "release" {
		gormLevel = gormlogger.Warn
	}
	db, err := repository.NewDatabase(&cfg.Database, gormLevel)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	var producer services.EventPublisher = queue.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		producer = kafkaProducer
	} else {
		logger.Warn("Kafka disabled, domain events will not be published")
	}

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	messageRepo := repository.NewMessageRepository(db.DB)

	userService := services.NewUserService(userRepo, followRepo, producer, logger)
	postService := services.NewPostService(postRepo, likeRepo, userRepo, followRepo, producer, logger)
	likeService := services.NewLikeService(postRepo, likeRepo, producer, logger)
	messageService := services.NewMessageService(messageRepo, userRepo, producer, logger)
	activityService := services.NewActivityService(redisClient, &cfg.Activity, logger)
	sessionService := services.NewSessionService(redisClient)

	sessions := middleware.NewSessionManager(&cfg.Auth, userService, sessionService, logger)

	router := &handlers.Router{
		Auth:  handlers.NewAuthHandler(userService, sessions, logger),
		Users: handlers.NewUserHandler(userService, postService, activityService, logger),
		Posts: handlers.NewPostHandler(postService, likeService, logger),
		Chat:  handlers.NewChatHandler(messageService, logger),
	}
	if cfg.Server.AuthRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.AuthRateLimit, cfg.Server.AuthRateBurst, logger)
		limiterCtx, stopLimiter := context.WithCancel(ctx)
		defer stopLimiter()
		limiter.StartCleanup(limiterCtx, time.Minute)
		router.Limiter = limiter
	}
	engine, err := router.Engine(sessions, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load templates")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	configPath := "configs/config.yaml"
	if os.Getenv("CONFIG_PATH") != "" {
		return
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll("configs", 0755); err != nil {
			log.Printf("Failed to create configs directory: %v", err)
			return
		}
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":5000"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s
  auth_rate_limit: 1         # login/register posts per second per IP, 0 disables
  auth_rate_burst: 10

database:
  driver: "sqlite"            # sqlite or postgres
  url: "social_media.db"      # postgres: "host=localhost user=social password=social dbname=social sslmode=disable"
  max_open_conns: 25
  max_idle_conns: 5

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 20
  min_idle_conns: 2

kafka:
  enabled: false
  brokers:
    - "localhost:9092"
  topic: "social-events"
  group_id: "activity-worker-group"

auth:
  secret_key: "devsecret"     # override with SECRET_KEY
  session_ttl: 24h
  cookie_name: "session"
  cookie_secure: false

log:
  level: "info"

activity:
  max_entries: 20
  ttl: 168h`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
