package services

import (
	"context"
	"time"

	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/metrics"
	"github.com/minisocial/minisocial/pkg/queue"
)

// EventPublisher is satisfied by *queue.KafkaProducer and queue.NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// publishTimeout bounds how long a request waits on the broker.
var publishTimeout = 2 * time.Second

// publish sends the event and only logs on failure; events never fail a request.
func publish(ctx context.Context, producer EventPublisher, log *logger.Logger, event queue.Event) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := producer.Publish(ctx, event.Key(), event)
	metrics.EventPublished(string(event.Type), err)
	if err != nil {
		log.WithError(err).WithField("event_type", event.Type).Error("Failed to publish event")
	}
}
