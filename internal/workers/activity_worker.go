package workers

import (
	"context"

	"github.com/minisocial/minisocial/internal/services"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
)

// EventSource delivers domain events until ctx is cancelled.
type EventSource interface {
	Subscribe(ctx context.Context, handler func(context.Context, queue.Event) error) error
	Close() error
}

// ActivityWorker turns the event stream into each user's recent activity list.
type ActivityWorker struct {
	activityService *services.ActivityService
	consumer        EventSource
	logger          *logger.Logger
}

func NewActivityWorker(activityService *services.ActivityService, consumer EventSource, logger *logger.Logger) *ActivityWorker {
	return &ActivityWorker{
		activityService: activityService,
		consumer:        consumer,
		logger:          logger,
	}
}

func (w *ActivityWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting activity worker...")
	return w.consumer.Subscribe(ctx, w.HandleEvent)
}

func (w *ActivityWorker) HandleEvent(ctx context.Context, event queue.Event) error {
	w.logger.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"actor_id":   event.ActorID,
	}).Info("Processing event")

	switch event.Type {
	case queue.EventUserRegistered,
		queue.EventFollowCreated,
		queue.EventFollowDeleted,
		queue.EventPostCreated,
		queue.EventLikeCreated,
		queue.EventLikeDeleted,
		queue.EventMessageSent:
		return w.activityService.Record(ctx, event)
	default:
		w.logger.WithField("event_type", event.Type).Warn("Unknown event type")
		return nil
	}
}

func (w *ActivityWorker) Stop() error {
	w.logger.Info("Stopping activity worker...")
	return w.consumer.Close()
}
