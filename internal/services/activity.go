package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minisocial/minisocial/internal/config"
	"github.com/minisocial/minisocial/pkg/cache"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
)

// ActivityService keeps a short, capped history of each user's actions in Redis.
// The worker records events; profile pages read them back.
type ActivityService struct {
	cache  *cache.RedisClient
	config *config.ActivityConfig
	logger *logger.Logger
}

func NewActivityService(cache *cache.RedisClient, config *config.ActivityConfig, logger *logger.Logger) *ActivityService {
	return &ActivityService{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

type Activity struct {
	Type      queue.EventType `json:"type"`
	TargetID  uint            `json:"target_id,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Description renders the activity as a short sentence for the profile page.
func (a Activity) Description() string {
	switch a.Type {
	case queue.EventUserRegistered:
		return "joined"
	case queue.EventFollowCreated:
		return "followed " + a.Summary
	case queue.EventFollowDeleted:
		return "unfollowed someone"
	case queue.EventPostCreated:
		return fmt.Sprintf("posted %q", a.Summary)
	case queue.EventLikeCreated:
		return fmt.Sprintf("liked %q", a.Summary)
	case queue.EventLikeDeleted:
		return fmt.Sprintf("unliked %q", a.Summary)
	case queue.EventMessageSent:
		return "sent a message"
	default:
		return string(a.Type)
	}
}

func activityKey(userID uint) string {
	return fmt.Sprintf("activity:%d", userID)
}

func (s *ActivityService) Record(ctx context.Context, event queue.Event) error {
	activity := Activity{
		Type:      event.Type,
		TargetID:  event.TargetID,
		Summary:   event.Summary,
		Timestamp: event.Timestamp,
	}
	if err := s.cache.PushCapped(ctx, activityKey(event.ActorID), activity, s.config.MaxEntries, s.config.TTL); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// Recent returns up to limit activities, newest first. Redis failures are logged
// and yield an empty list.
func (s *ActivityService) Recent(ctx context.Context, userID uint, limit int64) []Activity {
	if limit <= 0 {
		return nil
	}
	raw, err := s.cache.LRange(ctx, activityKey(userID), 0, limit-1)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to load activity")
		return nil
	}

	activities := make([]Activity, 0, len(raw))
	for _, item := range raw {
		var a Activity
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Skipping malformed activity")
			continue
		}
		activities = append(activities, a)
	}
	return activities
}
