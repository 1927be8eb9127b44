package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventFollowCreated  EventType = "follow_created"
	EventFollowDeleted  EventType = "follow_deleted"
	EventPostCreated    EventType = "post_created"
	EventLikeCreated    EventType = "like_created"
	EventLikeDeleted    EventType = "like_deleted"
	EventMessageSent    EventType = "message_sent"
)

// Event is the envelope published for every user action. ActorID is the user
// who performed it; TargetID is the other user, post or message involved.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	ActorID   uint      `json:"actor_id"`
	TargetID  uint      `json:"target_id,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(eventType EventType, actorID, targetID uint, summary string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		TargetID:  targetID,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	}
}

// Key is the partition key; all events of one actor land on one partition.
func (e Event) Key() string {
	return fmt.Sprintf("%d", e.ActorID)
}

func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" || event.ActorID == 0 {
		return Event{}, errors.New("event is missing type or actor")
	}
	return event, nil
}
