package services

import (
	"context"
	"fmt"
	"time"

	"github.com/minisocial/minisocial/internal/models"
	"github.com/minisocial/minisocial/internal/repository"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
)

type MessageService struct {
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	producer    EventPublisher
	logger      *logger.Logger
}

func NewMessageService(messageRepo *repository.MessageRepository, userRepo *repository.UserRepository, producer EventPublisher, logger *logger.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		producer:    producer,
		logger:      logger,
	}
}

// Partner resolves the other side of a chat opened by viewerID.
func (s *MessageService) Partner(ctx context.Context, viewerID, otherID uint) (*models.User, error) {
	other, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if other == nil {
		return nil, ErrUserNotFound
	}
	if other.ID == viewerID {
		return nil, ErrSelfChat
	}
	return other, nil
}

func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, ErrSelfChat
	}

	msg := &models.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		ContentHash: models.HashContent(content),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	publish(ctx, s.producer, s.logger, queue.NewEvent(queue.EventMessageSent, senderID, receiverID, ""))

	s.logger.WithFields(map[string]interface{}{
		"message_id":  msg.ID,
		"sender_id":   senderID,
		"receiver_id": receiverID,
	}).Info("Message sent")
	return msg, nil
}

// Conversation returns the two-party thread between a and b, oldest first.
func (s *MessageService) Conversation(ctx context.Context, a, b uint) ([]*models.Message, error) {
	messages, err := s.messageRepo.Conversation(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return messages, nil
}
