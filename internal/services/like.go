package services

import (
	"context"
	"fmt"

	"github.com/minisocial/minisocial/internal/repository"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
)

type LikeService struct {
	postRepo *repository.PostRepository
	likeRepo *repository.LikeRepository
	producer EventPublisher
	logger   *logger.Logger
}

func NewLikeService(postRepo *repository.PostRepository, likeRepo *repository.LikeRepository, producer EventPublisher, logger *logger.Logger) *LikeService {
	return &LikeService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		producer: producer,
		logger:   logger,
	}
}

// Toggle likes the post if the user has not liked it yet and unlikes it otherwise.
// It reports whether the post is liked by the user afterwards.
func (s *LikeService) Toggle(ctx context.Context, userID, postID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return false, ErrPostNotFound
	}

	liked, err := s.likeRepo.Toggle(ctx, userID, postID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}

	eventType := queue.EventLikeDeleted
	if liked {
		eventType = queue.EventLikeCreated
	}
	publish(ctx, s.producer, s.logger, queue.NewEvent(eventType, userID, postID, post.Title))

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"post_id": postID,
		"liked":   liked,
	}).Info("Post like toggled")
	return liked, nil
}
