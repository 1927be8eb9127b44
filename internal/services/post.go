package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minisocial/minisocial/internal/models"
	"github.com/minisocial/minisocial/internal/repository"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
)

type PostService struct {
	postRepo   *repository.PostRepository
	likeRepo   *repository.LikeRepository
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	producer   EventPublisher
	logger     *logger.Logger
}

func NewPostService(
	postRepo *repository.PostRepository,
	likeRepo *repository.LikeRepository,
	userRepo *repository.UserRepository,
	followRepo *repository.FollowRepository,
	producer EventPublisher,
	logger *logger.Logger,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		producer:   producer,
		logger:     logger,
	}
}

// Profile is everything the profile page shows, as seen by the viewer.
type Profile struct {
	User         *models.User
	IsOwnProfile bool
	IsFollowing  bool
	Posts        []*models.Post
	LikedPostIDs map[uint]bool  // posts the viewer has liked
	LikeCounts   map[uint]int64 // likes per post; absent means zero
}

// CreatePost fails with ErrPostTitleTaken when the title is already used by any post.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, title, text string) (*models.Post, error) {
	post := &models.Post{
		Title:      title,
		AuthorID:   authorID,
		Text:       text,
		DatePosted: time.Now().UTC(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPostTitleTaken
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	publish(ctx, s.producer, s.logger, queue.NewEvent(queue.EventPostCreated, authorID, post.ID, post.Title))

	s.logger.WithFields(map[string]interface{}{
		"post_id":   post.ID,
		"author_id": authorID,
	}).Info("Post created successfully")
	return post, nil
}

// Profile loads userID's posts with like state recomputed from the live table.
func (s *PostService) Profile(ctx context.Context, viewerID, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile := &Profile{User: user, IsOwnProfile: viewerID == userID}

	if !profile.IsOwnProfile {
		profile.IsFollowing, err = s.followRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow status: %w", err)
		}
	}

	profile.Posts, err = s.postRepo.GetByAuthorID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}

	profile.LikedPostIDs, err = s.likeRepo.LikedPostIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get liked posts: %w", err)
	}

	postIDs := make([]uint, 0, len(profile.Posts))
	for _, p := range profile.Posts {
		postIDs = append(postIDs, p.ID)
	}
	profile.LikeCounts, err = s.likeRepo.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return profile, nil
}
