package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/minisocial/minisocial/internal/models"
	"github.com/minisocial/minisocial/internal/repository"
	"github.com/minisocial/minisocial/pkg/logger"
	"github.com/minisocial/minisocial/pkg/queue"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	producer   EventPublisher
	logger     *logger.Logger
}

func NewUserService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository, producer EventPublisher, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		producer:   producer,
		logger:     logger,
	}
}

// Directory is the index listing: the users shown and which of them the viewer follows.
type Directory struct {
	Users    []*models.User
	Followed map[uint]bool
}

func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	existingUser, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration of the same name
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	publish(ctx, s.producer, s.logger, queue.NewEvent(queue.EventUserRegistered, user.ID, 0, user.Username))

	s.logger.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Login reports ErrInvalidCredentials for both an unknown user and a wrong password.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Directory lists everyone for anonymous viewers (viewerID 0); a signed-in viewer
// sees every other user along with the ones they follow.
func (s *UserService) Directory(ctx context.Context, viewerID uint) (*Directory, error) {
	users, err := s.userRepo.List(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dir := &Directory{Users: users, Followed: map[uint]bool{}}
	if viewerID == 0 {
		return dir, nil
	}

	ids, err := s.followRepo.FollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followed users: %w", err)
	}
	for _, id := range ids {
		dir.Followed[id] = true
	}
	return dir, nil
}

// Follow is idempotent: following someone already followed changes nothing.
func (s *UserService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	followed, err := s.userRepo.GetByID(ctx, followedID)
	if err != nil {
		return fmt.Errorf("failed to get followed user: %w", err)
	}
	if followed == nil {
		return ErrUserNotFound
	}

	created, err := s.followRepo.Create(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	if !created {
		return nil
	}

	publish(ctx, s.producer, s.logger, queue.NewEvent(queue.EventFollowCreated, followerID, followedID, followed.Username))

	s.logger.WithFields(map[string]interface{}{
		"follower_id": followerID,
		"followed_id": followedID,
	}).Info("User followed successfully")
	return nil
}

// Unfollow removes every edge from followerID to followedID; it is a no-op when none exist.
func (s *UserService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	removed, err := s.followRepo.Delete(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	if removed == 0 {
		return nil
	}

	publish(ctx, s.producer, s.logger, queue.NewEvent(queue.EventFollowDeleted, followerID, followedID, ""))

	s.logger.WithFields(map[string]interface{}{
		"follower_id": followerID,
		"followed_id": followedID,
	}).Info("User unfollowed successfully")
	return nil
}
