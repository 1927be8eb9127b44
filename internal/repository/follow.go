package repository

import (
	"context"
	"fmt"

	"github.com/minisocial/minisocial/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts the edge unless it already exists. It reports whether a row was written.
func (r *FollowRepository) Create(ctx context.Context, followerID, followedID uint) (bool, error) {
	follow := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create follow: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes every matching edge and returns how many were removed.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followedID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	count, err := r.Count(ctx, followerID, followedID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FollowRepository) Count(ctx context.Context, followerID, followedID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to check follow status: %w", err)
	}
	return count, nil
}

// FollowedIDs lists the ids followerID currently follows.
func (r *FollowRepository) FollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get followed ids: %w", err)
	}
	return ids, nil
}
