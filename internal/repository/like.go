package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/minisocial/minisocial/internal/models"
	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle removes the user's like on the post if present and adds it otherwise.
// It reports whether the post is liked afterwards.
func (r *LikeRepository) Toggle(ctx context.Context, userID, postID uint) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		err := tx.Where("users_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := &models.PostLike{UsersID: userID, PostID: postID}
			if err := tx.Omit("User", "Post").Create(like).Error; err != nil {
				return err
			}
			liked = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		// a concurrent request inserted the same pair first
		if isDuplicate(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, nil
}

// CountByPostIDs returns like counts keyed by post id. Posts without likes are absent.
func (r *LikeRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// LikedPostIDs returns the set of posts userID has liked.
func (r *LikeRepository) LikedPostIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("users_id = ?", userID).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get liked posts: %w", err)
	}
	liked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
