// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"plume/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository maintains the directed follows graph. Both edge transitions
// are idempotent: creating an existing edge and deleting a missing edge are
// no-ops, never errors.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, authorID uint) error
	Unfollow(ctx context.Context, followerID, authorID uint) error
	IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error)
	FollowedAuthorIDs(ctx context.Context, followerID uint) ([]uint, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow creates the edge if absent. The unique (follower_id, author_id) index
// plus ON CONFLICT DO NOTHING makes this safe under concurrent writers; no
// read-then-write is involved.
func (r *followRepository) Follow(ctx context.Context, followerID, authorID uint) error {
	edge := models.Follow{
		FollowerID: followerID,
		AuthorID:   authorID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, authorID uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{}).Error
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowedAuthorIDs returns the identities whose posts belong in the
// follower's following-feed.
func (r *followRepository) FollowedAuthorIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("author_id", &ids).Error
	return ids, err
}
