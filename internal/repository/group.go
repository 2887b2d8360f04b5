// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"plume/internal/cache"
	"plume/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	List(ctx context.Context) ([]*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Create(group).Error
	if err == nil {
		cache.InvalidateGroup(ctx, group.Slug)
	}
	return err
}

func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// GetBySlug resolves a group by its URL-stable slug, serving repeated lookups
// from the cache. Group records change rarely so a modest TTL is fine.
func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := cache.Aside(ctx, cache.GroupKey(slug), &group, cache.GroupTTL, func() error {
		return r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete removes the group. Posts referencing it are detached (group_id set to
// NULL) by the foreign key constraint, not deleted.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("group_id = ?", id).
		Update("group_id", nil).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Group{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateGroup(ctx, group.Slug)
	return nil
}
