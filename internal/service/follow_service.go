package service

import (
	"context"
	"errors"

	"plume/internal/models"
	"plume/internal/repository"

	"gorm.io/gorm"
)

// FollowService owns the follow graph's two transitions and its queries.
// Per (follower, author) pair there are two states, following and
// not-following; both transitions are idempotent self-loops when already in
// the target state, and self-follow is silently skipped.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService creates a FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// resolveAuthor maps a username to a user, translating a miss to NOT_FOUND.
func (s *FollowService) resolveAuthor(ctx context.Context, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, err
	}
	return author, nil
}

// Follow creates the edge follower -> author. Following yourself or an author
// you already follow succeeds silently without creating anything.
func (s *FollowService) Follow(ctx context.Context, followerID uint, authorUsername string) (*models.User, error) {
	author, err := s.resolveAuthor(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	if author.ID == followerID {
		return author, nil
	}

	if err := s.followRepo.Follow(ctx, followerID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unfollow removes the edge follower -> author if present; removing a missing
// edge succeeds silently.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, authorUsername string) (*models.User, error) {
	author, err := s.resolveAuthor(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Unfollow(ctx, followerID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// IsFollowing reports whether follower -> author exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, authorID)
}
