// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"time"

	"plume/internal/cache"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/pagination"
	"plume/internal/repository"

	"gorm.io/gorm"
)

// FeedPage is one page of a feed: the post window plus its position metadata.
type FeedPage struct {
	Posts []*models.Post  `json:"posts"`
	Meta  pagination.Meta `json:"meta"`
}

// Profile is the header block of a profile feed: the author, their total post
// count, and whether the current viewer follows them.
type Profile struct {
	User       *models.User `json:"user"`
	PostsCount int64        `json:"posts_count"`
	Following  bool         `json:"following"`
}

// FeedService composes the four feed views. All reads; the only side effect is
// populating the global feed snapshot cache.
type FeedService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	groupRepo  repository.GroupRepository
	followRepo repository.FollowRepository
	pageSize   int
	cacheTTL   time.Duration
}

// NewFeedService creates a FeedService. pageSize and cacheTTL come from the
// process-wide Config; they never change after construction.
func NewFeedService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	followRepo repository.FollowRepository,
	pageSize int,
	cacheTTL time.Duration,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		groupRepo:  groupRepo,
		followRepo: followRepo,
		pageSize:   pageSize,
		cacheTTL:   cacheTTL,
	}
}

// page runs the shared count-clamp-window sequence for one feed scope.
func (s *FeedService) page(
	ctx context.Context,
	pageNum int,
	count func(context.Context) (int64, error),
	list func(ctx context.Context, limit, offset int) ([]*models.Post, error),
) (*FeedPage, error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	window, meta := pagination.PageWindow(pageNum, s.pageSize, total)

	posts, err := list(ctx, window.Limit, window.Offset)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &FeedPage{Posts: posts, Meta: meta}, nil
}

// GlobalFeed returns the requested page of all posts, newest first. The first
// page is served from a shared snapshot for up to the configured TTL; content
// deleted after the snapshot was taken keeps appearing until the window
// elapses or the snapshot is flushed. The snapshot carries no viewer-specific
// state, so one entry serves every viewer.
func (s *FeedService) GlobalFeed(ctx context.Context, pageNum int) (*FeedPage, error) {
	if pageNum > 1 {
		return s.page(ctx, pageNum, s.postRepo.Count, s.postRepo.List)
	}

	var feedPage FeedPage
	found, err := cache.GetJSON(ctx, cache.GlobalFeedKey, &feedPage)
	if err == nil && found {
		middleware.FeedCacheHits.WithLabelValues("hit").Inc()
		return &feedPage, nil
	}
	middleware.FeedCacheHits.WithLabelValues("miss").Inc()

	fresh, err := s.page(ctx, pageNum, s.postRepo.Count, s.postRepo.List)
	if err != nil {
		return nil, err
	}

	// Best-effort: a cache write failure must not fail the request.
	_ = cache.SetJSON(ctx, cache.GlobalFeedKey, fresh, s.cacheTTL)
	return fresh, nil
}

// GroupFeed returns the group resolved by slug and the requested page of its
// posts.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, pageNum int) (*models.Group, *FeedPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("Group", slug)
		}
		return nil, nil, err
	}

	feedPage, err := s.page(ctx, pageNum,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountByGroupID(ctx, group.ID)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByGroupID(ctx, group.ID, limit, offset)
		},
	)
	if err != nil {
		return nil, nil, err
	}
	return group, feedPage, nil
}

// ProfileFeed returns the author's profile header and the requested page of
// their posts. viewerID of zero means the viewer is unauthenticated; the
// following flag is then always false.
func (s *FeedService) ProfileFeed(ctx context.Context, username string, viewerID uint, pageNum int) (*Profile, *FeedPage, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("User", username)
		}
		return nil, nil, err
	}

	postsCount, err := s.postRepo.CountByAuthorID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	following := false
	if viewerID != 0 {
		following, err = s.followRepo.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			return nil, nil, err
		}
	}

	feedPage, err := s.page(ctx, pageNum,
		func(ctx context.Context) (int64, error) {
			return postsCount, nil
		},
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByAuthorID(ctx, user.ID, limit, offset)
		},
	)
	if err != nil {
		return nil, nil, err
	}

	profile := &Profile{
		User:       user,
		PostsCount: postsCount,
		Following:  following,
	}
	return profile, feedPage, nil
}

// FollowingFeed returns the requested page of posts by authors the viewer
// follows. A viewer following nobody gets an empty first page.
func (s *FeedService) FollowingFeed(ctx context.Context, viewerID uint, pageNum int) (*FeedPage, error) {
	authorIDs, err := s.followRepo.FollowedAuthorIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return s.page(ctx, pageNum,
		func(ctx context.Context) (int64, error) {
			return s.postRepo.CountByAuthorIDs(ctx, authorIDs)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByAuthorIDs(ctx, authorIDs, limit, offset)
		},
	)
}

// InvalidateSnapshot drops the global feed snapshot so the next first-page
// request recomputes. Exposed for the admin flush endpoint and tests.
func (s *FeedService) InvalidateSnapshot(ctx context.Context) {
	cache.InvalidateGlobalFeed(ctx)
}
