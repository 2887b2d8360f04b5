package service

import (
	"context"
	"errors"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/validation"

	"gorm.io/gorm"
)

// ErrNotAuthor reports that a mutation was attempted by someone other than the
// post's author. Handlers turn this into a silent redirect to the detail view
// rather than an error status.
var ErrNotAuthor = errors.New("only the author may modify this post")

// PostService owns the post lifecycle: create, detail, edit, delete.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	groupRepo   repository.GroupRepository

	// writeInvalidate turns on write-through invalidation of the global feed
	// snapshot. Off by default: the snapshot then goes stale only until its
	// TTL elapses.
	writeInvalidate bool
}

// CreatePostInput carries the raw fields of a post submission. GroupSlug is
// optional; empty means the post belongs to no group.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	ImageURL  string
	GroupSlug string
}

// UpdatePostInput carries the raw fields of a post edit.
type UpdatePostInput struct {
	PostID    uint
	EditorID  uint
	Text      string
	ImageURL  string
	GroupSlug string
}

// PostDetail is the detail view payload: the post, its comments (newest
// first), and the author's total post count.
type PostDetail struct {
	Post             *models.Post      `json:"post"`
	Comments         []*models.Comment `json:"comments"`
	AuthorPostsCount int64             `json:"author_posts_count"`
}

// NewPostService creates a PostService.
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	groupRepo repository.GroupRepository,
	writeInvalidate bool,
) *PostService {
	return &PostService{
		postRepo:        postRepo,
		commentRepo:     commentRepo,
		groupRepo:       groupRepo,
		writeInvalidate: writeInvalidate,
	}
}

// CreatePost validates and stores a new post. Validation failure mutates
// nothing and reports per-field messages.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	fields := validation.ValidatePost(validation.PostInput{
		Text:     in.Text,
		ImageURL: in.ImageURL,
	})
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		ImageURL: in.ImageURL,
		AuthorID: in.AuthorID,
		GroupID:  groupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.maybeInvalidateFeed(ctx)

	// Reload so the response carries the author and group.
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPostDetail returns the detail view for one post.
func (s *PostService) GetPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	authorPostsCount, err := s.postRepo.CountByAuthorID(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:             post,
		Comments:         comments,
		AuthorPostsCount: authorPostsCount,
	}, nil
}

// UpdatePost edits a post's text, image and group. Only the author may edit;
// anyone else gets ErrNotAuthor. The creation timestamp is immutable.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	if post.AuthorID != in.EditorID {
		return nil, ErrNotAuthor
	}

	fields := validation.ValidatePost(validation.PostInput{
		Text:     in.Text,
		ImageURL: in.ImageURL,
	})
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.ImageURL = in.ImageURL
	post.GroupID = groupID
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.maybeInvalidateFeed(ctx)

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post and its comments. Author-only, like editing.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return err
	}

	if post.AuthorID != requesterID {
		return ErrNotAuthor
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByPost(ctx, postID); err != nil {
		return err
	}

	s.maybeInvalidateFeed(ctx)
	return nil
}

// resolveGroupID maps a group slug to its ID. An unknown slug is a field
// validation failure, not a 404: the post form submitted a bad choice.
func (s *PostService) resolveGroupID(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewFieldValidationError(map[string]string{
				"group": "unknown group: " + slug,
			})
		}
		return nil, err
	}
	return &group.ID, nil
}

func (s *PostService) maybeInvalidateFeed(ctx context.Context) {
	if s.writeInvalidate {
		cache.InvalidateGlobalFeed(ctx)
	}
}
