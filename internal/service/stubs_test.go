package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryStore is a fixture backing the repository stubs: posts live in a
// slice, follows in a set, users and groups in maps. It lets feed tests
// exercise ordering and scoping without a database.
type memoryStore struct {
	posts   []*models.Post
	users   map[string]*models.User
	groups  map[string]*models.Group
	follows map[[2]uint]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:   map[string]*models.User{},
		groups:  map[string]*models.Group{},
		follows: map[[2]uint]bool{},
	}
}

func (m *memoryStore) sorted() []*models.Post {
	out := make([]*models.Post, len(m.posts))
	copy(out, m.posts)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memoryStore) window(posts []*models.Post, limit, offset int) []*models.Post {
	if offset >= len(posts) {
		return nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

func (m *memoryStore) filter(keep func(*models.Post) bool) []*models.Post {
	var out []*models.Post
	for _, p := range m.sorted() {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// postRepoStub implements repository.PostRepository over the memory store.
type postRepoStub struct {
	store *memoryStore
}

func (s *postRepoStub) Create(_ context.Context, post *models.Post) error {
	post.ID = uint(len(s.store.posts) + 1)
	s.store.posts = append(s.store.posts, post)
	return nil
}

func (s *postRepoStub) GetByID(_ context.Context, id uint) (*models.Post, error) {
	for _, p := range s.store.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *postRepoStub) Update(_ context.Context, post *models.Post) error {
	for i, p := range s.store.posts {
		if p.ID == post.ID {
			s.store.posts[i] = post
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *postRepoStub) Delete(_ context.Context, id uint) error {
	for i, p := range s.store.posts {
		if p.ID == id {
			s.store.posts = append(s.store.posts[:i], s.store.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *postRepoStub) List(_ context.Context, limit, offset int) ([]*models.Post, error) {
	return s.store.window(s.store.sorted(), limit, offset), nil
}

func (s *postRepoStub) Count(_ context.Context) (int64, error) {
	return int64(len(s.store.posts)), nil
}

func (s *postRepoStub) ListByGroupID(_ context.Context, groupID uint, limit, offset int) ([]*models.Post, error) {
	posts := s.store.filter(func(p *models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	})
	return s.store.window(posts, limit, offset), nil
}

func (s *postRepoStub) CountByGroupID(_ context.Context, groupID uint) (int64, error) {
	return int64(len(s.store.filter(func(p *models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}))), nil
}

func (s *postRepoStub) ListByAuthorID(_ context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	posts := s.store.filter(func(p *models.Post) bool { return p.AuthorID == authorID })
	return s.store.window(posts, limit, offset), nil
}

func (s *postRepoStub) CountByAuthorID(_ context.Context, authorID uint) (int64, error) {
	return int64(len(s.store.filter(func(p *models.Post) bool { return p.AuthorID == authorID }))), nil
}

func (s *postRepoStub) ListByAuthorIDs(_ context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	in := map[uint]bool{}
	for _, id := range authorIDs {
		in[id] = true
	}
	posts := s.store.filter(func(p *models.Post) bool { return in[p.AuthorID] })
	return s.store.window(posts, limit, offset), nil
}

func (s *postRepoStub) CountByAuthorIDs(_ context.Context, authorIDs []uint) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	in := map[uint]bool{}
	for _, id := range authorIDs {
		in[id] = true
	}
	return int64(len(s.store.filter(func(p *models.Post) bool { return in[p.AuthorID] }))), nil
}

// userRepoStub implements repository.UserRepository over the memory store.
type userRepoStub struct {
	store *memoryStore
}

func (s *userRepoStub) Create(_ context.Context, user *models.User) error {
	user.ID = uint(len(s.store.users) + 1)
	s.store.users[user.Username] = user
	return nil
}

func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.store.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s.store.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// groupRepoStub implements repository.GroupRepository over the memory store.
type groupRepoStub struct {
	store *memoryStore
}

func (s *groupRepoStub) Create(_ context.Context, group *models.Group) error {
	group.ID = uint(len(s.store.groups) + 1)
	s.store.groups[group.Slug] = group
	return nil
}

func (s *groupRepoStub) List(_ context.Context) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range s.store.groups {
		out = append(out, g)
	}
	return out, nil
}

func (s *groupRepoStub) GetBySlug(_ context.Context, slug string) (*models.Group, error) {
	if g, ok := s.store.groups[slug]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *groupRepoStub) Delete(_ context.Context, id uint) error {
	for slug, g := range s.store.groups {
		if g.ID == id {
			delete(s.store.groups, slug)
		}
	}
	return nil
}

// followRepoStub implements repository.FollowRepository over the memory store.
type followRepoStub struct {
	store *memoryStore
}

func (s *followRepoStub) Follow(_ context.Context, followerID, authorID uint) error {
	s.store.follows[[2]uint{followerID, authorID}] = true
	return nil
}

func (s *followRepoStub) Unfollow(_ context.Context, followerID, authorID uint) error {
	delete(s.store.follows, [2]uint{followerID, authorID})
	return nil
}

func (s *followRepoStub) IsFollowing(_ context.Context, followerID, authorID uint) (bool, error) {
	return s.store.follows[[2]uint{followerID, authorID}], nil
}

func (s *followRepoStub) FollowedAuthorIDs(_ context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	for edge := range s.store.follows {
		if edge[0] == followerID {
			ids = append(ids, edge[1])
		}
	}
	return ids, nil
}

// commentRepoStub implements repository.CommentRepository in memory.
type commentRepoStub struct {
	comments []*models.Comment
}

func (s *commentRepoStub) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = uint(len(s.comments) + 1)
	s.comments = append(s.comments, comment)
	return nil
}

func (s *commentRepoStub) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	for _, c := range s.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *commentRepoStub) ListByPost(_ context.Context, postID uint) ([]*models.Comment, error) {
	var out []*models.Comment
	for i := len(s.comments) - 1; i >= 0; i-- {
		if s.comments[i].PostID == postID {
			out = append(out, s.comments[i])
		}
	}
	return out, nil
}

func (s *commentRepoStub) DeleteByPost(_ context.Context, postID uint) error {
	var kept []*models.Comment
	for _, c := range s.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	s.comments = kept
	return nil
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
