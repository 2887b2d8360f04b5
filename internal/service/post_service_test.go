package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"plume/internal/cache"
	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostServiceForTest(store *memoryStore, comments *commentRepoStub, writeInvalidate bool) *PostService {
	return NewPostService(
		&postRepoStub{store: store},
		comments,
		&groupRepoStub{store: store},
		writeInvalidate,
	)
}

func TestCreatePost(t *testing.T) {
	store := newMemoryStore()
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Text:     "hello world",
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, uint(1), post.AuthorID)
	assert.Len(t, store.posts, 1)
}

func TestCreatePostInGroup(t *testing.T) {
	store := newMemoryStore()
	store.groups["go-talk"] = &models.Group{ID: 7, Title: "Go Talk", Slug: "go-talk"}
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID:  1,
		Text:      "grouped",
		GroupSlug: "go-talk",
	})
	require.NoError(t, err)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, uint(7), *post.GroupID)
}

func TestCreatePostUnknownGroup(t *testing.T) {
	store := newMemoryStore()
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID:  1,
		Text:      "orphan",
		GroupSlug: "no-such-group",
	})
	assertValidationError(t, err)
	assert.Empty(t, store.posts)
}

func TestUpdatePostMovesBetweenGroups(t *testing.T) {
	store := newMemoryStore()
	store.groups["go-talk"] = &models.Group{ID: 7, Slug: "go-talk"}
	oldGroup := uint(3)
	store.posts = append(store.posts, &models.Post{
		ID: 1, Text: "roaming", AuthorID: 1, GroupID: &oldGroup,
	})
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)
	ctx := context.Background()

	post, err := svc.UpdatePost(ctx, UpdatePostInput{
		PostID: 1, EditorID: 1, Text: "roaming", GroupSlug: "go-talk",
	})
	require.NoError(t, err)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, uint(7), *post.GroupID)

	// An empty slug detaches the post from any group.
	post, err = svc.UpdatePost(ctx, UpdatePostInput{
		PostID: 1, EditorID: 1, Text: "roaming",
	})
	require.NoError(t, err)
	assert.Nil(t, post.GroupID)
}

func TestCreatePostValidation(t *testing.T) {
	store := newMemoryStore()
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"empty text", CreatePostInput{AuthorID: 1, Text: "   "}},
		{"text too long", CreatePostInput{AuthorID: 1, Text: strings.Repeat("x", 50001)}},
		{"bad image url", CreatePostInput{AuthorID: 1, Text: "ok", ImageURL: "::not-a-url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.input)
			assertValidationError(t, err)
		})
	}
	assert.Empty(t, store.posts, "rejected input must not create anything")
}

func TestUpdatePost(t *testing.T) {
	store := newMemoryStore()
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	store.posts = append(store.posts, &models.Post{
		ID: 1, Text: "original", AuthorID: 1, CreatedAt: created,
	})
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)

	post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID:   1,
		EditorID: 1,
		Text:     "edited",
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", post.Text)
	assert.True(t, post.CreatedAt.Equal(created), "editing must not move the post in the feed")
}

func TestUpdatePostByNonAuthor(t *testing.T) {
	store := newMemoryStore()
	store.posts = append(store.posts, &models.Post{ID: 1, Text: "original", AuthorID: 1})
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		PostID:   1,
		EditorID: 2,
		Text:     "hijacked",
	})
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Equal(t, "original", store.posts[0].Text)
}

func TestUpdatePostNotFound(t *testing.T) {
	svc := newPostServiceForTest(newMemoryStore(), &commentRepoStub{}, false)
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{PostID: 42, EditorID: 1, Text: "x"})
	assertNotFoundError(t, err)
}

func TestDeletePost(t *testing.T) {
	store := newMemoryStore()
	store.posts = append(store.posts, &models.Post{ID: 1, Text: "doomed", AuthorID: 1})
	comments := &commentRepoStub{comments: []*models.Comment{
		{ID: 1, PostID: 1, AuthorID: 2, Text: "first"},
		{ID: 2, PostID: 1, AuthorID: 3, Text: "second"},
	}}
	svc := newPostServiceForTest(store, comments, false)

	require.NoError(t, svc.DeletePost(context.Background(), 1, 1))
	assert.Empty(t, store.posts)
	assert.Empty(t, comments.comments, "comments must not outlive their post")
}

func TestDeletePostByNonAuthor(t *testing.T) {
	store := newMemoryStore()
	store.posts = append(store.posts, &models.Post{ID: 1, Text: "kept", AuthorID: 1})
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)

	err := svc.DeletePost(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Len(t, store.posts, 1)
}

func TestGetPostDetail(t *testing.T) {
	store := newMemoryStore()
	store.posts = append(store.posts,
		&models.Post{ID: 1, Text: "a", AuthorID: 1},
		&models.Post{ID: 2, Text: "b", AuthorID: 1},
	)
	comments := &commentRepoStub{comments: []*models.Comment{
		{ID: 1, PostID: 1, AuthorID: 2, Text: "nice"},
	}}
	svc := newPostServiceForTest(store, comments, false)

	detail, err := svc.GetPostDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), detail.Post.ID)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, int64(2), detail.AuthorPostsCount)

	_, err = svc.GetPostDetail(context.Background(), 99)
	assertNotFoundError(t, err)
}

func TestWriteThroughInvalidation(t *testing.T) {
	mr := setupFeedCache(t)
	require.NoError(t, mr.Set(cache.GlobalFeedKey, "snapshot"))
	store := newMemoryStore()
	svc := newPostServiceForTest(store, &commentRepoStub{}, true)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: "new"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.GlobalFeedKey),
		"a write with invalidation enabled must drop the snapshot")
}

func TestWriteThroughInvalidationDisabled(t *testing.T) {
	mr := setupFeedCache(t)
	require.NoError(t, mr.Set(cache.GlobalFeedKey, "snapshot"))
	store := newMemoryStore()
	svc := newPostServiceForTest(store, &commentRepoStub{}, false)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: "new"})
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.GlobalFeedKey),
		"with invalidation off the snapshot rides out its TTL")
}
