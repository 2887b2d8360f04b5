package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"plume/internal/config"
	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server over an in-memory sqlite database. Prometheus
// middleware is left unset so repeated construction across tests does not
// re-register collectors.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))

	cfg := &config.Config{
		JWTSecret:           "test-secret-key-for-handler-tests",
		Port:                "0",
		Env:                 "test",
		PageSize:            10,
		FeedCacheTTLSeconds: 20,
	}

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		groupRepo:   repository.NewGroupRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}
	s.feedService = service.NewFeedService(
		s.postRepo, s.userRepo, s.groupRepo, s.followRepo, cfg.PageSize, cfg.FeedCacheTTL())
	s.postService = service.NewPostService(
		s.postRepo, s.commentRepo, s.groupRepo, cfg.FeedCacheWriteInvalidate)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)

	return s, db
}

// createTestUser inserts a user directly. The stored password is not a bcrypt
// hash; login tests create their own users through the signup endpoint.
func createTestUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		IsAdmin:  isAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug}
	require.NoError(t, db.Create(group).Error)
	return group
}

// createTestPost inserts a post with an explicit creation time so ordering
// across posts is deterministic.
func createTestPost(t *testing.T, db *gorm.DB, authorID uint, groupID *uint, text string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: authorID, GroupID: groupID}
	require.NoError(t, db.Create(post).Error)
	require.NoError(t, db.Model(post).UpdateColumn("created_at", createdAt).Error)
	post.CreatedAt = createdAt
	return post
}

// bearer returns an Authorization header value for the given user.
func bearer(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

// decodeBody unmarshals a JSON response body into dest.
func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest), "body: %s", raw)
}

// feedResponse mirrors the JSON shape of paginated feed endpoints.
type feedResponse struct {
	Posts []struct {
		ID       uint   `json:"id"`
		Text     string `json:"text"`
		AuthorID uint   `json:"author_id"`
		Author   struct {
			Username string `json:"username"`
		} `json:"author"`
		GroupID *uint `json:"group_id"`
	} `json:"posts"`
	Meta struct {
		Page        int   `json:"page"`
		TotalPages  int   `json:"total_pages"`
		TotalItems  int64 `json:"total_items"`
		HasNext     bool  `json:"has_next"`
		HasPrevious bool  `json:"has_previous"`
	} `json:"meta"`
}
