// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"plume/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password every seeded user can log in with.
const DemoPassword = "password123"

// Options controls seeding volume and behavior.
type Options struct {
	Users           int
	Groups          int
	PostsPerUser    int
	CommentsPerPost int
	FollowsPerUser  int
	// MaxDays spreads post creation times over this many days back from now
	// so feeds have a realistic chronology.
	MaxDays int
}

// DefaultOptions returns a small but lively dataset.
func DefaultOptions() Options {
	return Options{
		Users:           25,
		Groups:          6,
		PostsPerUser:    8,
		CommentsPerPost: 2,
		FollowsPerUser:  5,
		MaxDays:         90,
	}
}

// Seeder populates the database with generated users, groups, posts,
// comments and follow edges.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Follow{},
		&models.Comment{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	log.Println("cleared existing data")
	return nil
}

// Run executes the full seeding pass.
func (s *Seeder) Run() error {
	users, err := s.seedUsers()
	if err != nil {
		return err
	}
	groups, err := s.seedGroups()
	if err != nil {
		return err
	}
	posts, err := s.seedPosts(users, groups)
	if err != nil {
		return err
	}
	if err := s.seedComments(users, posts); err != nil {
		return err
	}
	if err := s.seedFollows(users); err != nil {
		return err
	}
	log.Printf("seeded %d users, %d groups, %d posts", len(users), len(groups), len(posts))
	return nil
}

func (s *Seeder) seedUsers() ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		users = append(users, &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: string(hashed),
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("seeding users: %w", err)
	}
	return users, nil
}

func (s *Seeder) seedGroups() ([]*models.Group, error) {
	groups := make([]*models.Group, 0, s.opts.Groups)
	for i := 0; i < s.opts.Groups; i++ {
		noun := gofakeit.Noun()
		groups = append(groups, &models.Group{
			Title:       fmt.Sprintf("%s %s", gofakeit.Adjective(), noun),
			Slug:        fmt.Sprintf("%s-%d", noun, i),
			Description: gofakeit.Sentence(12),
		})
	}
	if err := s.db.Create(&groups).Error; err != nil {
		return nil, fmt.Errorf("seeding groups: %w", err)
	}
	return groups, nil
}

func (s *Seeder) seedPosts(users []*models.User, groups []*models.Group) ([]*models.Post, error) {
	maxDays := s.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			post := &models.Post{
				Text:     gofakeit.Paragraph(1, 3, 8, "\n"),
				AuthorID: user.ID,
				CreatedAt: time.Now().
					Add(-time.Duration(s.rnd.Intn(maxDays*24*60)) * time.Minute),
			}
			// Roughly two thirds of posts land in a group.
			if len(groups) > 0 && s.rnd.Intn(3) != 0 {
				post.GroupID = &groups[s.rnd.Intn(len(groups))].ID
			}
			if s.rnd.Intn(4) == 0 {
				post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
			}
			posts = append(posts, post)
		}
	}
	if len(posts) == 0 {
		return posts, nil
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("seeding posts: %w", err)
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []*models.User, posts []*models.Post) error {
	var comments []*models.Comment
	for _, post := range posts {
		for i := 0; i < s.opts.CommentsPerPost; i++ {
			commenter := users[s.rnd.Intn(len(users))]
			comments = append(comments, &models.Comment{
				PostID:   post.ID,
				AuthorID: commenter.ID,
				Text:     gofakeit.Sentence(10),
			})
		}
	}
	if len(comments) == 0 {
		return nil
	}
	if err := s.db.Create(&comments).Error; err != nil {
		return fmt.Errorf("seeding comments: %w", err)
	}
	return nil
}

// seedFollows wires a random follow mesh. Duplicate picks and self-picks are
// harmless: the unique edge constraint absorbs repeats and self-follows are
// skipped outright.
func (s *Seeder) seedFollows(users []*models.User) error {
	var follows []*models.Follow
	for _, user := range users {
		for i := 0; i < s.opts.FollowsPerUser; i++ {
			author := users[s.rnd.Intn(len(users))]
			if author.ID == user.ID {
				continue
			}
			follows = append(follows, &models.Follow{
				FollowerID: user.ID,
				AuthorID:   author.ID,
			})
		}
	}
	if len(follows) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follows).Error
	if err != nil {
		return fmt.Errorf("seeding follows: %w", err)
	}
	return nil
}
