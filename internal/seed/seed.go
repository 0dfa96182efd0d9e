package seed

import (
	"fmt"
	"log/slog"

	"quietspace/internal/middleware"
	"quietspace/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	// MaxDays spreads post timestamps over the last N days.
	MaxDays int
}

// Run populates the database with demo users, posts, likes, comments and
// saved places.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 30
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("failed to clean existing data: %w", err)
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rand.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}

	likes, comments, favorites := 0, 0, 0
	for _, post := range posts {
		for _, user := range users {
			if f.rand.Intn(3) == 0 {
				if err := f.CreateLike(user, post); err != nil {
					return fmt.Errorf("failed to create like: %w", err)
				}
				likes++
			}
			if f.rand.Intn(5) == 0 {
				if _, err := f.CreateComment(user, post); err != nil {
					return fmt.Errorf("failed to create comment: %w", err)
				}
				comments++
			}
		}
	}
	for _, user := range users {
		n := f.rand.Intn(4)
		for i := 0; i < n; i++ {
			if _, err := f.CreateFavorite(user); err != nil {
				return fmt.Errorf("failed to create favorite: %w", err)
			}
			favorites++
		}
	}

	middleware.Logger.Info("seeding completed",
		slog.Int("users", len(users)),
		slog.Int("posts", len(posts)),
		slog.Int("likes", likes),
		slog.Int("comments", comments),
		slog.Int("favorites", favorites),
	)
	return nil
}

// Clean removes all seeded rows, relations first.
func Clean(db *gorm.DB) error {
	tables := []string{
		"post_likes", "post_comments", "community_posts", "user_favorites", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}
