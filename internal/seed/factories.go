// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"quietspace/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var placeNames = []string{
	"The Reading Room", "Willow Park", "Stillwater Library", "Mosaic Museum",
	"Fern & Filter", "Quiet Beans", "Riverside Gallery", "The Glasshouse",
	"Cedar Grove", "Hidden Garden Cafe", "North Branch Library", "Lantern Books",
	"Moss Street Park", "The Atrium", "Sunroom Coffee", "Old Chapel Gardens",
}

var postCategories = []string{
	models.CategoryFood, models.CategoryDrink,
	models.CategoryAtmosphere, models.CategoryEnvironment,
}

var placeTypes = []string{
	"Library", "Park", "Cafe", "Museum", "Art Gallery", "Bookstore",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seed runner and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:     gofakeit.Email(),
		FullName:  gofakeit.Name(),
		Bio:       gofakeit.Sentence(10),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode.
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample community post by the user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID:        user.ID,
		UserName:      user.FullName,
		UserAvatarURL: user.AvatarURL,
		PlaceName:     placeNames[f.rand.Intn(len(placeNames))],
		ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		Caption:       gofakeit.Sentence(8),
		Category:      postCategories[f.rand.Intn(len(postCategories))],
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rand.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rand.Intn(24))*time.Hour +
		time.Duration(f.rand.Intn(60))*time.Minute
	post.CreatedAt = time.Now().Add(-back).UnixMilli()

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike persists a like of the post by the user and bumps the post's
// stored likes counter so seeded data starts out reconciled.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{PostID: post.ID, UserID: user.ID}
	if err := f.db.Create(like).Error; err != nil {
		return err
	}
	return f.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
}

// CreateComment persists a review comment on the post and bumps the post's
// stored comments counter.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:        post.ID,
		UserID:        user.ID,
		UserName:      user.FullName,
		UserAvatarURL: user.AvatarURL,
		Comment:       gofakeit.Sentence(12),
		Rating:        float32(f.rand.Intn(9)+2) / 2,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	err := f.db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFavorite persists a saved place for the user.
func (f *Factory) CreateFavorite(user *models.User, overrides ...func(*models.Favorite)) (*models.Favorite, error) {
	rating := float32(f.rand.Intn(7)+4) / 2
	placeType := placeTypes[f.rand.Intn(len(placeTypes))]
	favorite := &models.Favorite{
		UserID:           user.ID,
		PlaceID:          gofakeit.UUID(),
		Name:             placeNames[f.rand.Intn(len(placeNames))],
		Address:          gofakeit.Street() + ", " + gofakeit.City(),
		Rating:           rating,
		UserRatingsTotal: f.rand.Intn(500),
		Latitude:         gofakeit.Latitude(),
		Longitude:        gofakeit.Longitude(),
		PlaceType:        placeType,
		QuietScore:       3 + float32(f.rand.Intn(20))/10,
	}

	for _, override := range overrides {
		override(favorite)
	}

	if err := f.db.Create(favorite).Error; err != nil {
		return nil, err
	}
	return favorite, nil
}
