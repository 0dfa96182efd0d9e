package repository

import (
	"context"

	"quietspace/internal/cache"
	"quietspace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines persistence operations for saved places.
type FavoriteRepository interface {
	Save(ctx context.Context, favorite *models.Favorite) error
	ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error)
	Delete(ctx context.Context, userID, placeID string) error
	Exists(ctx context.Context, userID, placeID string) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Save(ctx context.Context, favorite *models.Favorite) error {
	// Re-saving an already saved place is a no-op, not an error.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "place_id"}},
			DoNothing: true,
		}).
		Create(favorite).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFavorites(ctx, favorite.UserID)
	return nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	var favorites []*models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return favorites, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, placeID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFavorites(ctx, userID)
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, placeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
