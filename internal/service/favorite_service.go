package service

import (
	"context"
	"strings"

	"quietspace/internal/cache"
	"quietspace/internal/models"
	"quietspace/internal/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
}

type SaveFavoriteInput struct {
	UserID           string
	PlaceID          string
	Name             string
	Address          string
	Rating           float32
	UserRatingsTotal int
	Latitude         float64
	Longitude        float64
	PlaceType        string
	QuietScore       float32
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo}
}

func (s *FavoriteService) SaveFavorite(ctx context.Context, in SaveFavoriteInput) (*models.Favorite, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthenticatedError("Sign in to save places")
	}
	if strings.TrimSpace(in.PlaceID) == "" {
		return nil, models.NewValidationError("Place ID is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Place name is required")
	}

	favorite := &models.Favorite{
		UserID:           in.UserID,
		PlaceID:          in.PlaceID,
		Name:             strings.TrimSpace(in.Name),
		Address:          in.Address,
		Rating:           in.Rating,
		UserRatingsTotal: in.UserRatingsTotal,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		PlaceType:        in.PlaceType,
		QuietScore:       in.QuietScore,
	}
	if err := s.favoriteRepo.Save(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if userID == "" {
		return nil, models.NewUnauthenticatedError("Sign in to see saved places")
	}

	var favorites []*models.Favorite
	err := cache.Aside(ctx, cache.FavoritesKey(userID), &favorites, cache.FavoritesTTL, func() error {
		var fetchErr error
		favorites, fetchErr = s.favoriteRepo.ListByUser(ctx, userID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, placeID string) error {
	if userID == "" {
		return models.NewUnauthenticatedError("Sign in to manage saved places")
	}
	exists, err := s.favoriteRepo.Exists(ctx, userID, placeID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Favorite", placeID)
	}
	return s.favoriteRepo.Delete(ctx, userID, placeID)
}
