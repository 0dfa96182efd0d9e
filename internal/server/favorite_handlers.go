package server

import (
	"quietspace/internal/models"
	"quietspace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFavorites handles GET /api/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	favorites, err := s.favoriteService.ListFavorites(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if favorites == nil {
		favorites = []*models.Favorite{}
	}
	return c.JSON(fiber.Map{"favorites": favorites})
}

// SaveFavorite handles POST /api/favorites
func (s *Server) SaveFavorite(c *fiber.Ctx) error {
	var req struct {
		PlaceID          string  `json:"place_id"`
		Name             string  `json:"name"`
		Address          string  `json:"address"`
		Rating           float32 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Latitude         float64 `json:"latitude"`
		Longitude        float64 `json:"longitude"`
		PlaceType        string  `json:"place_type"`
		QuietScore       float32 `json:"quiet_score"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	favorite, err := s.favoriteService.SaveFavorite(c.Context(), service.SaveFavoriteInput{
		UserID:           currentUserID(c),
		PlaceID:          req.PlaceID,
		Name:             req.Name,
		Address:          req.Address,
		Rating:           req.Rating,
		UserRatingsTotal: req.UserRatingsTotal,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		PlaceType:        req.PlaceType,
		QuietScore:       req.QuietScore,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(favorite)
}

// RemoveFavorite handles DELETE /api/favorites/:placeId
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	if err := s.favoriteService.RemoveFavorite(c.Context(), currentUserID(c), c.Params("placeId")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Favorite removed"})
}
