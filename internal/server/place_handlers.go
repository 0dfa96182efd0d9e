package server

import (
	"strconv"

	"quietspace/internal/cache"
	"quietspace/internal/middleware"
	"quietspace/internal/models"
	"quietspace/internal/places"

	"github.com/gofiber/fiber/v2"
)

const defaultNearbyRadius = 1500

// GetNearbyPlaces handles GET /api/places/nearby?lat=..&lng=..&radius=..
func (s *Server) GetNearbyPlaces(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("lat and lng query parameters are required"))
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("lat/lng out of range"))
	}

	radius := defaultNearbyRadius
	if raw := c.Query("radius"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 50000 {
			radius = v
		}
	}

	viewerID, _ := middleware.OptionalUserID(c)

	// Nearby results are cached per coordinate bucket behind a rollout flag.
	var results []places.Place
	if s.featureFlags.Enabled("nearby_cache", viewerID) {
		key := cache.NearbyKey(lat, lng)
		err := cache.Aside(c.Context(), key, &results, cache.NearbyTTL, func() error {
			var fetchErr error
			results, fetchErr = s.placesClient.NearbySearch(c.Context(), lat, lng, radius)
			return fetchErr
		})
		if err != nil {
			return respondServiceError(c, err)
		}
	} else {
		var err error
		results, err = s.placesClient.NearbySearch(c.Context(), lat, lng, radius)
		if err != nil {
			return respondServiceError(c, err)
		}
	}

	if results == nil {
		results = []places.Place{}
	}
	return c.JSON(fiber.Map{"places": results})
}
