package server

import (
	"quietspace/internal/models"
	"quietspace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.communityService.GetComments(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Comment string  `json:"comment"`
		Rating  float32 `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.communityService.AddComment(c.Context(), service.AddCommentInput{
		UserID: currentUserID(c),
		PostID: c.Params("id"),
		Text:   req.Comment,
		Rating: req.Rating,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
