package server

import (
	"encoding/base64"
	"io"

	"quietspace/internal/middleware"
	"quietspace/internal/models"
	"quietspace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. The feed is public; a valid bearer token
// additionally fills in the viewer's liked flags.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	viewerID, _ := middleware.OptionalUserID(c)

	posts, err := s.communityService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:    limit,
		Offset:   offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	viewerID, _ := middleware.OptionalUserID(c)
	post, err := s.communityService.GetPost(c.Context(), c.Params("id"), viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts. The image arrives either as a multipart
// file field or base64 in a JSON body.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{UserID: currentUserID(c)}

	if file, err := c.FormFile("image"); err == nil {
		src, openErr := file.Open()
		if openErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded image"))
		}
		defer src.Close()
		data, readErr := io.ReadAll(src)
		if readErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded image"))
		}
		in.Image = data
		in.PlaceName = c.FormValue("place_name")
		in.Caption = c.FormValue("caption")
		in.Category = c.FormValue("category")
	} else {
		var req struct {
			PlaceName   string `json:"place_name"`
			Caption     string `json:"caption"`
			Category    string `json:"category"`
			ImageBase64 string `json:"image_base64"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		decoded, decErr := base64.StdEncoding.DecodeString(req.ImageBase64)
		if decErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid image encoding"))
		}
		in.Image = decoded
		in.PlaceName = req.PlaceName
		in.Caption = req.Caption
		in.Category = req.Category
	}

	post, err := s.communityService.CreatePost(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	post, err := s.communityService.ToggleLike(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked":       post.Liked,
		"likes_count": post.LikesCount,
		"post":        post,
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.communityService.DeletePost(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// SyncCounts handles POST /api/posts/sync-counts. Clients call it on
// pull-to-refresh so drifted counters heal before the feed re-renders.
func (s *Server) SyncCounts(c *fiber.Ctx) error {
	corrected, err := s.communityService.SyncCounts(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"corrected": corrected})
}
