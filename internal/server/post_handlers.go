// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"plume/internal/service"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the shared request body for creating and editing posts.
type postRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
	Group    string `json:"group,omitempty"` // group slug, empty for none
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:  userID,
		Text:      req.Text,
		ImageURL:  req.ImageURL,
		GroupSlug: req.Group,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.GetPostDetail(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// UpdatePost handles PUT /api/posts/:id. Only the author may edit; anyone
// else is redirected to the detail view without an error status.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		PostID:    postID,
		EditorID:  userID,
		Text:      req.Text,
		ImageURL:  req.ImageURL,
		GroupSlug: req.Group,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotAuthor) {
			return redirectToPost(c, postID)
		}
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Author-only, like editing.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), postID, userID); err != nil {
		if errors.Is(err, service.ErrNotAuthor) {
			return redirectToPost(c, postID)
		}
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
