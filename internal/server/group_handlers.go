// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetGroups handles GET /api/groups
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroupBySlug handles GET /api/groups/:slug
func (s *Server) GetGroupBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	group, err := s.groupRepo.GetBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Group", slug))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(group)
}

// GetGroupFeed handles GET /api/groups/:slug/posts?page=N
func (s *Server) GetGroupFeed(c *fiber.Ctx) error {
	slug := c.Params("slug")

	group, feedPage, err := s.feedService.GroupFeed(c.Context(), slug, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"group": group,
		"posts": feedPage.Posts,
		"meta":  feedPage.Meta,
	})
}

// CreateGroup handles POST /api/admin/groups
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and slug are required"))
	}

	group := &models.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.groupRepo.Create(c.Context(), group); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// DeleteGroup handles DELETE /api/admin/groups/:slug. Posts in the group
// survive; they just lose their group association.
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	slug := c.Params("slug")

	group, err := s.groupRepo.GetBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Group", slug))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.groupRepo.Delete(c.Context(), group.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
