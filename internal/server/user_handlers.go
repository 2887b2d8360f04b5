// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("User", userID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:username. The following flag is
// viewer-relative: anonymous viewers always see false.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	viewerID, _ := s.optionalUserID(c)

	profile, _, err := s.feedService.ProfileFeed(c.Context(), username, viewerID, 1)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetUserPosts handles GET /api/users/:username/posts?page=N
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")
	viewerID, _ := s.optionalUserID(c)

	profile, feedPage, err := s.feedService.ProfileFeed(c.Context(), username, viewerID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"profile": profile,
		"posts":   feedPage.Posts,
		"meta":    feedPage.Meta,
	})
}

// FollowUser handles POST /api/users/:username/follow. Following yourself or
// someone you already follow changes nothing; both return the current profile.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	author, err := s.followService.Follow(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, _, err := s.feedService.ProfileFeed(c.Context(), author.Username, userID, 1)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UnfollowUser handles DELETE /api/users/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	author, err := s.followService.Unfollow(c.Context(), userID, username)
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, _, err := s.feedService.ProfileFeed(c.Context(), author.Username, userID, 1)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}
