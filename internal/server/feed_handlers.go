// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetGlobalFeed handles GET /api/feed?page=N
func (s *Server) GetGlobalFeed(c *fiber.Ctx) error {
	feedPage, err := s.feedService.GlobalFeed(c.Context(), parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feedPage)
}

// GetFollowingFeed handles GET /api/feed/following?page=N
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	feedPage, err := s.feedService.FollowingFeed(c.Context(), userID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feedPage)
}
