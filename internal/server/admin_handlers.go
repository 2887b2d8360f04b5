// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"plume/internal/cache"
	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FlushCache handles POST /api/admin/cache/flush. It drops every cached
// entry, including the global feed snapshot, forcing the next requests to
// recompute from the database.
func (s *Server) FlushCache(c *fiber.Ctx) error {
	if err := cache.FlushAll(c.Context()); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"status": "flushed"})
}
