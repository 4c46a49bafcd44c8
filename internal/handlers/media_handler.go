package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-service/internal/utils"
)

// GET /api/v1/media/limits
func (h *Handler) MediaLimits(c *fiber.Ctx) error {
	return utils.JSONSuccess(c, fiber.StatusOK, "", h.media.Limits())
}
