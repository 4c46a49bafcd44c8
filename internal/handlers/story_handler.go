package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-service/internal/utils"
)

// POST /api/v1/story (multipart: media)
func (h *Handler) CreateStory(c *fiber.Ctx) error {
	f, closeFile, err := formFile(c, "media")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer closeFile()

	story, err := h.stories.Create(c.UserContext(), caller(c), f)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, "story created", story)
}

func (h *Handler) ListStories(c *fiber.Ctx) error {
	stories, err := h.stories.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "", stories)
}

func (h *Handler) DeleteStory(c *fiber.Ctx) error {
	res, err := h.stories.Delete(c.UserContext(), caller(c), c.Params("storyId"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "story deleted", res)
}

// POST /api/v1/admin/cleanup-old-stories runs the expiry sweep now.
func (h *Handler) CleanupOldStories(c *fiber.Ctx) error {
	report, err := h.sweeper.Sweep(c.UserContext(), h.storyMaxAge)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "old stories cleaned up", report)
}
