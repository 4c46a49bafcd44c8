package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-service/internal/utils"
)

// POST /api/v1/posts (multipart: content, media)
func (h *Handler) CreatePost(c *fiber.Ctx) error {
	f, closeFile, err := formFile(c, "media")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer closeFile()

	post, err := h.posts.Create(c.UserContext(), caller(c), c.FormValue("content"), f)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, "post created", post)
}

type directPostRequest struct {
	Content   string `json:"content"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

// POST /api/v1/posts/direct
func (h *Handler) CreateDirectPost(c *fiber.Ctx) error {
	var req directPostRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	post, err := h.posts.CreateDirect(c.UserContext(), caller(c), req.Content, req.MediaURL, req.MediaType)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, "post created", post)
}

func (h *Handler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "", posts)
}

func (h *Handler) ListPostsByUser(c *fiber.Ctx) error {
	posts, err := h.posts.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "", posts)
}

func (h *Handler) ToggleLike(c *fiber.Ctx) error {
	post, liked, err := h.posts.ToggleLike(c.UserContext(), caller(c), c.Params("postId"))
	if err != nil {
		return h.fail(c, err)
	}
	msg := "post unliked"
	if liked {
		msg = "post liked"
	}
	return utils.JSONSuccess(c, fiber.StatusOK, msg, fiber.Map{"liked": liked, "post": post})
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) AddComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	post, err := h.posts.AddComment(c.UserContext(), caller(c), c.Params("postId"), req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, "comment added", post)
}

func (h *Handler) SharePost(c *fiber.Ctx) error {
	post, err := h.posts.Share(c.UserContext(), caller(c), c.Params("postId"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "post shared", post)
}

// DELETE /api/v1/posts/:postId
// The document is removed even when the remote media could not be; the
// media outcome is reported alongside.
func (h *Handler) DeletePost(c *fiber.Ctx) error {
	res, err := h.posts.Delete(c.UserContext(), caller(c), c.Params("postId"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "post deleted", res)
}
