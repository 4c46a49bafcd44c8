package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/middleware"
	service "github.com/fathima-sithara/social-service/internal/services"
	"github.com/fathima-sithara/social-service/internal/utils"
)

type Handler struct {
	posts       *service.PostService
	stories     *service.StoryService
	users       *service.UserService
	sweeper     *service.Sweeper
	media       *media.Manager
	storyMaxAge time.Duration
	log         *zap.Logger
}

type Deps struct {
	Posts       *service.PostService
	Stories     *service.StoryService
	Users       *service.UserService
	Sweeper     *service.Sweeper
	Media       *media.Manager
	StoryMaxAge time.Duration
	Log         *zap.Logger
}

func NewHandler(d Deps) *Handler {
	if d.StoryMaxAge <= 0 {
		d.StoryMaxAge = service.DefaultStoryMaxAge
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Handler{
		posts:       d.Posts,
		stories:     d.Stories,
		users:       d.Users,
		sweeper:     d.Sweeper,
		media:       d.Media,
		storyMaxAge: d.StoryMaxAge,
		log:         d.Log,
	}
}

// Register mounts the API under /api/v1. auth guards every route except the
// media limits; uploadGuard (optional) runs before upload routes.
func (h *Handler) Register(app fiber.Router, auth, uploadGuard fiber.Handler) {
	if uploadGuard == nil {
		uploadGuard = func(c *fiber.Ctx) error { return c.Next() }
	}
	api := app.Group("/api/v1")
	api.Get("/media/limits", h.MediaLimits)

	posts := api.Group("/posts", auth)
	posts.Post("/", uploadGuard, h.CreatePost)
	posts.Post("/direct", h.CreateDirectPost)
	posts.Get("/", h.ListPosts)
	posts.Get("/user/:userId", h.ListPostsByUser)
	posts.Post("/likes/:postId", h.ToggleLike)
	posts.Post("/comments/:postId", h.AddComment)
	posts.Post("/share/:postId", h.SharePost)
	posts.Delete("/:postId", h.DeletePost)

	story := api.Group("/story", auth)
	story.Post("/", uploadGuard, h.CreateStory)
	story.Get("/", h.ListStories)
	story.Delete("/:storyId", h.DeleteStory)

	api.Post("/admin/cleanup-old-stories", auth, h.CleanupOldStories)

	users := api.Group("/users", auth)
	users.Post("/", h.CreateUser)
	users.Get("/:userId", h.GetUser)
	users.Put("/:userId/profile", uploadGuard, h.UpdateProfile)
	users.Put("/:userId/cover", uploadGuard, h.UpdateCoverPhoto)
	users.Delete("/:userId", h.DeleteUser)
}

// fail maps service errors onto the JSON error envelope.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var verr *media.ValidationError
	var serr *media.StoreError
	switch {
	case errors.As(err, &verr):
		if verr.Kind == media.TooLarge {
			return utils.JSONError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		}
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &serr):
		return utils.JSONError(c, fiber.StatusBadGateway, "failed to upload media")
	case errors.Is(err, utils.ErrInvalidInput):
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, utils.ErrNotFound):
		return utils.JSONError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, utils.ErrForbidden):
		return utils.JSONError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, utils.ErrConflict):
		return utils.JSONError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, utils.ErrUploadFailed):
		return utils.JSONError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return utils.JSONError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// formFile opens the multipart field if present. A missing field is not an
// error. The returned close func is never nil.
func formFile(c *fiber.Ctx, field string) (*media.File, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	return openFile(fh)
}

func openFile(fh *multipart.FileHeader) (*media.File, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	closeFn := func() { _ = f.Close() }

	ct := fh.Header.Get(fiber.HeaderContentType)
	if ct == "" || ct == fiber.MIMEOctetStream {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		ct = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			closeFn()
			return nil, func() {}, err
		}
	}
	return &media.File{Data: f, MimeType: ct, Size: fh.Size, Filename: fh.Filename}, closeFn, nil
}

func caller(c *fiber.Ctx) string {
	return middleware.UserID(c)
}
