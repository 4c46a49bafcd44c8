package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	service "github.com/fathima-sithara/social-service/internal/services"
	"github.com/fathima-sithara/social-service/internal/utils"
)

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// POST /api/v1/users registers the caller's profile.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	u, err := h.users.Create(c.UserContext(), caller(c), req.Username, req.Email)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, "user created", u)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	u, err := h.users.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "", u)
}

// PUT /api/v1/users/:userId/profile (multipart: username, gender,
// dateOfBirth as YYYY-MM-DD, profilePicture)
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	upd := service.ProfileUpdate{
		Username: c.FormValue("username"),
		Gender:   c.FormValue("gender"),
	}
	if dob := c.FormValue("dateOfBirth"); dob != "" {
		t, err := time.Parse(time.DateOnly, dob)
		if err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
		}
		upd.DateOfBirth = &t
	}
	f, closeFile, err := formFile(c, "profilePicture")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer closeFile()
	upd.Picture = f

	u, err := h.users.UpdateProfile(c.UserContext(), caller(c), c.Params("userId"), upd)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "profile updated", u)
}

func (h *Handler) UpdateCoverPhoto(c *fiber.Ctx) error {
	f, closeFile, err := formFile(c, "coverPhoto")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer closeFile()

	u, err := h.users.UpdateCoverPhoto(c.UserContext(), caller(c), c.Params("userId"), f)
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "cover photo updated", u)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	res, err := h.users.Delete(c.UserContext(), caller(c), c.Params("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "user deleted", res)
}
