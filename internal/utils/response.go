package utils

import "github.com/gofiber/fiber/v2"

type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func JSONSuccess(c *fiber.Ctx, status int, msg string, payload interface{}) error {
	return c.Status(status).JSON(envelope{Status: "ok", Message: msg, Data: payload})
}

func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(envelope{Status: "error", Message: msg})
}
