package server

import "github.com/gofiber/fiber/v2"

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Fields  any    `json:"fields,omitempty"`
}

// JSON writes a successful envelope.
func JSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(successResponse{Success: true, Message: message, Data: data})
}

// Error writes a failed envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorResponse{Message: message})
}

func fieldError(c *fiber.Ctx, message string, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Message: message, Fields: fields})
}
