package utils

import "github.com/gofiber/fiber/v2"

// Data wraps read responses in the {"data": ...} envelope the frontend expects.
func Data(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"data": data,
	})
}

// Created is the create-mutation response shape: just the new record's id.
func Created(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

// JSON sends an arbitrary top-level payload. Update mutations return the
// updated record unwrapped.
func JSON(c *fiber.Ctx, status int, payload interface{}) error {
	return c.Status(status).JSON(payload)
}

// Error reports a business-rule failure as {"error": message}.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
