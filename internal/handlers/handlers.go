package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseBody parses and validates a JSON request body. On failure it
// writes the 400 response and returns false.
func parseBody(c *fiber.Ctx, dst any) bool {
	if err := c.BodyParser(dst); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
		return false
	}
	return true
}
