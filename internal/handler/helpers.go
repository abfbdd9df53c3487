package handler

import (
	"github.com/mcunha12/medstudent/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// unauthenticated answers requests that reached a handler without passing
// through middleware.Protected.
func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
		Code:    "UNAUTHORIZED",
		Message: "User not authenticated",
		Status:  fiber.StatusUnauthorized,
	})
}
