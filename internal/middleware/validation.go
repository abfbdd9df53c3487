package middleware

import (
	"github.com/mcunha12/medstudent/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedPeriodKey    = "validated_period"
	ValidatedConceptIDKey = "validated_concept_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidatePeriod validates the ranking period query parameter.
func (vm *ValidationMiddleware) ValidatePeriod() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period, errors := vm.validator.ValidatePeriod(c.Query("period"))
		if len(errors) > 0 {
			return errors // handled by ErrorHandler
		}
		c.Locals(ValidatedPeriodKey, period)
		return c.Next()
	}
}

// ValidateConceptID validates the :id path parameter of concept routes.
func (vm *ValidationMiddleware) ValidateConceptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errors := vm.validator.ValidateConceptID(id); len(errors) > 0 {
			return errors
		}
		c.Locals(ValidatedConceptIDKey, id)
		return c.Next()
	}
}
