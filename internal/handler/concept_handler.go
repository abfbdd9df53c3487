package handler

import (
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/middleware"
	"github.com/mcunha12/medstudent/internal/service"
	"github.com/mcunha12/medstudent/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ConceptHandler serves the AI concept wiki.
type ConceptHandler struct {
	service   service.ConceptService
	validator *validation.Validator
}

func NewConceptHandler(service service.ConceptService) *ConceptHandler {
	return &ConceptHandler{service: service, validator: validation.NewValidator()}
}

// Search handles POST /api/concepts/search. An AI failure is still a 200: the
// body carries status "failed" and the reason.
func (h *ConceptHandler) Search(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req dto.ConceptSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := h.validator.ValidateConceptQuery(req.Query); len(errs) > 0 {
		return errs
	}

	lookup, err := h.service.GetOrCreateExplanation(c.UserContext(), req.Query, userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewConceptLookupResponse(lookup))
}

// History handles GET /api/concepts/history
func (h *ConceptHandler) History(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	views, err := h.service.SearchHistory(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewConceptHistoryResponse(views))
}

// GetConcept handles GET /api/concepts/:id
func (h *ConceptHandler) GetConcept(c *fiber.Ctx) error {
	id, _ := c.Locals(middleware.ValidatedConceptIDKey).(string)
	if id == "" {
		id = c.Params("id")
	}

	concept, err := h.service.GetConcept(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewConceptResponse(concept))
}
