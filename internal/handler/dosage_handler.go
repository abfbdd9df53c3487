package handler

import (
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DosageHandler struct {
	service service.DosageService
}

func NewDosageHandler(service service.DosageService) *DosageHandler {
	return &DosageHandler{service: service}
}

// Advise handles POST /api/dosage
func (h *DosageHandler) Advise(c *fiber.Ctx) error {
	var req dto.DosageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	advice, err := h.service.Advise(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDosageResponse(advice))
}
