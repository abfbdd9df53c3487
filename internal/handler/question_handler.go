package handler

import (
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/middleware"
	"github.com/mcunha12/medstudent/internal/service"
	"github.com/mcunha12/medstudent/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler handles practice selection, simulados and the bank facets.
type QuestionHandler struct {
	service   service.QuestionService
	validator *validation.Validator
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// SelectQuestions handles POST /api/questions/select
func (h *QuestionHandler) SelectQuestions(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req dto.SelectQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	criteria, errs := h.validator.ValidateSelectQuestionsRequest(&req)
	if len(errs) > 0 {
		return errs
	}

	questions, err := h.service.SelectQuestions(c.UserContext(), userID, criteria)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		logger.Get().Debug("No question matched the filters", zap.String("userID", userID))
	}
	return c.JSON(dto.NewQuestionListResponse(questions))
}

// BuildSimulado handles POST /api/simulados
func (h *QuestionHandler) BuildSimulado(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req dto.SelectQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	criteria, errs := h.validator.ValidateSimuladoRequest(&req)
	if len(errs) > 0 {
		return errs
	}

	simulado, err := h.service.BuildSimulado(c.UserContext(), userID, criteria)
	if err != nil {
		return err
	}
	list := dto.NewQuestionListResponse(simulado.Questions)
	return c.JSON(dto.SimuladoResponse{
		Questions:      list.Questions,
		GeneratedCount: simulado.Generated,
		Notice:         simulado.Notice,
	})
}

// ListSpecialties handles GET /api/specialties
func (h *QuestionHandler) ListSpecialties(c *fiber.Ctx) error {
	items, err := h.service.ListSpecialties(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.StringListResponse{Items: items})
}

// ListExamSources handles GET /api/exams
func (h *QuestionHandler) ListExamSources(c *fiber.Ctx) error {
	items, err := h.service.ListExamSources(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.StringListResponse{Items: items})
}
