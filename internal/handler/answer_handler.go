package handler

import (
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/middleware"
	"github.com/mcunha12/medstudent/internal/service"
	"github.com/mcunha12/medstudent/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AnswerHandler records answers and serves the review list.
type AnswerHandler struct {
	service   service.AnswerService
	validator *validation.Validator
}

func NewAnswerHandler(service service.AnswerService) *AnswerHandler {
	return &AnswerHandler{service: service, validator: validation.NewValidator()}
}

// SubmitAnswer handles POST /api/answers
func (h *AnswerHandler) SubmitAnswer(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := h.validator.ValidateSubmitAnswerRequest(&req); len(errs) > 0 {
		return errs
	}

	result, err := h.service.SubmitAnswer(c.UserContext(), userID, req.QuestionID, req.ChosenOption)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnswerResponse(result))
}

// ListAnswers handles GET /api/answers?status=&area=&exam=
func (h *AnswerHandler) ListAnswers(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var q dto.ReviewQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	filter, errs := h.validator.ValidateReviewQuery(&q)
	if len(errs) > 0 {
		return errs
	}

	rows, err := h.service.ListAnsweredQuestions(c.UserContext(), userID, filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnsweredQuestionsResponse(rows))
}
