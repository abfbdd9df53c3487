package handler

import (
	"github.com/mcunha12/medstudent/internal/middleware"
	"github.com/mcunha12/medstudent/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler mounted under /api.
type Handlers struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	User     *UserHandler
	Concept  *ConceptHandler
	Dosage   *DosageHandler
}

// RegisterRoutes mounts the API on router. Everything but registration and
// login requires a bearer token.
func RegisterRoutes(router fiber.Router, h Handlers, authService service.AuthService) {
	vm := middleware.NewValidationMiddleware()
	protected := middleware.Protected(authService)

	authGroup := router.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)

	router.Post("/questions/select", protected, h.Question.SelectQuestions)
	router.Post("/simulados", protected, h.Question.BuildSimulado)
	router.Get("/specialties", protected, h.Question.ListSpecialties)
	router.Get("/exams", protected, h.Question.ListExamSources)

	router.Post("/answers", protected, h.Answer.SubmitAnswer)
	router.Get("/answers", protected, h.Answer.ListAnswers)

	router.Get("/performance", protected, h.User.GetMyPerformance)
	router.Get("/ranking", protected, vm.ValidatePeriod(), h.User.GetMyRanking)

	conceptGroup := router.Group("/concepts", protected)
	conceptGroup.Post("/search", h.Concept.Search)
	conceptGroup.Get("/history", h.Concept.History)
	conceptGroup.Get("/:id", vm.ValidateConceptID(), h.Concept.GetConcept)

	router.Post("/dosage", protected, h.Dosage.Advise)
}
