package handler_test

import (
	"context"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/selection"
	"github.com/mcunha12/medstudent/internal/service"
)

const (
	testToken  = "good-token"
	testUserID = "user-1"
)

// --- Manual Mocks ---

type MockAuthService struct {
	RegisterFunc func(ctx context.Context, email, password string) (*domain.User, error)
	LoginFunc    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if tokenString == testToken {
		return &dto.AuthClaims{UserID: testUserID, TokenType: "access"}, nil
	}
	return nil, service.ErrInvalidJWTToken
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	return "signed-" + user.ID, nil
}

func (m *MockAuthService) GetOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	panic("MockAuthService.GetOrCreateUser not implemented")
}

func (m *MockAuthService) AccessTokenTTL() time.Duration { return time.Hour }

type MockQuestionService struct {
	SelectQuestionsFunc func(ctx context.Context, userID string, c selection.Criteria) ([]*domain.Question, error)
	BuildSimuladoFunc   func(ctx context.Context, userID string, c selection.Criteria) (*service.Simulado, error)
	ListSpecialtiesFunc func(ctx context.Context) ([]string, error)
	ListExamSourcesFunc func(ctx context.Context) ([]string, error)
}

func (m *MockQuestionService) SelectQuestions(ctx context.Context, userID string, c selection.Criteria) ([]*domain.Question, error) {
	if m.SelectQuestionsFunc != nil {
		return m.SelectQuestionsFunc(ctx, userID, c)
	}
	panic("MockQuestionService.SelectQuestionsFunc not implemented")
}

func (m *MockQuestionService) BuildSimulado(ctx context.Context, userID string, c selection.Criteria) (*service.Simulado, error) {
	if m.BuildSimuladoFunc != nil {
		return m.BuildSimuladoFunc(ctx, userID, c)
	}
	panic("MockQuestionService.BuildSimuladoFunc not implemented")
}

func (m *MockQuestionService) ListSpecialties(ctx context.Context) ([]string, error) {
	if m.ListSpecialtiesFunc != nil {
		return m.ListSpecialtiesFunc(ctx)
	}
	panic("MockQuestionService.ListSpecialtiesFunc not implemented")
}

func (m *MockQuestionService) ListExamSources(ctx context.Context) ([]string, error) {
	if m.ListExamSourcesFunc != nil {
		return m.ListExamSourcesFunc(ctx)
	}
	panic("MockQuestionService.ListExamSourcesFunc not implemented")
}

func (m *MockQuestionService) ImportQuestions(ctx context.Context, files []service.ImportFile) (*service.ImportReport, error) {
	panic("MockQuestionService.ImportQuestions not implemented")
}

type MockAnswerService struct {
	SubmitAnswerFunc          func(ctx context.Context, userID, questionID, chosen string) (*domain.AnswerResult, error)
	ListAnsweredQuestionsFunc func(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.AnsweredQuestion, error)
}

func (m *MockAnswerService) SubmitAnswer(ctx context.Context, userID, questionID, chosen string) (*domain.AnswerResult, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, userID, questionID, chosen)
	}
	panic("MockAnswerService.SubmitAnswerFunc not implemented")
}

func (m *MockAnswerService) ListAnsweredQuestions(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.AnsweredQuestion, error) {
	if m.ListAnsweredQuestionsFunc != nil {
		return m.ListAnsweredQuestionsFunc(ctx, userID, filter)
	}
	panic("MockAnswerService.ListAnsweredQuestionsFunc not implemented")
}

type MockPerformanceService struct {
	GetPerformanceFunc func(ctx context.Context, userID string) (*domain.PerformanceReport, error)
}

func (m *MockPerformanceService) GetPerformance(ctx context.Context, userID string) (*domain.PerformanceReport, error) {
	if m.GetPerformanceFunc != nil {
		return m.GetPerformanceFunc(ctx, userID)
	}
	panic("MockPerformanceService.GetPerformanceFunc not implemented")
}

func (m *MockPerformanceService) Invalidate(ctx context.Context, userID string) error { return nil }

type MockRankingService struct {
	GetRankingFunc func(ctx context.Context, userID string, period domain.Period) (*domain.Ranking, error)
}

func (m *MockRankingService) GetRanking(ctx context.Context, userID string, period domain.Period) (*domain.Ranking, error) {
	if m.GetRankingFunc != nil {
		return m.GetRankingFunc(ctx, userID, period)
	}
	panic("MockRankingService.GetRankingFunc not implemented")
}

type MockConceptService struct {
	GetOrCreateExplanationFunc func(ctx context.Context, query, userID string) (*domain.ConceptLookup, error)
	SearchHistoryFunc          func(ctx context.Context, userID string) ([]domain.ConceptView, error)
	GetConceptFunc             func(ctx context.Context, id string) (*domain.ConceptExplanation, error)
}

func (m *MockConceptService) GetOrCreateExplanation(ctx context.Context, query, userID string) (*domain.ConceptLookup, error) {
	if m.GetOrCreateExplanationFunc != nil {
		return m.GetOrCreateExplanationFunc(ctx, query, userID)
	}
	panic("MockConceptService.GetOrCreateExplanationFunc not implemented")
}

func (m *MockConceptService) SearchHistory(ctx context.Context, userID string) ([]domain.ConceptView, error) {
	if m.SearchHistoryFunc != nil {
		return m.SearchHistoryFunc(ctx, userID)
	}
	panic("MockConceptService.SearchHistoryFunc not implemented")
}

func (m *MockConceptService) GetConcept(ctx context.Context, id string) (*domain.ConceptExplanation, error) {
	if m.GetConceptFunc != nil {
		return m.GetConceptFunc(ctx, id)
	}
	panic("MockConceptService.GetConceptFunc not implemented")
}

func (m *MockConceptService) WarmConcepts(ctx context.Context, limit, concurrency int) (*service.WarmReport, error) {
	panic("MockConceptService.WarmConcepts not implemented")
}

type MockDosageService struct {
	AdviseFunc func(ctx context.Context, req domain.DosageRequest) (*domain.DosageAdvice, error)
}

func (m *MockDosageService) Advise(ctx context.Context, req domain.DosageRequest) (*domain.DosageAdvice, error) {
	if m.AdviseFunc != nil {
		return m.AdviseFunc(ctx, req)
	}
	panic("MockDosageService.AdviseFunc not implemented")
}
