package service

import (
	"context"
	"strings"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/util"

	"go.uber.org/zap"
)

// AnswerService records submissions and lists them back for review.
type AnswerService interface {
	// SubmitAnswer stores the user's choice. A stored correct answer is never
	// replaced; an incorrect one is overwritten by any new submission.
	SubmitAnswer(ctx context.Context, userID, questionID, chosen string) (*domain.AnswerResult, error)
	ListAnsweredQuestions(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.AnsweredQuestion, error)
}

type answerServiceImpl struct {
	questionRepo domain.QuestionRepository
	answerRepo   domain.AnswerRepository
	performance  PerformanceService
	now          func() time.Time
}

func NewAnswerService(questionRepo domain.QuestionRepository, answerRepo domain.AnswerRepository, performance PerformanceService) AnswerService {
	return &answerServiceImpl{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		performance:  performance,
		now:          time.Now,
	}
}

func (s *answerServiceImpl) SubmitAnswer(ctx context.Context, userID, questionID, chosen string) (*domain.AnswerResult, error) {
	chosen = strings.ToUpper(strings.TrimSpace(chosen))

	var errs domain.ValidationErrors
	if userID == "" {
		errs = append(errs, domain.NewMissingFieldError("user_id"))
	}
	if questionID == "" {
		errs = append(errs, domain.NewMissingFieldError("question_id"))
	}
	if chosen == "" {
		errs = append(errs, domain.NewMissingFieldError("chosen_option"))
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load question", err)
	}
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(questionID)
	}
	if _, ok := question.Options[chosen]; !ok {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("chosen_option", chosen)}
	}

	stored, outcome, err := s.answerRepo.UpsertAnswer(ctx, &domain.Answer{
		ID:           util.NewULID(),
		UserID:       userID,
		QuestionID:   questionID,
		ChosenOption: chosen,
		IsCorrect:    question.IsCorrect(chosen),
		AnsweredAt:   s.now(),
	})
	if err != nil {
		return nil, domain.NewStorageError("Failed to save answer", err)
	}

	if outcome.Changed() && s.performance != nil {
		if err := s.performance.Invalidate(ctx, userID); err != nil {
			logger.Get().Warn("Failed to invalidate performance cache after answer",
				zap.String("userID", userID), zap.Error(err))
		}
	}

	logger.Get().Debug("Answer submitted",
		zap.String("userID", userID),
		zap.String("questionID", questionID),
		zap.String("outcome", string(outcome)))

	return &domain.AnswerResult{Answer: stored, Outcome: outcome, Submitted: chosen}, nil
}

func (s *answerServiceImpl) ListAnsweredQuestions(ctx context.Context, userID string, filter domain.ReviewFilter) ([]domain.AnsweredQuestion, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	if filter.Status == domain.StatusUnanswered {
		return nil, domain.NewInvalidInputError("review status must be correct or incorrect")
	}

	rows, err := s.answerRepo.ListAnsweredQuestions(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load answered questions", err)
	}

	out := make([]domain.AnsweredQuestion, 0, len(rows))
	for _, r := range rows {
		if matchesReviewFilter(r, filter) {
			out = append(out, r)
		}
	}
	return out, nil
}

func matchesReviewFilter(r domain.AnsweredQuestion, f domain.ReviewFilter) bool {
	switch f.Status {
	case domain.StatusCorrect:
		if !r.IsCorrect {
			return false
		}
	case domain.StatusIncorrect:
		if r.IsCorrect {
			return false
		}
	}
	if f.Exam != "" && r.SourceExam != f.Exam {
		return false
	}
	if f.Area != "" {
		for _, a := range r.Areas {
			if util.ContainsFold(a, f.Area) {
				return true
			}
		}
		return false
	}
	return true
}
