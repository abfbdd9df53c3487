package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/selection"
	"github.com/mcunha12/medstudent/internal/util"

	"go.uber.org/zap"
)

const (
	defaultSimuladoSize = 20
	maxSimuladoSize     = 50
)

// Simulado is a mock exam. Generated counts the AI questions appended to it.
// Notice explains why the exam is shorter than requested, if it is.
type Simulado struct {
	Questions []*domain.Question
	Generated int
	Notice    string
}

// QuestionService serves the question bank.
type QuestionService interface {
	// SelectQuestions returns a random sample of the questions matching c. An
	// empty result means nothing matched and is not an error.
	SelectQuestions(ctx context.Context, userID string, c selection.Criteria) ([]*domain.Question, error)
	// BuildSimulado selects a mock exam and tops it up with AI questions when
	// the bank cannot fill it.
	BuildSimulado(ctx context.Context, userID string, c selection.Criteria) (*Simulado, error)
	ListSpecialties(ctx context.Context) ([]string, error)
	ListExamSources(ctx context.Context) ([]string, error)
	ImportQuestions(ctx context.Context, files []ImportFile) (*ImportReport, error)
}

type questionServiceImpl struct {
	questionRepo domain.QuestionRepository
	answerRepo   domain.AnswerRepository
	generator    domain.QuestionGenerator // optional
	tm           domain.TransactionManager
	simuladoSize int
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewQuestionService creates a QuestionService. generator may be nil, in which
// case simulados are never topped up.
func NewQuestionService(
	questionRepo domain.QuestionRepository,
	answerRepo domain.AnswerRepository,
	generator domain.QuestionGenerator,
	tm domain.TransactionManager,
	cfg *config.Config,
) QuestionService {
	size := defaultSimuladoSize
	if cfg != nil && cfg.Simulado.TargetSize > 0 {
		size = cfg.Simulado.TargetSize
	}
	return &questionServiceImpl{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		generator:    generator,
		tm:           tm,
		simuladoSize: size,
		now:          time.Now,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *questionServiceImpl) SelectQuestions(ctx context.Context, userID string, c selection.Criteria) ([]*domain.Question, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pool, _, err := s.pool(ctx, userID, c)
	if err != nil {
		return nil, err
	}
	return s.sample(pool, c.SampleSize), nil
}

func (s *questionServiceImpl) BuildSimulado(ctx context.Context, userID string, c selection.Criteria) (*Simulado, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	if c.SampleSize == 0 {
		c.SampleSize = s.simuladoSize
	}
	if c.SampleSize > maxSimuladoSize {
		return nil, domain.ValidationErrors{domain.NewOutOfRangeError("sample_size", c.SampleSize, 1, maxSimuladoSize)}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	pool, bank, err := s.pool(ctx, userID, c)
	if err != nil {
		return nil, err
	}
	sim := &Simulado{Questions: s.sample(pool, c.SampleSize)}
	missing := c.SampleSize - len(sim.Questions)
	if missing == 0 {
		return sim, nil
	}

	if s.generator == nil {
		sim.Notice = fmt.Sprintf("Only %d matching questions were found.", len(sim.Questions))
		return sim, nil
	}

	seeds := pool
	if len(seeds) == 0 {
		// Nothing left for the requested statuses; seed from the same topic instead.
		anyStatus := c
		anyStatus.Statuses = []domain.AnswerStatus{domain.StatusUnanswered, domain.StatusCorrect, domain.StatusIncorrect}
		seeds = selection.BuildPool(bank, nil, anyStatus)
	}
	if len(seeds) == 0 {
		sim.Notice = "No questions match these filters, so none could be generated."
		return sim, nil
	}
	seeds = s.sample(seeds, len(seeds))

	l := logger.Get()
	for i := 0; i < missing; i++ {
		seed := seeds[i%len(seeds)]
		q, err := s.generator.GenerateFromSeed(ctx, seed)
		if err != nil {
			l.Warn("Stopping simulado generation",
				zap.String("seedID", seed.ID), zap.Int("generated", sim.Generated), zap.Error(err))
			sim.Notice = describeAIFailure(err)
			break
		}
		q.ID = util.NewULID()
		q.CreatedAt = s.now()
		if err := s.questionRepo.CreateQuestion(ctx, q); err != nil {
			return nil, domain.NewStorageError("Failed to save generated question", err)
		}
		sim.Questions = append(sim.Questions, q)
		sim.Generated++
	}

	if sim.Generated > 0 {
		l.Info("Simulado completed with generated questions",
			zap.String("userID", userID), zap.Int("generated", sim.Generated))
	}
	return sim, nil
}

func (s *questionServiceImpl) ListSpecialties(ctx context.Context) ([]string, error) {
	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load questions", err)
	}
	return selection.Specialties(questions), nil
}

func (s *questionServiceImpl) ListExamSources(ctx context.Context) ([]string, error) {
	sources, err := s.questionRepo.ListExamSources(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load exam sources", err)
	}
	if sources == nil {
		sources = []string{}
	}
	return sources, nil
}

// pool returns the filtered pool and the full bank it was drawn from.
func (s *questionServiceImpl) pool(ctx context.Context, userID string, c selection.Criteria) ([]*domain.Question, []*domain.Question, error) {
	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, nil, domain.NewStorageError("Failed to load questions", err)
	}
	answers, err := s.answerRepo.ListAnswersByUser(ctx, userID)
	if err != nil {
		return nil, nil, domain.NewStorageError("Failed to load answers", err)
	}

	byQuestion := make(map[string]*domain.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	return selection.BuildPool(questions, byQuestion, c), questions, nil
}

func (s *questionServiceImpl) sample(pool []*domain.Question, n int) []*domain.Question {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return selection.Sample(pool, n, s.rng)
}
