package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSimilarityThreshold = 0.9
	defaultShortQueryWords     = 5
	defaultWarmConcurrency     = 4
)

// ConceptService is the AI wiki. Explanations form one shared pool; each user
// only keeps a history of the concepts they looked at.
type ConceptService interface {
	// GetOrCreateExplanation never returns an error for AI failures. Those come
	// back as a lookup with status failed and the reason as the explanation.
	GetOrCreateExplanation(ctx context.Context, query, userID string) (*domain.ConceptLookup, error)
	SearchHistory(ctx context.Context, userID string) ([]domain.ConceptView, error)
	GetConcept(ctx context.Context, id string) (*domain.ConceptExplanation, error)
	// WarmConcepts pre-generates explanations for subtopics of the question bank
	// that have none yet.
	WarmConcepts(ctx context.Context, limit, concurrency int) (*WarmReport, error)
}

// WarmReport counts the outcome of a warm-up run.
type WarmReport struct {
	Candidates int
	Created    int
	Failed     int
}

type conceptServiceImpl struct {
	conceptRepo  domain.ConceptRepository
	questionRepo domain.QuestionRepository
	generator    domain.TextGenerator
	embedder     domain.EmbeddingService // optional
	threshold    float64
	shortQuery   int
	now          func() time.Time
}

// NewConceptService creates a ConceptService. embedder may be nil; lookups then
// fall back to title substring matching.
func NewConceptService(
	conceptRepo domain.ConceptRepository,
	questionRepo domain.QuestionRepository,
	generator domain.TextGenerator,
	embedder domain.EmbeddingService,
	cfg *config.Config,
) ConceptService {
	s := &conceptServiceImpl{
		conceptRepo:  conceptRepo,
		questionRepo: questionRepo,
		generator:    generator,
		embedder:     embedder,
		threshold:    defaultSimilarityThreshold,
		shortQuery:   defaultShortQueryWords,
		now:          time.Now,
	}
	if cfg != nil {
		if cfg.Concepts.SimilarityThreshold > 0 {
			s.threshold = cfg.Concepts.SimilarityThreshold
		}
		if cfg.Concepts.ShortQueryWords > 0 {
			s.shortQuery = cfg.Concepts.ShortQueryWords
		}
	}
	return s
}

func (s *conceptServiceImpl) GetOrCreateExplanation(ctx context.Context, query, userID string) (*domain.ConceptLookup, error) {
	query = strings.TrimSpace(query)
	var errs domain.ValidationErrors
	if query == "" {
		errs = append(errs, domain.NewMissingFieldError("query"))
	}
	if userID == "" {
		errs = append(errs, domain.NewMissingFieldError("user_id"))
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	l := logger.Get()

	name := s.conceptName(ctx, query)
	nameEmbedding := s.embed(ctx, name)

	existing, err := s.findExisting(ctx, name, nameEmbedding)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.found(ctx, existing, userID)
	}

	title, body, err := s.generate(ctx, name)
	if err != nil {
		l.Warn("Concept generation failed", zap.String("concept", name), zap.Error(err))
		return &domain.ConceptLookup{
			Status:  domain.ConceptFailed,
			Message: "Could not generate an explanation for this concept.",
			Concept: &domain.ConceptExplanation{Title: name, Explanation: describeAIFailure(err)},
		}, nil
	}

	// The model may normalize the name into a title that already exists.
	if !strings.EqualFold(title, name) {
		dup, err := s.conceptRepo.FindConceptByTitle(ctx, title)
		if err != nil {
			return nil, domain.NewStorageError("Failed to look up concept", err)
		}
		if dup != nil {
			return s.found(ctx, dup, userID)
		}
		nameEmbedding = s.embed(ctx, title)
	}

	concept, created, err := s.store(ctx, title, body, userID, nameEmbedding)
	if err != nil {
		return nil, err
	}
	if !created {
		return s.found(ctx, concept, userID)
	}
	if err := s.conceptRepo.RecordView(ctx, userID, concept.ID, s.now()); err != nil {
		return nil, domain.NewStorageError("Failed to record concept view", err)
	}
	l.Info("Concept created", zap.String("conceptID", concept.ID), zap.String("title", concept.Title))
	return &domain.ConceptLookup{
		Status:  domain.ConceptCreated,
		Message: "New explanation generated.",
		Concept: concept,
	}, nil
}

func (s *conceptServiceImpl) found(ctx context.Context, c *domain.ConceptExplanation, userID string) (*domain.ConceptLookup, error) {
	if err := s.conceptRepo.RecordView(ctx, userID, c.ID, s.now()); err != nil {
		return nil, domain.NewStorageError("Failed to record concept view", err)
	}
	return &domain.ConceptLookup{
		Status:  domain.ConceptFound,
		Message: "Explanation found in the knowledge base.",
		Concept: c,
	}, nil
}

func (s *conceptServiceImpl) SearchHistory(ctx context.Context, userID string) ([]domain.ConceptView, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	views, err := s.conceptRepo.ListViewedConcepts(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load search history", err)
	}
	if views == nil {
		views = []domain.ConceptView{}
	}
	return views, nil
}

func (s *conceptServiceImpl) GetConcept(ctx context.Context, id string) (*domain.ConceptExplanation, error) {
	c, err := s.conceptRepo.GetConceptByID(ctx, id)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load concept", err)
	}
	if c == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("Concept not found with ID: %s", id))
	}
	return c, nil
}

func (s *conceptServiceImpl) WarmConcepts(ctx context.Context, limit, concurrency int) (*WarmReport, error) {
	if s.generator == nil {
		return nil, domain.NewLLMServiceError(errAIDisabled)
	}
	if concurrency <= 0 {
		concurrency = defaultWarmConcurrency
	}
	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load questions", err)
	}
	titles, err := s.conceptRepo.ListConceptTitles(ctx)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load concept titles", err)
	}

	known := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		known[util.NormalizeForSearch(t)] = struct{}{}
	}
	var candidates []string
	for _, q := range questions {
		for _, sub := range domain.CleanTags(q.Subtopics) {
			key := util.NormalizeForSearch(sub)
			if _, ok := known[key]; ok {
				continue
			}
			known[key] = struct{}{}
			candidates = append(candidates, sub)
		}
	}
	sort.Strings(candidates)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	report := &WarmReport{Candidates: len(candidates)}
	var created, failed atomic.Int64
	l := logger.Get()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, name := range candidates {
		g.Go(func() error {
			title, body, err := s.generate(gctx, name)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				l.Warn("Warm-up generation failed", zap.String("concept", name), zap.Error(err))
				failed.Add(1)
				return nil
			}
			dup, err := s.conceptRepo.FindConceptByTitle(gctx, title)
			if err != nil {
				return domain.NewStorageError("Failed to look up concept", err)
			}
			if dup != nil {
				return nil
			}
			// Warm-up concepts have no author; created_by stays NULL.
			_, isNew, err := s.store(gctx, title, body, "", s.embed(gctx, title))
			if err != nil {
				return err
			}
			if isNew {
				created.Add(1)
			}
			return nil
		})
	}
	err = g.Wait()
	report.Created = int(created.Load())
	report.Failed = int(failed.Load())
	if err != nil {
		return report, err
	}
	l.Info("Concept warm-up finished",
		zap.Int("candidates", report.Candidates), zap.Int("created", report.Created), zap.Int("failed", report.Failed))
	return report, nil
}

// conceptName reduces a free-form question to the concept it asks about.
// Short queries are used as-is; extraction failures fall back to the query.
func (s *conceptServiceImpl) conceptName(ctx context.Context, query string) string {
	if s.generator == nil || util.WordCount(query) <= s.shortQuery {
		return query
	}
	raw, err := s.generator.Generate(ctx, domain.GenerationRequest{
		System:      "Você extrai o conceito médico central de perguntas de estudantes.",
		Prompt:      fmt.Sprintf("Pergunta: %q\nResponda apenas com o nome do conceito médico principal, em no máximo cinco palavras, sem pontuação final.", query),
		Temperature: 0,
	})
	if err != nil {
		logger.Get().Debug("Concept name extraction failed, using query", zap.Error(err))
		return query
	}
	name := cleanConceptName(raw)
	if name == "" {
		return query
	}
	return name
}

func cleanConceptName(raw string) string {
	line := strings.TrimSpace(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.Trim(line, " \t\"'*.`")
	return strings.TrimSpace(line)
}

func (s *conceptServiceImpl) findExisting(ctx context.Context, name string, embedding []float32) (*domain.ConceptExplanation, error) {
	exact, err := s.conceptRepo.FindConceptByTitle(ctx, name)
	if err != nil {
		return nil, domain.NewStorageError("Failed to look up concept", err)
	}
	if exact != nil {
		return exact, nil
	}

	if len(embedding) > 0 {
		candidates, err := s.conceptRepo.ListConceptsWithEmbeddings(ctx)
		if err != nil {
			return nil, domain.NewStorageError("Failed to load concept embeddings", err)
		}
		return nearestConcept(candidates, embedding, s.threshold), nil
	}

	matches, err := s.conceptRepo.SearchConceptsByTitle(ctx, name)
	if err != nil {
		return nil, domain.NewStorageError("Failed to search concepts", err)
	}
	var best *domain.ConceptExplanation
	for _, m := range matches {
		if best == nil || len(m.Title) < len(best.Title) {
			best = m
		}
	}
	return best, nil
}

// nearestConcept returns the most similar concept at or above threshold.
func nearestConcept(candidates []*domain.ConceptExplanation, embedding []float32, threshold float64) *domain.ConceptExplanation {
	var (
		best      *domain.ConceptExplanation
		bestScore float64
	)
	for _, c := range candidates {
		score, err := util.CosineSimilarity(embedding, c.Embedding)
		if err != nil {
			continue
		}
		if score >= threshold && (best == nil || score > bestScore) {
			best, bestScore = c, score
		}
	}
	return best
}

func (s *conceptServiceImpl) embed(ctx context.Context, text string) []float32 {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Generate(ctx, text)
	if err != nil {
		logger.Get().Warn("Concept embedding failed", zap.String("text", text), zap.Error(err))
		return nil
	}
	return vec
}

func (s *conceptServiceImpl) generate(ctx context.Context, name string) (string, string, error) {
	if s.generator == nil {
		return "", "", errAIDisabled
	}
	req := domain.GenerationRequest{
		System:      conceptSystemPrompt,
		Prompt:      fmt.Sprintf(conceptPromptTemplate, name),
		Temperature: 0.4,
	}
	logger.Get().Debug("Generating concept", zap.String("concept", name), zap.String("prompt", req.Prompt))
	raw, err := s.generator.Generate(ctx, req)
	if err != nil {
		return "", "", err
	}
	return ParseConceptResponse(raw)
}

// store persists a new concept. When a concurrent request saved the same title
// first, the stored row is returned with created set to false.
func (s *conceptServiceImpl) store(ctx context.Context, title, body, userID string, embedding []float32) (*domain.ConceptExplanation, bool, error) {
	related, err := s.questionRepo.ListQuestionsByTag(ctx, domain.TagSubtopic, title)
	if err != nil {
		return nil, false, domain.NewStorageError("Failed to load related questions", err)
	}
	var areas []string
	for _, q := range related {
		areas = append(areas, q.Areas...)
	}
	areas = domain.CleanTags(areas)
	sort.Strings(areas)

	c := &domain.ConceptExplanation{
		ID:          util.NewULID(),
		Title:       title,
		Explanation: body,
		Areas:       areas,
		Embedding:   embedding,
		CreatedBy:   userID,
		CreatedAt:   s.now(),
	}
	if err := s.conceptRepo.CreateConcept(ctx, c); err != nil {
		winner, findErr := s.conceptRepo.FindConceptByTitle(ctx, title)
		if findErr == nil && winner != nil {
			logger.Get().Info("Concept saved concurrently, using stored row",
				zap.String("conceptID", winner.ID), zap.String("title", title))
			return winner, false, nil
		}
		return nil, false, domain.NewStorageError("Failed to save concept", err)
	}
	return c, true, nil
}

var (
	titleTag       = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	explanationTag = regexp.MustCompile(`(?s)<explanation>(.*?)</explanation>`)
)

// ParseConceptResponse extracts the title and markdown body from a reply
// shaped as <title>...</title><explanation>...</explanation>.
func ParseConceptResponse(raw string) (string, string, error) {
	title := titleTag.FindStringSubmatch(raw)
	if title == nil || strings.TrimSpace(title[1]) == "" {
		return "", "", &domain.ErrMalformedAIResponse{Raw: raw, Err: errors.New("missing <title> section")}
	}
	body := explanationTag.FindStringSubmatch(raw)
	if body == nil || strings.TrimSpace(body[1]) == "" {
		return "", "", &domain.ErrMalformedAIResponse{Raw: raw, Err: errors.New("missing <explanation> section")}
	}
	return strings.TrimSpace(title[1]), strings.TrimSpace(body[1]), nil
}

const conceptSystemPrompt = "Você é um professor de medicina que escreve verbetes didáticos para estudantes de graduação."

const conceptPromptTemplate = `Escreva um verbete sobre o conceito: %q

Estruture a explicação em markdown com as seções:
1. Definição
2. Aprofundamento
3. Análise situacional (um caso clínico curto)
4. Causa raiz
5. Pontos-chave com analogias
6. Referências

Responda exatamente neste formato:
<title>nome canônico do conceito</title>
<explanation>
explicação em markdown
</explanation>`
