package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mcunha12/medstudent/internal/adapter/textgen"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 3
	schemaURL          = "schema://generated_question.json"
)

// questionSchema is the shape the model must return. Five options, a single
// correct label among them, and a commentary per option.
const questionSchema = `{
  "type": "object",
  "required": ["enunciado", "alternativas", "alternativa_correta", "comentarios"],
  "properties": {
    "enunciado": {"type": "string", "minLength": 20},
    "alternativas": {
      "type": "object",
      "required": ["A", "B", "C", "D", "E"],
      "additionalProperties": false,
      "patternProperties": {"^[A-E]$": {"type": "string", "minLength": 1}}
    },
    "alternativa_correta": {"type": "string", "enum": ["A", "B", "C", "D", "E"]},
    "comentarios": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

const systemPrompt = `Você é um elaborador de questões de residência médica.
Responda SOMENTE com um objeto JSON no formato:
{
  "enunciado": "caso clínico e pergunta",
  "alternativas": {"A": "...", "B": "...", "C": "...", "D": "...", "E": "..."},
  "alternativa_correta": "A",
  "comentarios": {"A": "por que está correta ou incorreta", "B": "...", "C": "...", "D": "...", "E": "..."}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse question schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add question schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

type generatedQuestion struct {
	Statement     string            `json:"enunciado"`
	Options       map[string]string `json:"alternativas"`
	CorrectOption string            `json:"alternativa_correta"`
	Commentary    map[string]string `json:"comentarios"`
}

// SeedQuestionGenerator implements domain.QuestionGenerator by asking a text
// model for a new question in the style and topic of a seed question.
type SeedQuestionGenerator struct {
	gen         domain.TextGenerator
	maxAttempts int
}

func NewSeedQuestionGenerator(gen domain.TextGenerator) *SeedQuestionGenerator {
	return &SeedQuestionGenerator{gen: gen, maxAttempts: defaultMaxAttempts}
}

// GenerateFromSeed retries on malformed output. Blocked prompts and provider
// failures are returned immediately.
func (g *SeedQuestionGenerator) GenerateFromSeed(ctx context.Context, seed *domain.Question) (*domain.Question, error) {
	if seed == nil {
		return nil, fmt.Errorf("seed question is required")
	}
	l := logger.Get()
	req := domain.GenerationRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(seed),
		Temperature: 0.7,
		JSON:        true,
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		raw, err := g.gen.Generate(ctx, req)
		if err != nil {
			var malformed *domain.ErrMalformedAIResponse
			if !errors.As(err, &malformed) {
				return nil, err
			}
			lastErr = err
			continue
		}

		q, err := ParseGeneratedQuestion(raw)
		if err != nil {
			l.Warn("Discarding invalid generated question",
				zap.String("seedID", seed.ID), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		q.Areas = append([]string(nil), seed.Areas...)
		q.Subtopics = append([]string(nil), seed.Subtopics...)
		q.SourceExam = domain.SourceExamAI
		return q, nil
	}
	return nil, lastErr
}

func buildPrompt(seed *domain.Question) string {
	ref, _ := json.Marshal(generatedQuestion{
		Statement:     seed.Statement,
		Options:       seed.Options,
		CorrectOption: seed.CorrectOption,
		Commentary:    seed.Commentary,
	})
	return fmt.Sprintf(`Questão de referência: %s
Áreas: %s
Subtópicos: %s

Gere UMA nova questão de múltipla escolha de alto nível sobre o mesmo tema, com 5 alternativas (A a E), uma única correta e um comentário para cada alternativa. Não repita o enunciado de referência.`,
		ref, strings.Join(seed.Areas, ", "), strings.Join(seed.Subtopics, ", "))
}

// ParseGeneratedQuestion validates raw model output against the question schema.
func ParseGeneratedQuestion(raw string) (*domain.Question, error) {
	body, err := textgen.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(body))
	if err != nil {
		return nil, &domain.ErrMalformedAIResponse{Raw: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	s, err := schema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, &domain.ErrMalformedAIResponse{Raw: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var gq generatedQuestion
	if err := json.Unmarshal([]byte(body), &gq); err != nil {
		return nil, &domain.ErrMalformedAIResponse{Raw: raw, Err: err}
	}

	q := &domain.Question{
		Statement:     strings.TrimSpace(gq.Statement),
		Options:       gq.Options,
		CorrectOption: gq.CorrectOption,
		Commentary:    gq.Commentary,
	}
	if err := q.Validate(); err != nil {
		return nil, &domain.ErrMalformedAIResponse{Raw: raw, Err: err}
	}
	return q, nil
}

var _ domain.QuestionGenerator = (*SeedQuestionGenerator)(nil)
