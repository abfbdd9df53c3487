package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mcunha12/medstudent/internal/app"
	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/handler"
	"github.com/mcunha12/medstudent/internal/middleware"
	"github.com/mcunha12/medstudent/internal/repository"
	"github.com/mcunha12/medstudent/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const examFile = `[
  {
    "question_id": "q-asma",
    "enunciado": "Criança de 6 anos com sibilância recorrente. Qual a conduta inicial?",
    "alternativas": {"A": "Beta-2 agonista inalatório", "B": "Antibiótico", "C": "Observação"},
    "comentarios": {"A": "Broncodilatador de resgate."},
    "alternativa_correta": "a",
    "areas_principais": ["Pediatria"],
    "subtopicos": ["Asma"]
  },
  {
    "question_id": "q-iam",
    "enunciado": "Homem de 60 anos com dor torácica e supra de ST. Qual o exame prioritário?",
    "alternativas": {"A": "Eletrocardiograma seriado", "B": "Cateterismo", "C": "Ecocardiograma"},
    "alternativa_correta": "B",
    "areas_principais": ["Cardiologia", "Clínica Médica"],
    "subtopicos": ["Infarto Agudo do Miocárdio"]
  },
  {
    "enunciado": "",
    "alternativas": {"A": "x"},
    "alternativa_correta": "A"
  }
]`

func newTestConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env: "test",
		DB: config.DBConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "medstudent.db"),
		},
		JWT:       config.JWTConfig{SecretKey: "test-secret"},
		AI:        config.AIConfig{Provider: "none"},
		Embedding: config.EmbeddingConfig{Source: "none"},
	}
}

func newServer(a *app.App) *fiber.App {
	server := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(server.Group("/api"), handler.Handlers{
		Auth:     handler.NewAuthHandler(a.Auth),
		Question: handler.NewQuestionHandler(a.Questions),
		Answer:   handler.NewAnswerHandler(a.Answers),
		User:     handler.NewUserHandler(a.Performance, a.Ranking),
		Concept:  handler.NewConceptHandler(a.Concepts),
		Dosage:   handler.NewDosageHandler(a.Dosage),
	}, a.Auth)
	return server
}

func call(t *testing.T, server *fiber.App, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := server.Test(req, 5000)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestStudyFlow(t *testing.T) {
	ctx := context.Background()
	a, err := app.New(ctx, newTestConfig(t))
	require.NoError(t, err)
	defer a.Close()

	report, err := a.Questions.ImportQuestions(ctx, []service.ImportFile{{Name: "ENARE-2023-R1.json", Data: []byte(examFile)}})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Skipped)

	// Re-importing the same file changes nothing.
	report, err = a.Questions.ImportQuestions(ctx, []service.ImportFile{{Name: "ENARE-2023-R1.json", Data: []byte(examFile)}})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Unchanged)

	server := newServer(a)

	var token dto.TokenResponse
	status := call(t, server, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "Ana@Med.br", Password: "segredo123"}, &token)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "ana@med.br", token.User.Email)

	status = call(t, server, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "ana@med.br", Password: "outrasenha"}, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	var exams dto.StringListResponse
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodGet, "/api/exams", token.AccessToken, nil, &exams))
	assert.Equal(t, []string{"ENARE-2023"}, exams.Items)

	var pool dto.QuestionListResponse
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodPost, "/api/questions/select", token.AccessToken,
		dto.SelectQuestionsRequest{Statuses: []string{"unanswered"}, Specialty: "cardio", SampleSize: 10}, &pool))
	require.Len(t, pool.Questions, 1)
	assert.Equal(t, "q-iam", pool.Questions[0].ID)

	submit := func(label string) dto.AnswerResponse {
		var res dto.AnswerResponse
		require.Equal(t, fiber.StatusOK, call(t, server, http.MethodPost, "/api/answers", token.AccessToken,
			dto.SubmitAnswerRequest{QuestionID: "q-iam", ChosenOption: label}, &res))
		return res
	}

	first := submit("A")
	assert.Equal(t, "inserted", first.Outcome)
	assert.False(t, first.IsCorrect)

	second := submit("C")
	assert.Equal(t, "refreshed", second.Outcome)
	assert.Equal(t, "C", second.ChosenOption)

	third := submit("b")
	assert.Equal(t, "upgraded", third.Outcome)
	assert.True(t, third.IsCorrect)

	// A correct answer is never downgraded.
	fourth := submit("A")
	assert.Equal(t, "unchanged", fourth.Outcome)
	assert.Equal(t, "B", fourth.ChosenOption)
	assert.Equal(t, "A", fourth.Submitted)
	assert.True(t, fourth.IsCorrect)

	var correct dto.QuestionListResponse
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodPost, "/api/questions/select", token.AccessToken,
		dto.SelectQuestionsRequest{Statuses: []string{"correct"}, SampleSize: 10}, &correct))
	require.Len(t, correct.Questions, 1)
	assert.Equal(t, "q-iam", correct.Questions[0].ID)

	var review dto.AnsweredQuestionsResponse
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodGet, "/api/answers?status=correct&area=clinica", token.AccessToken, nil, &review))
	require.Len(t, review.Items, 1)
	assert.Equal(t, "ENARE-2023", review.Items[0].SourceExam)

	var perf struct {
		HasData bool `json:"has_data"`
		AllTime struct {
			Answered int     `json:"answered"`
			Correct  int     `json:"correct"`
			Accuracy float64 `json:"accuracy"`
		} `json:"all_time"`
		Areas []struct {
			Tag string `json:"tag"`
		} `json:"areas"`
	}
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodGet, "/api/performance", token.AccessToken, nil, &perf))
	assert.True(t, perf.HasData)
	assert.Equal(t, 1, perf.AllTime.Answered)
	assert.Equal(t, 1, perf.AllTime.Correct)
	assert.InDelta(t, 100.0, perf.AllTime.Accuracy, 0.001)
	assert.Len(t, perf.Areas, 2)

	var ranking struct {
		Rank              *int `json:"rank"`
		TotalParticipants int  `json:"total_participants"`
	}
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodGet, "/api/ranking?period=week", token.AccessToken, nil, &ranking))
	require.NotNil(t, ranking.Rank)
	assert.Equal(t, 1, *ranking.Rank)
	assert.Equal(t, 1, ranking.TotalParticipants)

	var lookup dto.ConceptLookupResponse
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodPost, "/api/concepts/search", token.AccessToken,
		dto.ConceptSearchRequest{Query: "Asma"}, &lookup))
	assert.Equal(t, "failed", lookup.Status)

	var dose dto.DosageResponse
	require.Equal(t, fiber.StatusOK, call(t, server, http.MethodPost, "/api/dosage", token.AccessToken, dto.DosageRequest{
		Medication: "Amoxicilina", WeightKg: 20, AgeYears: 6, MgPerKg: 25, IntervalHours: 8, ConcentrationMgPerMl: 50,
	}, &dose))
	assert.InDelta(t, 10.0, dose.DoseMl, 0.0001)
	assert.False(t, dose.NotesAvailable)
}

// conceptWriter answers concept prompts with a well-formed entry for the
// requested name.
type conceptWriter struct {
	calls atomic.Int32
}

func (w *conceptWriter) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	w.calls.Add(1)
	_, rest, ok := strings.Cut(req.Prompt, "conceito: ")
	if !ok {
		return "", &domain.ErrMalformedAIResponse{Raw: req.Prompt}
	}
	line, _, _ := strings.Cut(rest, "\n")
	name, err := strconv.Unquote(line)
	if err != nil {
		return "", err
	}
	return "<title>" + name + "</title>\n<explanation>\n## Definição\n" + name + " em detalhe.\n</explanation>", nil
}

func TestConceptLifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	a, err := app.New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Questions.ImportQuestions(ctx, []service.ImportFile{{Name: "ENARE-2023-R1.json", Data: []byte(examFile)}})
	require.NoError(t, err)
	user, err := a.Auth.Register(ctx, "bia@med.br", "segredo123")
	require.NoError(t, err)

	writer := &conceptWriter{}
	conceptRepo := repository.NewSQLXConceptRepository(a.DB)
	concepts := service.NewConceptService(conceptRepo, repository.NewSQLXQuestionRepository(a.DB), writer, nil, cfg)

	first, err := concepts.GetOrCreateExplanation(ctx, "Asma", user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConceptCreated, first.Status)
	require.NotEmpty(t, first.Concept.ID)
	assert.Equal(t, []string{"Pediatria"}, first.Concept.Areas)

	again, err := concepts.GetOrCreateExplanation(ctx, "asma", user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptFound, again.Status)
	assert.Equal(t, first.Concept.ID, again.Concept.ID)
	assert.Equal(t, int32(1), writer.calls.Load())

	history, err := concepts.SearchHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, first.Concept.ID, history[0].ConceptID)
	assert.Equal(t, "Asma", history[0].Title)

	report, err := concepts.WarmConcepts(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, &service.WarmReport{Candidates: 1, Created: 1}, report)

	warmed, err := conceptRepo.FindConceptByTitle(ctx, "infarto agudo do miocárdio")
	require.NoError(t, err)
	require.NotNil(t, warmed)
	assert.Empty(t, warmed.CreatedBy)
	assert.Equal(t, []string{"Cardiologia", "Clínica Médica"}, warmed.Areas)

	report, err = concepts.WarmConcepts(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Candidates)
}

func TestNew_RequiresJWTSecret(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.JWT.SecretKey = ""
	_, err := app.New(context.Background(), cfg)
	assert.Error(t, err)
}
