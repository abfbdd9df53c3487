package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionRowColumns = []string{"id", "statement", "options", "commentary", "correct_option", "areas", "subtopics", "source_exam", "created_at"}

func TestSQLXQuestionRepository_GetQuestionByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM questions WHERE id = ?")).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(questionRowColumns).AddRow(
			"q1", "Qual a conduta?", `{"A":"IECA","B":"BRA"}`, `{"A":"Primeira linha"}`, "A",
			"Cardiologia,Clínica Médica", "Hipertensão", "USP-SP", now))

	q, err := repo.GetQuestionByID(context.Background(), "q1")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, map[string]string{"A": "IECA", "B": "BRA"}, q.Options)
	assert.Equal(t, []string{"Cardiologia", "Clínica Médica"}, q.Areas)
	assert.Equal(t, []string{"Hipertensão"}, q.Subtopics)
	assert.Equal(t, "USP-SP", q.SourceExam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_GetQuestionByStatement_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM questions WHERE statement = ?")).
		WithArgs("nada").
		WillReturnRows(sqlmock.NewRows(questionRowColumns))

	q, err := repo.GetQuestionByStatement(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestSQLXQuestionRepository_ListQuestionsByTag(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(subtopics) LIKE ?")).
		WithArgs("%diabetes%").
		WillReturnRows(sqlmock.NewRows(questionRowColumns).
			AddRow("q1", "s1", `{"A":"a"}`, nil, "A", "Endocrinologia", "Diabetes tipo 2", nil, time.Now()).
			AddRow("q2", "s2", `{"A":"a"}`, "{}", "A", "", "Diabetes gestacional", "", time.Now()))

	qs, err := repo.ListQuestionsByTag(ctx, domain.TagSubtopic, " Diabetes ")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Empty(t, qs[1].Areas)
	assert.Empty(t, qs[0].SourceExam)

	_, err = repo.ListQuestionsByTag(ctx, domain.TagField("statement"), "x")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXQuestionRepository_ListExamSources(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT source_exam FROM questions")).
		WillReturnRows(sqlmock.NewRows([]string{"source_exam"}).AddRow("ENARE-2023").AddRow("USP-SP"))

	sources, err := repo.ListExamSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ENARE-2023", "USP-SP"}, sources)
}

func TestSQLXQuestionRepository_CreateAndUpdate(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	ctx := context.Background()
	q := &domain.Question{
		ID:            "q1",
		Statement:     "Enunciado",
		Options:       map[string]string{"A": "x"},
		CorrectOption: "A",
		Areas:         []string{"Pediatria", " Pediatria"},
		CreatedAt:     time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).
		WithArgs("q1", "Enunciado", `{"A":"x"}`, "{}", "A", "Pediatria", "", nil, q.CreatedAt.UTC()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.CreateQuestion(ctx, q))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE questions SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateQuestion(ctx, q))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE questions SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.Error(t, repo.UpdateQuestion(ctx, q))

	assert.NoError(t, mock.ExpectationsWereMet())
}
