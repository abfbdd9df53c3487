package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const questionColumns = `id, statement, options, commentary, correct_option, areas, subtopics, source_exam, created_at`

type sqlxQuestionRepository struct {
	db *sqlx.DB
}

func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func (r *sqlxQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	return r.getOne(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
}

func (r *sqlxQuestionRepository) GetQuestionByStatement(ctx context.Context, statement string) (*domain.Question, error) {
	return r.getOne(ctx, `SELECT `+questionColumns+` FROM questions WHERE statement = ? ORDER BY id LIMIT 1`, statement)
}

func (r *sqlxQuestionRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	var q models.Question
	if err := exec.GetContext(ctx, &q, exec.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return toDomainQuestion(&q), nil
}

func (r *sqlxQuestionRepository) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	return r.list(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

func (r *sqlxQuestionRepository) ListQuestionsByTag(ctx context.Context, field domain.TagField, term string) ([]*domain.Question, error) {
	var column string
	switch field {
	case domain.TagArea:
		column = "areas"
	case domain.TagSubtopic:
		column = "subtopics"
	default:
		return nil, fmt.Errorf("unknown tag field %q", field)
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	return r.list(ctx, `SELECT `+questionColumns+` FROM questions WHERE LOWER(`+column+`) LIKE ? ORDER BY id`, pattern)
}

func (r *sqlxQuestionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Question
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	out := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainQuestion(&rows[i]))
	}
	return out, nil
}

func (r *sqlxQuestionRepository) ListExamSources(ctx context.Context) ([]string, error) {
	exec := GetExecutor(ctx, r.db)
	var sources []string
	query := `SELECT DISTINCT source_exam FROM questions
	          WHERE source_exam IS NOT NULL AND source_exam <> ''
	          ORDER BY source_exam`
	if err := exec.SelectContext(ctx, &sources, query); err != nil {
		return nil, fmt.Errorf("failed to list exam sources: %w", err)
	}
	return sources, nil
}

func (r *sqlxQuestionRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	query := `INSERT INTO questions (` + questionColumns + `)
	          VALUES (:id, :statement, :options, :commentary, :correct_option, :areas, :subtopics, :source_exam, :created_at)`
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.NamedExecContext(ctx, query, fromDomainQuestion(q)); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// UpdateQuestion rewrites every content column. created_at is kept.
func (r *sqlxQuestionRepository) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	query := `UPDATE questions SET
	            statement = :statement,
	            options = :options,
	            commentary = :commentary,
	            correct_option = :correct_option,
	            areas = :areas,
	            subtopics = :subtopics,
	            source_exam = :source_exam
	          WHERE id = :id`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.NamedExecContext(ctx, query, fromDomainQuestion(q))
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for question %s: %w", q.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("question %s not found", q.ID)
	}
	return nil
}
