package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const conceptColumns = `id, title, explanation, areas, embedding, created_by, created_at`

type sqlxConceptRepository struct {
	db *sqlx.DB
}

func NewSQLXConceptRepository(db *sqlx.DB) domain.ConceptRepository {
	return &sqlxConceptRepository{db: db}
}

func (r *sqlxConceptRepository) GetConceptByID(ctx context.Context, id string) (*domain.ConceptExplanation, error) {
	return r.getOne(ctx, `SELECT `+conceptColumns+` FROM concepts WHERE id = ?`, id)
}

func (r *sqlxConceptRepository) FindConceptByTitle(ctx context.Context, title string) (*domain.ConceptExplanation, error) {
	return r.getOne(ctx, `SELECT `+conceptColumns+` FROM concepts WHERE LOWER(title) = LOWER(?)`, strings.TrimSpace(title))
}

func (r *sqlxConceptRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.ConceptExplanation, error) {
	exec := GetExecutor(ctx, r.db)
	var c models.Concept
	if err := exec.GetContext(ctx, &c, exec.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get concept: %w", err)
	}
	return toDomainConcept(&c), nil
}

func (r *sqlxConceptRepository) SearchConceptsByTitle(ctx context.Context, fragment string) ([]*domain.ConceptExplanation, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(fragment)) + "%"
	return r.list(ctx, `SELECT `+conceptColumns+` FROM concepts WHERE LOWER(title) LIKE ? ORDER BY title`, pattern)
}

func (r *sqlxConceptRepository) ListConceptsWithEmbeddings(ctx context.Context) ([]*domain.ConceptExplanation, error) {
	return r.list(ctx, `SELECT `+conceptColumns+` FROM concepts WHERE embedding IS NOT NULL`)
}

func (r *sqlxConceptRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.ConceptExplanation, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Concept
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	out := make([]*domain.ConceptExplanation, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainConcept(&rows[i]))
	}
	return out, nil
}

func (r *sqlxConceptRepository) ListConceptTitles(ctx context.Context) ([]string, error) {
	exec := GetExecutor(ctx, r.db)
	var titles []string
	if err := exec.SelectContext(ctx, &titles, `SELECT title FROM concepts ORDER BY title`); err != nil {
		return nil, fmt.Errorf("failed to list concept titles: %w", err)
	}
	return titles, nil
}

func (r *sqlxConceptRepository) CreateConcept(ctx context.Context, c *domain.ConceptExplanation) error {
	query := `INSERT INTO concepts (` + conceptColumns + `)
	          VALUES (:id, :title, :explanation, :areas, :embedding, :created_by, :created_at)`
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.NamedExecContext(ctx, query, fromDomainConcept(c)); err != nil {
		return fmt.Errorf("failed to create concept: %w", err)
	}
	return nil
}

func (r *sqlxConceptRepository) RecordView(ctx context.Context, userID, conceptID string, at time.Time) error {
	exec := GetExecutor(ctx, r.db)
	query := `INSERT INTO concept_views (user_id, concept_id, viewed_at) VALUES (?, ?, ?)
	          ON CONFLICT (user_id, concept_id) DO UPDATE SET viewed_at = excluded.viewed_at`
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), userID, conceptID, utc(at)); err != nil {
		return fmt.Errorf("failed to record concept view: %w", err)
	}
	return nil
}

func (r *sqlxConceptRepository) ListViewedConcepts(ctx context.Context, userID string) ([]domain.ConceptView, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.ConceptView
	query := `SELECT v.concept_id, c.title, v.viewed_at
	          FROM concept_views v
	          JOIN concepts c ON c.id = v.concept_id
	          WHERE v.user_id = ?
	          ORDER BY v.viewed_at DESC`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list viewed concepts for user %s: %w", userID, err)
	}
	out := make([]domain.ConceptView, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.ConceptView{ConceptID: m.ConceptID, Title: m.Title, ViewedAt: m.ViewedAt})
	}
	return out, nil
}
