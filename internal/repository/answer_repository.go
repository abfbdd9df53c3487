package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const answerColumns = `id, user_id, question_id, chosen_option, is_correct, answered_at`

type sqlxAnswerRepository struct {
	db *sqlx.DB
	tm *TransactionManagerAdapter
}

func NewSQLXAnswerRepository(db *sqlx.DB) domain.AnswerRepository {
	return &sqlxAnswerRepository{db: db, tm: NewTransactionManagerAdapter(db)}
}

func (r *sqlxAnswerRepository) GetAnswer(ctx context.Context, userID, questionID string) (*domain.Answer, error) {
	exec := GetExecutor(ctx, r.db)
	m, err := getAnswer(ctx, exec, userID, questionID)
	if err != nil {
		return nil, err
	}
	return toDomainAnswer(m), nil
}

func getAnswer(ctx context.Context, exec DBTX, userID, questionID string) (*models.Answer, error) {
	var m models.Answer
	query := `SELECT ` + answerColumns + ` FROM answers WHERE user_id = ? AND question_id = ?`
	if err := exec.GetContext(ctx, &m, exec.Rebind(query), userID, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return &m, nil
}

// UpsertAnswer writes in one transaction:
//  1. insert, ignoring a conflict on (user_id, question_id);
//  2. otherwise overwrite the stored row only while it is still incorrect;
//  3. read the row back.
//
// The is_correct predicate in step 2 is evaluated by the database under the row
// lock, so two concurrent submissions can never downgrade a correct answer.
func (r *sqlxAnswerRepository) UpsertAnswer(ctx context.Context, a *domain.Answer) (*domain.Answer, domain.AnswerOutcome, error) {
	var (
		stored  *models.Answer
		outcome domain.AnswerOutcome
	)
	row := fromDomainAnswer(a)

	err := r.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, r.db)

		insert := `INSERT INTO answers (` + answerColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		           ON CONFLICT (user_id, question_id) DO NOTHING`
		res, err := exec.ExecContext(txCtx, exec.Rebind(insert),
			row.ID, row.UserID, row.QuestionID, row.ChosenOption, row.IsCorrect, row.AnsweredAt)
		if err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows for answer insert: %w", err)
		}
		if inserted == 1 {
			stored, outcome = row, domain.OutcomeInserted
			return nil
		}

		update := `UPDATE answers SET chosen_option = ?, is_correct = ?, answered_at = ?
		           WHERE user_id = ? AND question_id = ? AND is_correct = ?`
		res, err = exec.ExecContext(txCtx, exec.Rebind(update),
			row.ChosenOption, row.IsCorrect, row.AnsweredAt, row.UserID, row.QuestionID, false)
		if err != nil {
			return fmt.Errorf("failed to update answer: %w", err)
		}
		updated, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows for answer update: %w", err)
		}
		switch {
		case updated == 0:
			outcome = domain.OutcomeUnchanged
		case row.IsCorrect:
			outcome = domain.OutcomeUpgraded
		default:
			outcome = domain.OutcomeRefreshed
		}

		stored, err = getAnswer(txCtx, exec, row.UserID, row.QuestionID)
		if err != nil {
			return err
		}
		if stored == nil {
			return fmt.Errorf("answer for user %s and question %s vanished during upsert", row.UserID, row.QuestionID)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return toDomainAnswer(stored), outcome, nil
}

func (r *sqlxAnswerRepository) ListAnswersByUser(ctx context.Context, userID string) ([]*domain.Answer, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Answer
	query := `SELECT ` + answerColumns + ` FROM answers WHERE user_id = ? ORDER BY answered_at DESC`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list answers for user %s: %w", userID, err)
	}
	out := make([]*domain.Answer, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainAnswer(&rows[i]))
	}
	return out, nil
}

func (r *sqlxAnswerRepository) ListAnsweredQuestions(ctx context.Context, userID string) ([]domain.AnsweredQuestion, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.AnsweredQuestion
	query := `SELECT a.id, a.user_id, a.question_id, a.chosen_option, a.is_correct, a.answered_at,
	                 q.statement, q.correct_option, q.areas, q.subtopics, q.source_exam
	          FROM answers a
	          JOIN questions q ON q.id = a.question_id
	          WHERE a.user_id = ?
	          ORDER BY a.answered_at DESC`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list answered questions for user %s: %w", userID, err)
	}
	out := make([]domain.AnsweredQuestion, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainAnsweredQuestion(&rows[i]))
	}
	return out, nil
}

func (r *sqlxAnswerRepository) ListAnswerRecordsSince(ctx context.Context, since time.Time) ([]domain.AnswerRecord, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.AnswerRecord
	query := `SELECT user_id, is_correct, answered_at FROM answers WHERE answered_at >= ?`
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), utc(since)); err != nil {
		return nil, fmt.Errorf("failed to list answers since %s: %w", since.Format(time.RFC3339), err)
	}
	out := make([]domain.AnswerRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.AnswerRecord{UserID: m.UserID, IsCorrect: m.IsCorrect, AnsweredAt: m.AnsweredAt})
	}
	return out, nil
}
