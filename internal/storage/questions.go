package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/artliftbot/internal/domain"
)

// QuestionRepo persists user question tickets.
type QuestionRepo struct {
	db *sqlx.DB
}

func NewQuestionRepo(db *sqlx.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create inserts a pending ticket and returns its id.
func (r *QuestionRepo) Create(ctx context.Context, userID int64, text string) (int64, error) {
	query := `
		INSERT INTO questions (user_id, question_text, status)
		VALUES ($1, $2, 'pending')
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, userID, text); err != nil {
		return 0, fmt.Errorf("questions create: %w", err)
	}
	return id, nil
}

// Get returns a ticket with the asker's profile joined in.
func (r *QuestionRepo) Get(ctx context.Context, questionID int64) (domain.PendingQuestion, error) {
	query := `
		SELECT q.id, q.user_id, q.question_text, q.status, q.reviewer_id,
		       q.answer_text, q.created_at, q.answered_at,
		       u.username, u.full_name
		FROM questions q
		JOIN users u ON q.user_id = u.telegram_id
		WHERE q.id = $1`

	var question domain.PendingQuestion
	if err := r.db.GetContext(ctx, &question, query, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PendingQuestion{}, domain.ErrNotFound
		}
		return domain.PendingQuestion{}, fmt.Errorf("questions get: %w", err)
	}
	return question, nil
}

// Answer records the answer on a still-pending ticket. The status guard sets
// answer, reviewer, and timestamp atomically; zero affected rows means the
// ticket was not pending.
func (r *QuestionRepo) Answer(ctx context.Context, questionID, reviewerID int64, answer string) (bool, error) {
	query := `
		UPDATE questions
		SET status = 'answered', reviewer_id = $1, answer_text = $2, answered_at = now()
		WHERE id = $3 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, reviewerID, answer, questionID)
	if err != nil {
		return false, fmt.Errorf("questions answer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("questions answer: %w", err)
	}
	return affected == 1, nil
}

// ListPending returns pending tickets oldest-first with asker profiles.
func (r *QuestionRepo) ListPending(ctx context.Context, limit, offset int) ([]domain.PendingQuestion, error) {
	query := `
		SELECT q.id, q.user_id, q.question_text, q.status, q.reviewer_id,
		       q.answer_text, q.created_at, q.answered_at,
		       u.username, u.full_name
		FROM questions q
		JOIN users u ON q.user_id = u.telegram_id
		WHERE q.status = 'pending'
		ORDER BY q.created_at ASC
		LIMIT $1 OFFSET $2`

	questions := []domain.PendingQuestion{}
	if err := r.db.SelectContext(ctx, &questions, query, limit, offset); err != nil {
		return nil, fmt.Errorf("questions list pending: %w", err)
	}
	return questions, nil
}

// CountPending returns the number of unanswered tickets.
func (r *QuestionRepo) CountPending(ctx context.Context) (int, error) {
	query := `SELECT count(*) FROM questions WHERE status = 'pending'`

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("questions count pending: %w", err)
	}
	return count, nil
}
