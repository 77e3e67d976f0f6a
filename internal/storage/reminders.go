package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/artliftbot/internal/domain"
)

// ReminderRepo persists durable one-shot reminders.
type ReminderRepo struct {
	db *sqlx.DB
}

func NewReminderRepo(db *sqlx.DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// Create schedules a reminder and returns its id.
func (r *ReminderRepo) Create(ctx context.Context, userID int64, kind string, scheduledAt time.Time) (int64, error) {
	query := `
		INSERT INTO reminders (user_id, kind, scheduled_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, userID, kind, scheduledAt); err != nil {
		return 0, fmt.Errorf("reminders create: %w", err)
	}
	return id, nil
}

// CancelAll marks every not-yet-fired reminder of the user cancelled.
// Returns the number of reminders cancelled.
func (r *ReminderRepo) CancelAll(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE reminders
		SET cancelled = TRUE
		WHERE user_id = $1 AND sent_at IS NULL AND NOT cancelled`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("reminders cancel all: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reminders cancel all: %w", err)
	}
	return affected, nil
}

// Due returns reminders whose fire time has passed and that are still live.
func (r *ReminderRepo) Due(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	query := `
		SELECT id, user_id, kind, scheduled_at, sent_at, cancelled
		FROM reminders
		WHERE scheduled_at <= $1 AND sent_at IS NULL AND NOT cancelled
		ORDER BY scheduled_at ASC`

	reminders := []domain.Reminder{}
	if err := r.db.SelectContext(ctx, &reminders, query, now); err != nil {
		return nil, fmt.Errorf("reminders due: %w", err)
	}
	return reminders, nil
}

// Claim atomically marks a reminder sent. False means the reminder was
// already terminal (raced with a cancel or another sweep), so the caller
// must not deliver.
func (r *ReminderRepo) Claim(ctx context.Context, reminderID int64) (bool, error) {
	query := `
		UPDATE reminders
		SET sent_at = now()
		WHERE id = $1 AND sent_at IS NULL AND NOT cancelled`

	res, err := r.db.ExecContext(ctx, query, reminderID)
	if err != nil {
		return false, fmt.Errorf("reminders claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reminders claim: %w", err)
	}
	return affected == 1, nil
}
