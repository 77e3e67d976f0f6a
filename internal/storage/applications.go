package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/artliftbot/internal/domain"
)

// ApplicationRepo persists admission applications.
type ApplicationRepo struct {
	db *sqlx.DB
}

func NewApplicationRepo(db *sqlx.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

// Create inserts a new pending application and returns its id.
func (r *ApplicationRepo) Create(ctx context.Context, userID int64) (int64, error) {
	query := `
		INSERT INTO applications (user_id, status)
		VALUES ($1, 'pending')
		RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, userID); err != nil {
		return 0, fmt.Errorf("applications create: %w", err)
	}
	return id, nil
}

// Latest returns the most recent application of a user.
func (r *ApplicationRepo) Latest(ctx context.Context, userID int64) (domain.Application, error) {
	query := `
		SELECT id, user_id, status, reviewer_id, created_at, reviewed_at
		FROM applications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var app domain.Application
	if err := r.db.GetContext(ctx, &app, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Application{}, domain.ErrNotFound
		}
		return domain.Application{}, fmt.Errorf("applications latest: %w", err)
	}
	return app, nil
}

// Decide flips the user's pending application to the given terminal status.
// The WHERE guard makes the transition one-way; zero affected rows means
// nothing was pending.
func (r *ApplicationRepo) Decide(ctx context.Context, userID int64, status domain.ApplicationStatus, reviewerID int64) error {
	query := `
		UPDATE applications
		SET status = $1, reviewer_id = $2, reviewed_at = now()
		WHERE user_id = $3 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, status, reviewerID, userID)
	if err != nil {
		return fmt.Errorf("applications decide: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("applications decide: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPending returns pending applications oldest-first with owner profiles.
func (r *ApplicationRepo) ListPending(ctx context.Context, limit, offset int) ([]domain.PendingApplication, error) {
	query := `
		SELECT a.id, a.user_id, a.status, a.reviewer_id, a.created_at, a.reviewed_at,
		       u.username, u.full_name
		FROM applications a
		JOIN users u ON a.user_id = u.telegram_id
		WHERE a.status = 'pending'
		ORDER BY a.created_at ASC
		LIMIT $1 OFFSET $2`

	apps := []domain.PendingApplication{}
	if err := r.db.SelectContext(ctx, &apps, query, limit, offset); err != nil {
		return nil, fmt.Errorf("applications list pending: %w", err)
	}
	return apps, nil
}

// Stats aggregates application counts by status.
func (r *ApplicationRepo) Stats(ctx context.Context) (domain.ApplicationStats, error) {
	query := `
		SELECT count(*)                                    AS total,
		       count(*) FILTER (WHERE status = 'pending')  AS pending,
		       count(*) FILTER (WHERE status = 'approved') AS approved,
		       count(*) FILTER (WHERE status = 'rejected') AS rejected
		FROM applications`

	var stats domain.ApplicationStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return domain.ApplicationStats{}, fmt.Errorf("applications stats: %w", err)
	}
	return stats, nil
}
