package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/artliftbot/internal/domain"
)

// UserRepo persists users keyed by their Telegram id.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Upsert registers a user or refreshes the mutable profile fields.
// Identity and created_at are preserved on conflict.
func (r *UserRepo) Upsert(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (telegram_id, username, full_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username  = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			role      = EXCLUDED.role`

	if _, err := r.db.ExecContext(ctx, query,
		user.TelegramID, user.Username, user.FullName, user.Role); err != nil {
		return fmt.Errorf("users upsert: %w", err)
	}
	return nil
}

// Get returns a user by Telegram id.
func (r *UserRepo) Get(ctx context.Context, telegramID int64) (domain.User, error) {
	query := `
		SELECT telegram_id, username, full_name, role, created_at
		FROM users
		WHERE telegram_id = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("users get: %w", err)
	}
	return user, nil
}
