package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/artliftbot/internal/domain"
)

func TestUserRepo_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+users.*ON\s+CONFLICT\s*\(telegram_id\)\s+DO\s+UPDATE`).
		WithArgs(int64(100), "alice", "Alice A", domain.RoleUser).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), domain.User{
		TelegramID: 100,
		Username:   "alice",
		FullName:   "Alice A",
		Role:       domain.RoleUser,
	})
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestUserRepo_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	rows := sqlmock.NewRows([]string{"telegram_id", "username", "full_name", "role", "created_at"}).
		AddRow(int64(100), "alice", "Alice A", "user", time.Now())
	mock.ExpectQuery(`(?s)SELECT\s+telegram_id,\s*username.*FROM\s+users`).
		WithArgs(int64(100)).
		WillReturnRows(rows)

	user, err := repo.Get(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	expectationsMet(t, mock)
}

func TestUserRepo_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(`(?s)SELECT\s+telegram_id`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"telegram_id"}))

	_, err := repo.Get(context.Background(), 100)
	require.ErrorIs(t, err, domain.ErrNotFound)
	expectationsMet(t, mock)
}
