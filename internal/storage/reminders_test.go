package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestReminderRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepo(db)

	fireAt := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+reminders`).
		WithArgs(int64(100), "signup_1d", fireAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := repo.Create(context.Background(), 100, "signup_1d", fireAt)
	require.NoError(t, err)
	require.Equal(t, int64(3), id)
	expectationsMet(t, mock)
}

func TestReminderRepo_CancelAll_CountsOnlyLive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepo(db)

	mock.ExpectExec(`(?s)UPDATE\s+reminders\s+SET\s+cancelled\s*=\s*TRUE.*sent_at\s+IS\s+NULL\s+AND\s+NOT\s+cancelled`).
		WithArgs(int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	cancelled, err := repo.CancelAll(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, int64(2), cancelled)
	expectationsMet(t, mock)
}

func TestReminderRepo_Due(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "kind", "scheduled_at", "sent_at", "cancelled"}).
		AddRow(int64(1), int64(100), "signup_1d", now.Add(-time.Minute), nil, false)
	mock.ExpectQuery(`(?s)SELECT\s+id,\s*user_id,\s*kind.*FROM\s+reminders`).
		WithArgs(now).
		WillReturnRows(rows)

	due, err := repo.Due(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, int64(100), due[0].UserID)
	expectationsMet(t, mock)
}

func TestReminderRepo_Claim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepo(db)

	mock.ExpectExec(`(?s)UPDATE\s+reminders\s+SET\s+sent_at\s*=\s*now\(\)`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.Claim(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, claimed)
	expectationsMet(t, mock)
}

func TestReminderRepo_Claim_Raced(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepo(db)

	mock.ExpectExec(`(?s)UPDATE\s+reminders\s+SET\s+sent_at\s*=\s*now\(\)`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.Claim(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, claimed)
	expectationsMet(t, mock)
}
