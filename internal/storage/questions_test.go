package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/artliftbot/internal/domain"
)

func TestQuestionRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepo(db)

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+questions`).
		WithArgs(int64(100), "как вступить?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := repo.Create(context.Background(), 100, "как вступить?")
	require.NoError(t, err)
	require.Equal(t, int64(5), id)
	expectationsMet(t, mock)
}

func TestQuestionRepo_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepo(db)

	mock.ExpectQuery(`(?s)SELECT\s+q\.id.*FROM\s+questions\s+q`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrNotFound)
	expectationsMet(t, mock)
}

func TestQuestionRepo_Answer_Pending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepo(db)

	mock.ExpectExec(`(?s)UPDATE\s+questions\s+SET\s+status\s*=\s*'answered'.*status\s*=\s*'pending'`).
		WithArgs(int64(1), "ответ", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	answered, err := repo.Answer(context.Background(), 5, 1, "ответ")
	require.NoError(t, err)
	require.True(t, answered)
	expectationsMet(t, mock)
}

func TestQuestionRepo_Answer_AlreadyAnswered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepo(db)

	mock.ExpectExec(`(?s)UPDATE\s+questions`).
		WithArgs(int64(1), "ответ", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	answered, err := repo.Answer(context.Background(), 5, 1, "ответ")
	require.NoError(t, err)
	require.False(t, answered)
	expectationsMet(t, mock)
}

func TestQuestionRepo_ListPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestionRepo(db)

	created := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "question_text", "status", "reviewer_id",
		"answer_text", "created_at", "answered_at", "username", "full_name"}).
		AddRow(int64(5), int64(100), "как вступить?", "pending", nil, nil, created, nil, "alice", "Alice A")
	mock.ExpectQuery(`(?s)SELECT\s+q\.id.*WHERE\s+q\.status\s*=\s*'pending'`).
		WithArgs(5, 0).
		WillReturnRows(rows)

	questions, err := repo.ListPending(context.Background(), 5, 0)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, "как вступить?", questions[0].Text)
	expectationsMet(t, mock)
}
