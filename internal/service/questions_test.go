package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/artliftbot/internal/domain"
)

type fakeQuestionStore struct {
	mu        sync.Mutex
	nextID    int64
	questions map[int64]*domain.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: map[int64]*domain.Question{}}
}

func (f *fakeQuestionStore) Create(ctx context.Context, userID int64, text string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.questions[f.nextID] = &domain.Question{
		ID: f.nextID, UserID: userID, Text: text,
		Status: domain.QuestionPending, CreatedAt: time.Now(),
	}
	return f.nextID, nil
}

func (f *fakeQuestionStore) Get(ctx context.Context, questionID int64) (domain.PendingQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[questionID]
	if !ok {
		return domain.PendingQuestion{}, domain.ErrNotFound
	}
	return domain.PendingQuestion{Question: *q}, nil
}

func (f *fakeQuestionStore) Answer(ctx context.Context, questionID, reviewerID int64, answer string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[questionID]
	if !ok || q.Status != domain.QuestionPending {
		return false, nil
	}
	q.Status = domain.QuestionAnswered
	q.Answer.String = answer
	q.Answer.Valid = true
	return true, nil
}

func (f *fakeQuestionStore) ListPending(ctx context.Context, limit, offset int) ([]domain.PendingQuestion, error) {
	return nil, nil
}

func (f *fakeQuestionStore) CountPending(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, q := range f.questions {
		if q.Status == domain.QuestionPending {
			count++
		}
	}
	return count, nil
}

func newTestQuestionService(store *fakeQuestionStore, notifier *fakeNotifier) *QuestionService {
	return NewQuestionService(store, &fakeRenderer{err: errors.New("no template")}, notifier)
}

func TestQuestionAsk(t *testing.T) {
	store := newFakeQuestionStore()
	notifier := &fakeNotifier{admins: 1}
	svc := newTestQuestionService(store, notifier)

	id, err := svc.Ask(context.Background(), 100, "  как вступить?  ")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, "как вступить?", store.questions[id].Text)
	require.Len(t, notifier.admin, 1)
	require.Contains(t, notifier.admin[0], "как вступить?")
}

func TestQuestionAsk_Empty(t *testing.T) {
	svc := newTestQuestionService(newFakeQuestionStore(), &fakeNotifier{})

	_, err := svc.Ask(context.Background(), 100, "   ")
	require.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestQuestionAnswer_DeliversToAsker(t *testing.T) {
	store := newFakeQuestionStore()
	notifier := &fakeNotifier{}
	svc := newTestQuestionService(store, notifier)

	id, err := svc.Ask(context.Background(), 100, "как вступить?")
	require.NoError(t, err)

	require.NoError(t, svc.Answer(context.Background(), id, 1, "заполните анкету"))
	require.Len(t, notifier.sent, 1)
	require.Equal(t, int64(100), notifier.sent[0].UserID)
	require.Contains(t, notifier.sent[0].Text, "заполните анкету")

	count, err := svc.CountPending(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestQuestionAnswer_OnlyOnce(t *testing.T) {
	store := newFakeQuestionStore()
	svc := newTestQuestionService(store, &fakeNotifier{})

	id, err := svc.Ask(context.Background(), 100, "как вступить?")
	require.NoError(t, err)

	require.NoError(t, svc.Answer(context.Background(), id, 1, "первый"))
	err = svc.Answer(context.Background(), id, 2, "второй")
	require.ErrorIs(t, err, domain.ErrInvalidState)
	require.Equal(t, "первый", store.questions[id].Answer.String)
}

func TestQuestionAnswer_Missing(t *testing.T) {
	svc := newTestQuestionService(newFakeQuestionStore(), &fakeNotifier{})

	err := svc.Answer(context.Background(), 99, 1, "ответ")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuestionAnswer_Empty(t *testing.T) {
	store := newFakeQuestionStore()
	svc := newTestQuestionService(store, &fakeNotifier{})

	id, err := svc.Ask(context.Background(), 100, "как вступить?")
	require.NoError(t, err)

	err = svc.Answer(context.Background(), id, 1, "  ")
	require.ErrorIs(t, err, domain.ErrEmptyInput)
	require.Equal(t, domain.QuestionPending, store.questions[id].Status)
}

func TestQuestionAnswer_DeliveryFailureKeepsAnswer(t *testing.T) {
	store := newFakeQuestionStore()
	notifier := &fakeNotifier{}
	svc := newTestQuestionService(store, notifier)

	id, err := svc.Ask(context.Background(), 100, "как вступить?")
	require.NoError(t, err)

	notifier.userErr = errors.New("blocked by user")
	err = svc.Answer(context.Background(), id, 1, "ответ")
	require.ErrorIs(t, err, domain.ErrDeliveryFailed)
	require.Equal(t, domain.QuestionAnswered, store.questions[id].Status)
}
