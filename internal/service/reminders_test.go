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

type fakeReminderStore struct {
	mu        sync.Mutex
	nextID    int64
	reminders map[int64]*domain.Reminder

	claimErr error
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{reminders: map[int64]*domain.Reminder{}}
}

func (f *fakeReminderStore) Create(ctx context.Context, userID int64, kind string, scheduledAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.reminders[f.nextID] = &domain.Reminder{
		ID: f.nextID, UserID: userID, Kind: kind, ScheduledAt: scheduledAt,
	}
	return f.nextID, nil
}

func (f *fakeReminderStore) CancelAll(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.reminders {
		if r.UserID == userID && !r.SentAt.Valid && !r.Cancelled {
			r.Cancelled = true
			n++
		}
	}
	return n, nil
}

func (f *fakeReminderStore) Due(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []domain.Reminder
	for _, r := range f.reminders {
		if !r.ScheduledAt.After(now) && !r.SentAt.Valid && !r.Cancelled {
			due = append(due, *r)
		}
	}
	return due, nil
}

func (f *fakeReminderStore) Claim(ctx context.Context, reminderID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return false, f.claimErr
	}
	r, ok := f.reminders[reminderID]
	if !ok || r.SentAt.Valid || r.Cancelled {
		return false, nil
	}
	r.SentAt.Valid = true
	r.SentAt.Time = time.Now()
	return true, nil
}

func newTestReminderService(store *fakeReminderStore, apps *fakeApplicationStore, notifier *fakeNotifier) *ReminderService {
	return NewReminderService(store, apps, &fakeRenderer{}, notifier, time.Minute)
}

func TestReminderScheduleAndCancel(t *testing.T) {
	store := newFakeReminderStore()
	svc := newTestReminderService(store, newFakeApplicationStore(), &fakeNotifier{})

	id, err := svc.Schedule(context.Background(), 100, ReminderKindSignup, time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	require.NoError(t, svc.CancelAll(context.Background(), 100))
	require.True(t, store.reminders[id].Cancelled)
}

func TestReminderSweep_Delivers(t *testing.T) {
	store := newFakeReminderStore()
	notifier := &fakeNotifier{}
	svc := newTestReminderService(store, newFakeApplicationStore(), notifier)

	_, err := svc.Schedule(context.Background(), 100, ReminderKindSignup, -time.Minute)
	require.NoError(t, err)

	svc.Sweep(context.Background())
	require.Len(t, notifier.sent, 1)
	require.Equal(t, int64(100), notifier.sent[0].UserID)
	require.True(t, store.reminders[1].SentAt.Valid)

	// The claim is terminal: a second sweep never re-fires.
	svc.Sweep(context.Background())
	require.Len(t, notifier.sent, 1)
}

func TestReminderSweep_NotYetDue(t *testing.T) {
	store := newFakeReminderStore()
	notifier := &fakeNotifier{}
	svc := newTestReminderService(store, newFakeApplicationStore(), notifier)

	_, err := svc.Schedule(context.Background(), 100, ReminderKindSignup, time.Hour)
	require.NoError(t, err)

	svc.Sweep(context.Background())
	require.Empty(t, notifier.sent)
}

func TestReminderSweep_SuppressedAfterDecision(t *testing.T) {
	store := newFakeReminderStore()
	apps := newFakeApplicationStore()
	notifier := &fakeNotifier{}
	svc := newTestReminderService(store, apps, notifier)

	_, err := apps.Create(context.Background(), 100)
	require.NoError(t, err)
	require.NoError(t, apps.Decide(context.Background(), 100, domain.ApplicationApproved, 1))

	_, err = svc.Schedule(context.Background(), 100, ReminderKindSignup, -time.Minute)
	require.NoError(t, err)

	svc.Sweep(context.Background())
	require.Empty(t, notifier.sent)
	// Suppression happens after the claim, so the row stays consumed.
	require.True(t, store.reminders[1].SentAt.Valid)
}

func TestReminderSweep_PendingApplicationStillNudges(t *testing.T) {
	store := newFakeReminderStore()
	apps := newFakeApplicationStore()
	notifier := &fakeNotifier{}
	svc := newTestReminderService(store, apps, notifier)

	_, err := apps.Create(context.Background(), 100)
	require.NoError(t, err)

	_, err = svc.Schedule(context.Background(), 100, ReminderKindSignup, -time.Minute)
	require.NoError(t, err)

	svc.Sweep(context.Background())
	require.Len(t, notifier.sent, 1)
}

func TestReminderSweep_CancelledNeverFires(t *testing.T) {
	store := newFakeReminderStore()
	notifier := &fakeNotifier{}
	svc := newTestReminderService(store, newFakeApplicationStore(), notifier)

	_, err := svc.Schedule(context.Background(), 100, ReminderKindSignup, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, svc.CancelAll(context.Background(), 100))

	svc.Sweep(context.Background())
	require.Empty(t, notifier.sent)
}

func TestReminderSweep_DeliveryFailureDoesNotRetry(t *testing.T) {
	store := newFakeReminderStore()
	notifier := &fakeNotifier{userErr: errors.New("blocked by user")}
	svc := newTestReminderService(store, newFakeApplicationStore(), notifier)

	_, err := svc.Schedule(context.Background(), 100, ReminderKindSignup, -time.Minute)
	require.NoError(t, err)

	svc.Sweep(context.Background())
	require.True(t, store.reminders[1].SentAt.Valid)

	notifier.userErr = nil
	svc.Sweep(context.Background())
	require.Empty(t, notifier.sent)
}
