package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/artliftbot/internal/domain"
)

func newApplicationService(store *fakeApplicationStore, users *fakeUserStore, canceller *fakeCanceller, notifier *fakeNotifier) *ApplicationService {
	return NewApplicationService(store, users, canceller, &fakeRenderer{}, notifier)
}

func TestApplicationSubmit(t *testing.T) {
	store := newFakeApplicationStore()
	canceller := &fakeCanceller{}
	notifier := &fakeNotifier{admins: 2}
	svc := newApplicationService(store, &fakeUserStore{}, canceller, notifier)

	id, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, []int64{100}, canceller.cancelled)
	require.Len(t, notifier.admin, 1)
}

func TestApplicationSubmit_PendingExists(t *testing.T) {
	store := newFakeApplicationStore()
	svc := newApplicationService(store, &fakeUserStore{}, &fakeCanceller{}, &fakeNotifier{})

	_, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 100)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	app, err := store.Latest(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, int64(1), app.ID)
}

func TestApplicationSubmit_AfterDecision(t *testing.T) {
	store := newFakeApplicationStore()
	svc := newApplicationService(store, &fakeUserStore{}, &fakeCanceller{}, &fakeNotifier{})

	_, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)
	require.NoError(t, svc.Decide(context.Background(), 100, domain.ApplicationRejected, 1))

	// A decided application does not block a fresh submission.
	id, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, int64(2), id)
}

func TestApplicationSubmit_CancelFailureIsNotFatal(t *testing.T) {
	store := newFakeApplicationStore()
	canceller := &fakeCanceller{err: errors.New("db down")}
	svc := newApplicationService(store, &fakeUserStore{}, canceller, &fakeNotifier{})

	_, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)
}

func TestApplicationDecide_NotifiesWithTemplate(t *testing.T) {
	store := newFakeApplicationStore()
	users := &fakeUserStore{users: map[int64]domain.User{
		100: {TelegramID: 100, FullName: "Alice A"},
	}}
	notifier := &fakeNotifier{}
	svc := newApplicationService(store, users, &fakeCanceller{}, notifier)

	_, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)

	require.NoError(t, svc.Decide(context.Background(), 100, domain.ApplicationApproved, 1))
	require.Len(t, notifier.sent, 1)
	require.Equal(t, int64(100), notifier.sent[0].UserID)
	require.Equal(t, TplApplicationApproved+":Alice A", notifier.sent[0].Text)

	app, err := store.Latest(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationApproved, app.Status)
}

func TestApplicationDecide_NothingPending(t *testing.T) {
	svc := newApplicationService(newFakeApplicationStore(), &fakeUserStore{}, &fakeCanceller{}, &fakeNotifier{})

	err := svc.Decide(context.Background(), 100, domain.ApplicationApproved, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationDecide_SecondReviewerLoses(t *testing.T) {
	store := newFakeApplicationStore()
	svc := newApplicationService(store, &fakeUserStore{}, &fakeCanceller{}, &fakeNotifier{})

	_, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)

	require.NoError(t, svc.Decide(context.Background(), 100, domain.ApplicationApproved, 1))
	err = svc.Decide(context.Background(), 100, domain.ApplicationRejected, 2)
	require.ErrorIs(t, err, domain.ErrNotFound)

	app, err := store.Latest(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationApproved, app.Status)
}

func TestApplicationDecide_InvalidOutcome(t *testing.T) {
	svc := newApplicationService(newFakeApplicationStore(), &fakeUserStore{}, &fakeCanceller{}, &fakeNotifier{})

	err := svc.Decide(context.Background(), 100, domain.ApplicationPending, 1)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApplicationDecide_DeliveryFailureKeepsDecision(t *testing.T) {
	store := newFakeApplicationStore()
	notifier := &fakeNotifier{userErr: domain.ErrDeliveryFailed}
	svc := newApplicationService(store, &fakeUserStore{}, &fakeCanceller{}, notifier)

	_, err := svc.Submit(context.Background(), 100)
	require.NoError(t, err)

	err = svc.Decide(context.Background(), 100, domain.ApplicationRejected, 1)
	require.ErrorIs(t, err, domain.ErrDeliveryFailed)

	app, err := store.Latest(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationRejected, app.Status)
}
