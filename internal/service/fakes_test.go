package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/internal/domain"
)

// fakeApplicationStore keeps one application per user, like the real schema
// effectively does for the pending slot.
type fakeApplicationStore struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]*domain.Application

	createErr error
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: map[int64]*domain.Application{}}
}

func (f *fakeApplicationStore) Create(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.apps[userID] = &domain.Application{
		ID: f.nextID, UserID: userID, Status: domain.ApplicationPending, CreatedAt: time.Now(),
	}
	return f.nextID, nil
}

func (f *fakeApplicationStore) Latest(ctx context.Context, userID int64) (domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[userID]
	if !ok {
		return domain.Application{}, domain.ErrNotFound
	}
	return *app, nil
}

func (f *fakeApplicationStore) Decide(ctx context.Context, userID int64, status domain.ApplicationStatus, reviewerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[userID]
	if !ok || app.Status != domain.ApplicationPending {
		return domain.ErrNotFound
	}
	app.Status = status
	return nil
}

func (f *fakeApplicationStore) ListPending(ctx context.Context, limit, offset int) ([]domain.PendingApplication, error) {
	return nil, nil
}

func (f *fakeApplicationStore) Stats(ctx context.Context) (domain.ApplicationStats, error) {
	return domain.ApplicationStats{}, nil
}

type fakeUserStore struct {
	users map[int64]domain.User
}

func (f *fakeUserStore) Upsert(ctx context.Context, user domain.User) error {
	if f.users == nil {
		f.users = map[int64]domain.User{}
	}
	f.users[user.TelegramID] = user
	return nil
}

func (f *fakeUserStore) Get(ctx context.Context, telegramID int64) (domain.User, error) {
	user, ok := f.users[telegramID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

type fakeCanceller struct {
	cancelled []int64
	err       error
}

func (f *fakeCanceller) CancelAll(ctx context.Context, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.cancelled = append(f.cancelled, userID)
	return nil
}

// fakeRenderer renders "key:name" so tests can assert the chosen template.
type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(ctx context.Context, key string, vars map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("%s:%s", key, vars["name"]), nil
}

type sentMessage struct {
	UserID int64
	Text   string
}

type fakeNotifier struct {
	userErr error
	sent    []sentMessage
	admin   []string
	admins  int
}

func (f *fakeNotifier) NotifyUser(ctx context.Context, userID int64, text string, markup *tele.ReplyMarkup) error {
	if f.userErr != nil {
		return f.userErr
	}
	f.sent = append(f.sent, sentMessage{UserID: userID, Text: text})
	return nil
}

func (f *fakeNotifier) NotifyAdmins(ctx context.Context, text string, markup *tele.ReplyMarkup) int {
	f.admin = append(f.admin, text)
	return f.admins
}
