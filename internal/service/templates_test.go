package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/artliftbot/internal/domain"
)

type fakeTemplateStore struct {
	mu        sync.Mutex
	nextID    int64
	templates map[string]domain.Template
	history   map[int64]domain.TemplateRevision
}

func newFakeTemplateStore() *fakeTemplateStore {
	return &fakeTemplateStore{
		templates: map[string]domain.Template{},
		history:   map[int64]domain.TemplateRevision{},
	}
}

func (f *fakeTemplateStore) Get(ctx context.Context, key string) (domain.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl, ok := f.templates[key]
	if !ok {
		return domain.Template{}, domain.ErrNotFound
	}
	return tpl, nil
}

func (f *fakeTemplateStore) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	return nil, nil
}

func (f *fakeTemplateStore) Upsert(ctx context.Context, key, content string, editorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[key] = domain.Template{Key: key, Content: content, UpdatedAt: time.Now()}
	return nil
}

func (f *fakeTemplateStore) AppendHistory(ctx context.Context, tpl domain.Template) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.history[f.nextID] = domain.TemplateRevision{
		ID: f.nextID, TemplateKey: tpl.Key, Content: tpl.Content, CreatedAt: time.Now(),
	}
	return f.nextID, nil
}

func (f *fakeTemplateStore) History(ctx context.Context, key string, limit int) ([]domain.TemplateRevision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var revisions []domain.TemplateRevision
	for id := f.nextID; id > 0 && len(revisions) < limit; id-- {
		if rev, ok := f.history[id]; ok && rev.TemplateKey == key {
			revisions = append(revisions, rev)
		}
	}
	return revisions, nil
}

func (f *fakeTemplateStore) HistoryItem(ctx context.Context, historyID int64) (domain.TemplateRevision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rev, ok := f.history[historyID]
	if !ok {
		return domain.TemplateRevision{}, domain.ErrNotFound
	}
	return rev, nil
}

func (f *fakeTemplateStore) DeleteHistoryItem(ctx context.Context, historyID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.history[historyID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.history, historyID)
	return nil
}

func TestTemplateUpdate_FreshKeySkipsSnapshot(t *testing.T) {
	store := newFakeTemplateStore()
	svc := NewTemplateService(store, nil)

	require.NoError(t, svc.Update(context.Background(), "welcome", "v1", 1))

	revisions, err := svc.History(context.Background(), "welcome", 10)
	require.NoError(t, err)
	require.Empty(t, revisions)
}

func TestTemplateUpdate_SnapshotsPriorVersion(t *testing.T) {
	store := newFakeTemplateStore()
	svc := NewTemplateService(store, nil)

	require.NoError(t, svc.Update(context.Background(), "welcome", "v1", 1))
	require.NoError(t, svc.Update(context.Background(), "welcome", "v2", 1))
	require.NoError(t, svc.Update(context.Background(), "welcome", "v3", 1))

	tpl, err := svc.Get(context.Background(), "welcome")
	require.NoError(t, err)
	require.Equal(t, "v3", tpl.Content)

	// History trails current by one version.
	revisions, err := svc.History(context.Background(), "welcome", 10)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	require.Equal(t, "v2", revisions[0].Content)
	require.Equal(t, "v1", revisions[1].Content)
}

func TestTemplateUpdate_EmptyContent(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateStore(), nil)

	err := svc.Update(context.Background(), "welcome", "   \n", 1)
	require.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestTemplateRestore_IsARecordedEdit(t *testing.T) {
	store := newFakeTemplateStore()
	svc := NewTemplateService(store, nil)

	require.NoError(t, svc.Update(context.Background(), "welcome", "v1", 1))
	require.NoError(t, svc.Update(context.Background(), "welcome", "v2", 1))

	revisions, err := svc.History(context.Background(), "welcome", 10)
	require.NoError(t, err)
	require.Len(t, revisions, 1)

	rev, err := svc.Restore(context.Background(), revisions[0].ID, 2)
	require.NoError(t, err)
	require.Equal(t, "v1", rev.Content)

	tpl, err := svc.Get(context.Background(), "welcome")
	require.NoError(t, err)
	require.Equal(t, "v1", tpl.Content)

	// Restoring snapshotted the replaced v2.
	revisions, err = svc.History(context.Background(), "welcome", 10)
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	require.Equal(t, "v2", revisions[0].Content)
}

func TestTemplateRestore_MissingRevision(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateStore(), nil)

	_, err := svc.Restore(context.Background(), 99, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplateDeleteHistory_KeepsCurrent(t *testing.T) {
	store := newFakeTemplateStore()
	svc := NewTemplateService(store, nil)

	require.NoError(t, svc.Update(context.Background(), "welcome", "v1", 1))
	require.NoError(t, svc.Update(context.Background(), "welcome", "v2", 1))

	revisions, err := svc.History(context.Background(), "welcome", 10)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteHistory(context.Background(), revisions[0].ID))

	tpl, err := svc.Get(context.Background(), "welcome")
	require.NoError(t, err)
	require.Equal(t, "v2", tpl.Content)

	require.ErrorIs(t, svc.DeleteHistory(context.Background(), revisions[0].ID), domain.ErrNotFound)
}

func TestTemplateRender(t *testing.T) {
	store := newFakeTemplateStore()
	svc := NewTemplateService(store, map[string]string{
		"PAYMENT_URL": "https://pay.example",
	})

	require.NoError(t, svc.Update(context.Background(), "application_approved", "{name}, оплата: {PAYMENT_URL}", 1))

	text, err := svc.Render(context.Background(), "application_approved", map[string]string{"name": "Alice"})
	require.NoError(t, err)
	require.Equal(t, "Alice, оплата: https://pay.example", text)
}

func TestTemplateRender_VarsShadowGlobals(t *testing.T) {
	store := newFakeTemplateStore()
	svc := NewTemplateService(store, map[string]string{"name": "global"})

	require.NoError(t, svc.Update(context.Background(), "welcome", "привет, {name}", 1))

	text, err := svc.Render(context.Background(), "welcome", map[string]string{"name": "Alice"})
	require.NoError(t, err)
	require.Equal(t, "привет, Alice", text)
}

func TestTemplateRender_UnknownKey(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateStore(), nil)

	_, err := svc.Render(context.Background(), "missing", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
