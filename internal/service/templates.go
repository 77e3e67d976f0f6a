package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/m3rciful/artliftbot/core/logger"
	"github.com/m3rciful/artliftbot/internal/domain"
)

// Well-known template keys seeded by migrations.
const (
	TplWelcome             = "welcome"
	TplMainMenu            = "main_menu"
	TplApplicationReceived = "application_filled_response"
	TplQuestionReceived    = "user_question_response"
	TplApplicationApproved = "application_approved"
	TplApplicationRejected = "application_rejected"
	TplFAQ                 = "faq"
	TplSignupReminder      = "signup_reminder"
	TplQuestionAnswer      = "question_answer"
	TplChannelSubscribe    = "channel_subscribe_message"
)

// TemplateStore is the persistence surface used by TemplateService.
type TemplateStore interface {
	Get(ctx context.Context, key string) (domain.Template, error)
	List(ctx context.Context) ([]domain.TemplateInfo, error)
	Upsert(ctx context.Context, key, content string, editorID int64) error
	AppendHistory(ctx context.Context, tpl domain.Template) (int64, error)
	History(ctx context.Context, key string, limit int) ([]domain.TemplateRevision, error)
	HistoryItem(ctx context.Context, historyID int64) (domain.TemplateRevision, error)
	DeleteHistoryItem(ctx context.Context, historyID int64) error
}

// TemplateService is the admin-curated content store: current text per key
// plus an append-only history of prior versions.
type TemplateService struct {
	store TemplateStore
	// globals are substituted into every render ({PAYMENT_URL} and friends).
	globals map[string]string
}

func NewTemplateService(store TemplateStore, globals map[string]string) *TemplateService {
	return &TemplateService{store: store, globals: globals}
}

// Get returns the current content of a template.
func (s *TemplateService) Get(ctx context.Context, key string) (domain.Template, error) {
	return s.store.Get(ctx, key)
}

// List returns key and description of every template.
func (s *TemplateService) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	return s.store.List(ctx)
}

// Update replaces a template's content, snapshotting the current version into
// history first. A fresh key skips the snapshot, so history always holds only
// prior states.
func (s *TemplateService) Update(ctx context.Context, key, content string, editorID int64) error {
	if strings.TrimSpace(content) == "" {
		return domain.ErrEmptyInput
	}

	if err := s.snapshotCurrent(ctx, key); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, key, content, editorID); err != nil {
		return err
	}

	logger.Info(ctx, "service.templates", "template.updated",
		slog.String("status", "ok"),
		slog.String("template_key", key),
		slog.Int64("reviewer_id", editorID),
	)
	return nil
}

// History returns prior versions of a template, newest first.
func (s *TemplateService) History(ctx context.Context, key string, limit int) ([]domain.TemplateRevision, error) {
	return s.store.History(ctx, key, limit)
}

// Restore copies a historical version back into current content, attributed
// to editorID. The content being replaced is snapshotted first, so restoring
// is itself a recorded edit.
func (s *TemplateService) Restore(ctx context.Context, historyID, editorID int64) (domain.TemplateRevision, error) {
	rev, err := s.store.HistoryItem(ctx, historyID)
	if err != nil {
		return domain.TemplateRevision{}, err
	}

	if err := s.snapshotCurrent(ctx, rev.TemplateKey); err != nil {
		return domain.TemplateRevision{}, err
	}
	if err := s.store.Upsert(ctx, rev.TemplateKey, rev.Content, editorID); err != nil {
		return domain.TemplateRevision{}, err
	}

	logger.Info(ctx, "service.templates", "template.restored",
		slog.String("status", "ok"),
		slog.String("template_key", rev.TemplateKey),
		slog.Int64("history_id", historyID),
		slog.Int64("reviewer_id", editorID),
	)
	return rev, nil
}

// DeleteHistory removes one history entry without touching current content.
func (s *TemplateService) DeleteHistory(ctx context.Context, historyID int64) error {
	if err := s.store.DeleteHistoryItem(ctx, historyID); err != nil {
		return err
	}
	logger.Info(ctx, "service.templates", "template.history_deleted",
		slog.String("status", "ok"),
		slog.Int64("history_id", historyID),
	)
	return nil
}

// Render returns the template content with {placeholder} markers substituted
// from vars plus the configured globals. Vars win over globals on key clash.
// The store itself stays placeholder-agnostic.
func (s *TemplateService) Render(ctx context.Context, key string, vars map[string]string) (string, error) {
	tpl, err := s.store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	pairs := make([]string, 0, 2*(len(vars)+len(s.globals)))
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	for name, value := range s.globals {
		if _, shadowed := vars[name]; shadowed {
			continue
		}
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tpl.Content), nil
}

func (s *TemplateService) snapshotCurrent(ctx context.Context, key string) error {
	current, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.store.AppendHistory(ctx, current)
	return err
}
