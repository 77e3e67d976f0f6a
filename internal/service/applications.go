package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/core/logger"
	"github.com/m3rciful/artliftbot/internal/domain"
)

// ApplicationStore is the persistence surface used by ApplicationService.
type ApplicationStore interface {
	Create(ctx context.Context, userID int64) (int64, error)
	Latest(ctx context.Context, userID int64) (domain.Application, error)
	Decide(ctx context.Context, userID int64, status domain.ApplicationStatus, reviewerID int64) error
	ListPending(ctx context.Context, limit, offset int) ([]domain.PendingApplication, error)
	Stats(ctx context.Context) (domain.ApplicationStats, error)
}

// ReminderCanceller cancels a user's outstanding reminders on terminal events.
type ReminderCanceller interface {
	CancelAll(ctx context.Context, userID int64) error
}

// Renderer produces user-facing text from a stored template.
type Renderer interface {
	Render(ctx context.Context, key string, vars map[string]string) (string, error)
}

// UserNotifier delivers rendered messages.
type UserNotifier interface {
	NotifyUser(ctx context.Context, userID int64, text string, markup *tele.ReplyMarkup) error
	NotifyAdmins(ctx context.Context, text string, markup *tele.ReplyMarkup) int
}

// ApplicationService drives the admission state machine:
// none → pending → approved|rejected.
type ApplicationService struct {
	store     ApplicationStore
	users     UserStore
	reminders ReminderCanceller
	renderer  Renderer
	notifier  UserNotifier
}

func NewApplicationService(
	store ApplicationStore,
	users UserStore,
	reminders ReminderCanceller,
	renderer Renderer,
	notifier UserNotifier,
) *ApplicationService {
	return &ApplicationService{
		store:     store,
		users:     users,
		reminders: reminders,
		renderer:  renderer,
		notifier:  notifier,
	}
}

// Submit creates a pending application for the user. A still-pending earlier
// application fails the call with ErrInvalidState and changes nothing.
// Outstanding reminders are cancelled and every admin is notified; admin
// notification failures are logged, never propagated.
func (s *ApplicationService) Submit(ctx context.Context, userID int64) (int64, error) {
	latest, err := s.store.Latest(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	if err == nil && latest.Status == domain.ApplicationPending {
		return 0, domain.ErrInvalidState
	}

	id, err := s.store.Create(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.reminders.CancelAll(ctx, userID); err != nil {
		logger.Warn(ctx, "service.applications", "application.cancel_reminders.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}

	notified := s.notifier.NotifyAdmins(ctx, s.adminSubmitText(ctx, userID, id), nil)

	logger.Info(ctx, "service.applications", "application.submitted",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("application_id", id),
		slog.Int("admins_notified", notified),
	)
	return id, nil
}

// Decide transitions the user's pending application to a terminal status.
// ErrNotFound when nothing is pending; the transition is one-way. After the
// state is persisted the user's reminders are cancelled and the matching
// decision template is delivered. A delivery failure never rolls the decision
// back: it is logged and surfaced as a wrapped ErrDeliveryFailed so the
// caller can tell "decided but unnotified" apart from a failed decide.
func (s *ApplicationService) Decide(ctx context.Context, userID int64, outcome domain.ApplicationStatus, reviewerID int64) error {
	if !outcome.IsDecision() {
		return fmt.Errorf("%w: outcome %q", domain.ErrInvalidState, outcome)
	}

	if err := s.store.Decide(ctx, userID, outcome, reviewerID); err != nil {
		return err
	}

	if err := s.reminders.CancelAll(ctx, userID); err != nil {
		logger.Warn(ctx, "service.applications", "application.cancel_reminders.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}

	logger.Info(ctx, "service.applications", "application.decided",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("reviewer_id", reviewerID),
		slog.String("decision", string(outcome)),
	)

	key := TplApplicationApproved
	if outcome == domain.ApplicationRejected {
		key = TplApplicationRejected
	}
	text, err := s.renderer.Render(ctx, key, map[string]string{"name": s.displayName(ctx, userID)})
	if err != nil {
		logger.Error(ctx, "service.applications", "application.render.fail",
			slog.Int64("user_id", userID),
			slog.String("template_key", key),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}
	if err := s.notifier.NotifyUser(ctx, userID, text, nil); err != nil {
		return err
	}
	return nil
}

// Latest returns the user's most recent application.
func (s *ApplicationService) Latest(ctx context.Context, userID int64) (domain.Application, error) {
	return s.store.Latest(ctx, userID)
}

// ListPending returns a page of pending applications, oldest first. A full
// page (len == limit) signals that more pages may exist.
func (s *ApplicationService) ListPending(ctx context.Context, limit, offset int) ([]domain.PendingApplication, error) {
	return s.store.ListPending(ctx, limit, offset)
}

// Stats returns application counts by status.
func (s *ApplicationService) Stats(ctx context.Context) (domain.ApplicationStats, error) {
	return s.store.Stats(ctx)
}

func (s *ApplicationService) displayName(ctx context.Context, userID int64) string {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "участник"
	}
	return user.DisplayName()
}

func (s *ApplicationService) adminSubmitText(ctx context.Context, userID, applicationID int64) string {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return fmt.Sprintf("📬 Новая заявка #%d от пользователя %d", applicationID, userID)
	}
	return fmt.Sprintf("📬 Новая заявка #%d от %s (id %d)", applicationID, user.DisplayName(), userID)
}
