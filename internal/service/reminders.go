package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/artliftbot/core/logger"
	"github.com/m3rciful/artliftbot/internal/domain"
)

// ReminderKindSignup tags the fill-the-form nudge scheduled on /start.
const ReminderKindSignup = "signup_1d"

// ReminderStore is the persistence surface used by ReminderService.
type ReminderStore interface {
	Create(ctx context.Context, userID int64, kind string, scheduledAt time.Time) (int64, error)
	CancelAll(ctx context.Context, userID int64) (int64, error)
	Due(ctx context.Context, now time.Time) ([]domain.Reminder, error)
	Claim(ctx context.Context, reminderID int64) (bool, error)
}

// ApplicationChecker looks up the latest application at fire time.
type ApplicationChecker interface {
	Latest(ctx context.Context, userID int64) (domain.Application, error)
}

// ReminderService schedules durable one-shot reminders and sweeps them.
// The rows are the single source of truth; there are no in-memory timers,
// so pending reminders survive restarts.
type ReminderService struct {
	store        ReminderStore
	applications ApplicationChecker
	renderer     Renderer
	notifier     UserNotifier

	sweepInterval time.Duration
	now           func() time.Time
}

func NewReminderService(
	store ReminderStore,
	applications ApplicationChecker,
	renderer Renderer,
	notifier UserNotifier,
	sweepInterval time.Duration,
) *ReminderService {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	return &ReminderService{
		store:         store,
		applications:  applications,
		renderer:      renderer,
		notifier:      notifier,
		sweepInterval: sweepInterval,
		now:           time.Now,
	}
}

// Schedule registers a one-shot reminder that fires after delay.
func (s *ReminderService) Schedule(ctx context.Context, userID int64, kind string, delay time.Duration) (int64, error) {
	fireAt := s.now().Add(delay)
	id, err := s.store.Create(ctx, userID, kind, fireAt)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "service.reminders", "reminder.scheduled",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("reminder_id", id),
		slog.String("kind", kind),
		slog.Time("fire_at", fireAt),
	)
	return id, nil
}

// CancelAll marks every not-yet-fired reminder of the user cancelled.
// Cancelling after fire time is a no-op.
func (s *ReminderService) CancelAll(ctx context.Context, userID int64) error {
	cancelled, err := s.store.CancelAll(ctx, userID)
	if err != nil {
		return err
	}
	if cancelled > 0 {
		logger.Info(ctx, "service.reminders", "reminder.cancelled",
			slog.String("status", "ok"),
			slog.Int64("user_id", userID),
			slog.Int64("reminders", cancelled),
		)
	}
	return nil
}

// Run sweeps due reminders on the configured interval until ctx is done.
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	logger.Info(ctx, "service.reminders", "sweeper.started",
		slog.String("status", "ok"),
		slog.Duration("interval", s.sweepInterval),
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "service.reminders", "sweeper.stopped",
				slog.String("status", "ok"),
			)
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep processes every due reminder once. Each row is atomically claimed
// before any delivery attempt, so a reminder never fires twice even when a
// cancel races the sweep. Delivery failures are logged; the row stays
// claimed (fire-and-forget).
func (s *ReminderService) Sweep(ctx context.Context) {
	due, err := s.store.Due(ctx, s.now())
	if err != nil {
		logger.Error(ctx, "service.reminders", "sweep.fail",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return
	}

	for _, reminder := range due {
		s.fire(ctx, reminder)
	}
}

func (s *ReminderService) fire(ctx context.Context, reminder domain.Reminder) {
	claimed, err := s.store.Claim(ctx, reminder.ID)
	if err != nil {
		logger.Error(ctx, "service.reminders", "reminder.claim.fail",
			slog.Int64("reminder_id", reminder.ID),
			slog.String("err", err.Error()),
		)
		return
	}
	if !claimed {
		// Lost the race against a cancel or another sweep.
		return
	}

	// The nudge only makes sense while the admission is unresolved: a user
	// with a decided application is past the point of reminding.
	app, err := s.applications.Latest(ctx, reminder.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Error(ctx, "service.reminders", "reminder.check.fail",
			slog.Int64("reminder_id", reminder.ID),
			slog.Int64("user_id", reminder.UserID),
			slog.String("err", err.Error()),
		)
		return
	}
	if err == nil && app.Status.IsDecision() {
		logger.Info(ctx, "service.reminders", "reminder.suppressed",
			slog.String("status", "skip"),
			slog.Int64("reminder_id", reminder.ID),
			slog.Int64("user_id", reminder.UserID),
			slog.String("decision", string(app.Status)),
		)
		return
	}

	text, err := s.renderer.Render(ctx, TplSignupReminder, nil)
	if err != nil {
		logger.Error(ctx, "service.reminders", "reminder.render.fail",
			slog.Int64("reminder_id", reminder.ID),
			slog.String("template_key", TplSignupReminder),
			slog.String("err", err.Error()),
		)
		return
	}

	if err := s.notifier.NotifyUser(ctx, reminder.UserID, text, nil); err != nil {
		// Claimed rows are never retried: delivery is fire-and-forget.
		logger.Warn(ctx, "service.reminders", "reminder.deliver.fail",
			slog.Int64("reminder_id", reminder.ID),
			slog.Int64("user_id", reminder.UserID),
			slog.String("err", err.Error()),
		)
		return
	}

	logger.Info(ctx, "service.reminders", "reminder.sent",
		slog.String("status", "ok"),
		slog.Int64("reminder_id", reminder.ID),
		slog.Int64("user_id", reminder.UserID),
		slog.String("kind", reminder.Kind),
	)
}
