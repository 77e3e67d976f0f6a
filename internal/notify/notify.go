// Package notify wraps outbound Telegram delivery with the bounded retry
// policy: transient failures and rate-limit signals are retried with
// exponential backoff, everything else fails fast.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/core/logger"
	"github.com/m3rciful/artliftbot/core/telegram/netutil"
	"github.com/m3rciful/artliftbot/internal/domain"
)

// Deliverer sends one rendered message to one recipient.
type Deliverer interface {
	Deliver(ctx context.Context, recipientID int64, text string, markup *tele.ReplyMarkup) error
}

// ErrNotReady is returned when delivery is attempted before the Telegram
// transport is installed.
var ErrNotReady = errors.New("notify: transport not ready")

// Options tune the retry policy.
type Options struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

func (o *Options) normalize() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = time.Second
	}
}

// Sender is the minimal telebot surface used for delivery.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramDeliverer delivers through a telebot sender with bounded retry.
type TelegramDeliverer struct {
	sender Sender
	opts   Options
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewTelegramDeliverer wraps the sender with the retry policy.
func NewTelegramDeliverer(sender Sender, opts Options) *TelegramDeliverer {
	opts.normalize()
	return &TelegramDeliverer{
		sender: sender,
		opts:   opts,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Deliver sends text to the recipient, retrying transient failures up to the
// configured attempt count. A flood-wait response extends the next backoff to
// at least the server-requested wait. Exhausted retries surface as a wrapped
// domain.ErrDeliveryFailed.
func (d *TelegramDeliverer) Deliver(ctx context.Context, recipientID int64, text string, markup *tele.ReplyMarkup) error {
	sendOpts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if markup != nil {
		sendOpts.ReplyMarkup = markup
	}

	backoff := d.opts.BaseBackoff
	var lastErr error

	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		_, err := d.sender.Send(tele.ChatID(recipientID), text, sendOpts)
		if err == nil {
			if attempt > 1 {
				logger.Info(ctx, "notify", "deliver.retry.success",
					slog.String("status", "ok"),
					slog.Int64("recipient_id", recipientID),
					slog.Int("attempt", attempt),
				)
			}
			return nil
		}
		lastErr = err

		if !netutil.ShouldRetry(err) || attempt == d.opts.MaxAttempts {
			break
		}

		delay := backoff
		if wait := netutil.RetryAfter(err); wait > delay {
			delay = wait
		}
		logger.Debug(ctx, "notify", "deliver.retry.backoff",
			slog.Int64("recipient_id", recipientID),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Bool("rate_limited", netutil.RetryAfter(err) > 0),
		)
		if err := d.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
		backoff *= 2
	}

	return fmt.Errorf("%w: recipient %d: %w", domain.ErrDeliveryFailed, recipientID, lastErr)
}

// Notifier fans deliveries out to users and to the configured admin set.
type Notifier struct {
	deliverer Deliverer
	adminIDs  []int64
}

// NewNotifier builds a Notifier over the given deliverer.
func NewNotifier(deliverer Deliverer, adminIDs []int64) *Notifier {
	return &Notifier{deliverer: deliverer, adminIDs: adminIDs}
}

// NotifyUser delivers one message to one user.
func (n *Notifier) NotifyUser(ctx context.Context, userID int64, text string, markup *tele.ReplyMarkup) error {
	err := n.deliverer.Deliver(ctx, userID, text, markup)
	if err != nil {
		logger.Error(ctx, "notify", "deliver.fail",
			slog.String("status", "fail"),
			slog.Int64("recipient_id", userID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
	return err
}

// NotifyAdmins delivers the message to every configured admin. Per-recipient
// failures are logged and do not stop the fan-out; the number of successful
// deliveries is returned.
func (n *Notifier) NotifyAdmins(ctx context.Context, text string, markup *tele.ReplyMarkup) int {
	delivered := 0
	for _, adminID := range n.adminIDs {
		if err := n.deliverer.Deliver(ctx, adminID, text, markup); err != nil {
			logger.Warn(ctx, "notify", "deliver.admin.fail",
				slog.Int64("recipient_id", adminID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			continue
		}
		delivered++
	}
	return delivered
}
