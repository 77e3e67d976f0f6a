package app

import (
	"context"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/internal/notify"
)

// lazyDeliverer defers to a real deliverer installed once the bot is up.
// Services are constructed before the Telegram client exists, so the
// notifier gets this placeholder and onStart swaps in the live transport.
type lazyDeliverer struct {
	ptr atomic.Pointer[notify.TelegramDeliverer]
}

func (d *lazyDeliverer) set(real *notify.TelegramDeliverer) {
	d.ptr.Store(real)
}

func (d *lazyDeliverer) Deliver(ctx context.Context, recipientID int64, text string, markup *tele.ReplyMarkup) error {
	real := d.ptr.Load()
	if real == nil {
		return notify.ErrNotReady
	}
	return real.Deliver(ctx, recipientID, text, markup)
}
