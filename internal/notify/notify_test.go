package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/internal/domain"
)

type fakeSender struct {
	errs  []error
	calls int
	texts []string
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.calls++
	if text, ok := what.(string); ok {
		f.texts = append(f.texts, text)
	}
	if f.calls <= len(f.errs) && f.errs[f.calls-1] != nil {
		return nil, f.errs[f.calls-1]
	}
	return &tele.Message{}, nil
}

func newTestDeliverer(sender *fakeSender, sleeps *[]time.Duration) *TelegramDeliverer {
	d := NewTelegramDeliverer(sender, Options{MaxAttempts: 3, BaseBackoff: time.Second})
	d.sleep = func(ctx context.Context, delay time.Duration) error {
		if sleeps != nil {
			*sleeps = append(*sleeps, delay)
		}
		return nil
	}
	return d
}

func TestDeliver_FirstAttempt(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDeliverer(sender, nil)

	err := d.Deliver(context.Background(), 100, "привет", nil)
	require.NoError(t, err)
	require.Equal(t, 1, sender.calls)
}

func TestDeliver_NonRetryableFailsFast(t *testing.T) {
	sender := &fakeSender{errs: []error{&tele.Error{Code: 403, Description: "bot was blocked by the user"}}}
	d := newTestDeliverer(sender, nil)

	err := d.Deliver(context.Background(), 100, "привет", nil)
	require.ErrorIs(t, err, domain.ErrDeliveryFailed)
	require.Equal(t, 1, sender.calls)
}

func TestDeliver_RetriesServerErrors(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&tele.Error{Code: 502, Description: "bad gateway"},
		&tele.Error{Code: 502, Description: "bad gateway"},
		nil,
	}}
	var sleeps []time.Duration
	d := newTestDeliverer(sender, &sleeps)

	err := d.Deliver(context.Background(), 100, "привет", nil)
	require.NoError(t, err)
	require.Equal(t, 3, sender.calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeps)
}

func TestDeliver_FloodWaitExtendsBackoff(t *testing.T) {
	flood := tele.FloodError{
		RetryAfter: 7,
	}
	sender := &fakeSender{errs: []error{flood, nil}}
	var sleeps []time.Duration
	d := newTestDeliverer(sender, &sleeps)

	err := d.Deliver(context.Background(), 100, "привет", nil)
	require.NoError(t, err)
	require.Equal(t, []time.Duration{7 * time.Second}, sleeps)
}

func TestDeliver_Exhaustion(t *testing.T) {
	apiErr := &tele.Error{Code: 502, Description: "bad gateway"}
	sender := &fakeSender{errs: []error{apiErr, apiErr, apiErr}}
	d := newTestDeliverer(sender, nil)

	err := d.Deliver(context.Background(), 100, "привет", nil)
	require.ErrorIs(t, err, domain.ErrDeliveryFailed)
	require.Equal(t, 3, sender.calls)
}

func TestNotifyAdmins_FanOutSurvivesFailures(t *testing.T) {
	calls := map[int64]int{}
	deliverer := delivererFunc(func(ctx context.Context, recipientID int64, text string, markup *tele.ReplyMarkup) error {
		calls[recipientID]++
		if recipientID == 2 {
			return errors.New("blocked")
		}
		return nil
	})
	n := NewNotifier(deliverer, []int64{1, 2, 3})

	delivered := n.NotifyAdmins(context.Background(), "новая заявка", nil)
	require.Equal(t, 2, delivered)
	require.Equal(t, map[int64]int{1: 1, 2: 1, 3: 1}, calls)
}

type delivererFunc func(ctx context.Context, recipientID int64, text string, markup *tele.ReplyMarkup) error

func (f delivererFunc) Deliver(ctx context.Context, recipientID int64, text string, markup *tele.ReplyMarkup) error {
	return f(ctx, recipientID, text, markup)
}
