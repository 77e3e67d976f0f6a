package bot

import (
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/core/telegram/helpers"
	"github.com/m3rciful/artliftbot/core/telegram/keyboard"
	"github.com/m3rciful/artliftbot/internal/domain"
	"github.com/m3rciful/artliftbot/internal/service"
)

func (b *Bot) handleStart(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if err := b.users.Register(ctx, sender.ID, sender.Username, helpers.FullName(sender)); err != nil {
		return err
	}

	// Nudge users who never filed an application. Re-running /start replaces
	// any outstanding nudge instead of stacking another one.
	if _, err := b.applications.Latest(ctx, sender.ID); errors.Is(err, domain.ErrNotFound) {
		if err := b.reminders.CancelAll(ctx, sender.ID); err == nil {
			_, _ = b.reminders.Schedule(ctx, sender.ID, service.ReminderKindSignup, b.cfg.Reminders.SignupDelay)
		}
	}

	text, err := b.templates.Render(ctx, service.TplWelcome, map[string]string{
		"name": displayName(sender),
	})
	if err != nil {
		return err
	}
	return helpers.SendHTML(c, text, b.mainMenuMarkup())
}

func (b *Bot) handleMenu(c tele.Context) error {
	return b.showMenu(c, false)
}

func (b *Bot) cbMainMenu(c tele.Context) error {
	return b.showMenu(c, true)
}

func (b *Bot) showMenu(c tele.Context, edit bool) error {
	ctx := helpers.BuildContext(c)
	b.fsm.Clear(helpers.SenderID(c))

	text, err := b.templates.Render(ctx, service.TplMainMenu, nil)
	if err != nil {
		return err
	}
	if edit {
		return helpers.EditOrSendHTML(c, text, b.mainMenuMarkup())
	}
	return helpers.SendHTML(c, text, b.mainMenuMarkup())
}

func (b *Bot) cbFillForm(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	text, err := b.templates.Render(ctx, service.TplChannelSubscribe, nil)
	if err != nil {
		return err
	}
	return helpers.EditOrSendHTML(c, text, b.fillFormMarkup())
}

func (b *Bot) cbFormFilled(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := helpers.SenderID(c)

	_, err := b.applications.Submit(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		return helpers.EditOrSendHTML(c, "Ваша заявка уже на рассмотрении. Мы свяжемся с вами после решения.", b.backToMenuMarkup())
	case err != nil:
		return err
	}

	text, err := b.templates.Render(ctx, service.TplApplicationReceived, map[string]string{
		"name": displayName(c.Sender()),
	})
	if err != nil {
		return err
	}
	return helpers.EditOrSendHTML(c, text, b.backToMenuMarkup())
}

func (b *Bot) cbAskQuestion(c tele.Context) error {
	b.fsm.SetState(helpers.SenderID(c), stateAwaitingQuestion)
	return helpers.EditOrSendHTML(c,
		"✍️ Напишите ваш вопрос одним сообщением, и мы ответим как можно скорее.",
		cancelMarkup())
}

func (b *Bot) onQuestionText(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := helpers.SenderID(c)

	_, err := b.questions.Ask(ctx, userID, c.Text())
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return helpers.SendHTML(c, "Вопрос не может быть пустым. Напишите текст вопроса или отмените действие.", cancelMarkup())
	case err != nil:
		return err
	}
	b.fsm.Clear(userID)

	text, err := b.templates.Render(ctx, service.TplQuestionReceived, map[string]string{
		"name": displayName(c.Sender()),
	})
	if err != nil {
		return err
	}
	return helpers.SendHTML(c, text, b.backToMenuMarkup())
}

func (b *Bot) cbFAQ(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	text, err := b.templates.Render(ctx, service.TplFAQ, nil)
	if err != nil {
		return err
	}
	return helpers.EditOrSendHTML(c, text, b.backToMenuMarkup())
}

func (b *Bot) handleCancel(c tele.Context) error {
	return b.cancelFlow(c, false)
}

func (b *Bot) cbCancel(c tele.Context) error {
	return b.cancelFlow(c, true)
}

func (b *Bot) cancelFlow(c tele.Context, edit bool) error {
	userID := helpers.SenderID(c)
	if !b.fsm.InProgress(userID) {
		return b.showMenu(c, edit)
	}
	b.fsm.Clear(userID)
	if edit {
		return helpers.EditOrSendHTML(c, "Действие отменено.", b.backToMenuMarkup())
	}
	return helpers.SendHTML(c, "Действие отменено.", b.backToMenuMarkup())
}

func displayName(u *tele.User) string {
	if name := helpers.FullName(u); name != "" {
		return name
	}
	if u != nil && u.Username != "" {
		return "@" + u.Username
	}
	return "участник"
}

func cancelMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(callbackCancel)
}
