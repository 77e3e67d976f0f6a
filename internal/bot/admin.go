package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/core/telegram/callbacks"
	"github.com/m3rciful/artliftbot/core/telegram/format"
	"github.com/m3rciful/artliftbot/core/telegram/helpers"
	"github.com/m3rciful/artliftbot/core/telegram/keyboard"
	"github.com/m3rciful/artliftbot/core/telegram/ui"
	"github.com/m3rciful/artliftbot/internal/domain"
)

func (b *Bot) handleAdminPanel(c tele.Context) error {
	return helpers.SendHTML(c, b.adminPanelText(c), b.adminPanelMarkup())
}

func (b *Bot) cbAdminPanel(c tele.Context) error {
	b.fsm.Clear(helpers.SenderID(c))
	return helpers.EditOrSendHTML(c, b.adminPanelText(c), b.adminPanelMarkup())
}

func (b *Bot) adminPanelText(c tele.Context) string {
	ctx := helpers.BuildContext(c)
	var parts []string
	parts = append(parts, "<b>Панель администратора</b>")
	if stats, err := b.applications.Stats(ctx); err == nil {
		parts = append(parts, fmt.Sprintf("Заявок на рассмотрении: %d", stats.Pending))
	}
	if pending, err := b.questions.CountPending(ctx); err == nil {
		parts = append(parts, fmt.Sprintf("Вопросов без ответа: %d", pending))
	}
	return strings.Join(parts, "\n")
}

func (b *Bot) cbApplicationList(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	page, err := callbacks.PayloadInt(c)
	if err != nil {
		page = 0
	}

	limit := b.cfg.PageSize
	apps, err := b.applications.ListPending(ctx, limit, page*limit)
	if err != nil {
		return err
	}
	if len(apps) == 0 && page == 0 {
		return helpers.EditOrSendHTML(c, "Новых заявок нет.", keyboard.InlineButtonsRows(backToAdminRow()))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Заявки на рассмотрении</b> (стр. %d)\n\n", page+1))
	rows := make([][]keyboard.InlineBtn, 0, len(apps)+2)
	for _, app := range apps {
		name := app.FullName
		if name == "" && app.Username != "" {
			name = "@" + app.Username
		}
		sb.WriteString(fmt.Sprintf("#%d — %s (id %d), подана %s\n",
			app.ID, format.EscapeHTML(name), app.UserID, app.CreatedAt.Format("02.01.2006 15:04")))
		rows = append(rows, []keyboard.InlineBtn{
			{Text: fmt.Sprintf("✅ #%d", app.ID), Unique: callbackAdminApprove, Data: fmt.Sprintf("%d", app.UserID)},
			{Text: fmt.Sprintf("❌ #%d", app.ID), Unique: callbackAdminReject, Data: fmt.Sprintf("%d", app.UserID)},
		})
	}
	// A full page means there may be more.
	if nav := ui.PageNav(callbackAdminApps, page, page > 0, len(apps) == limit); len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, backToAdminRow())

	return helpers.EditOrSendHTML(c, sb.String(), keyboard.InlineButtonsRows(rows...))
}

func (b *Bot) cbApprove(c tele.Context) error {
	return b.decide(c, domain.ApplicationApproved)
}

func (b *Bot) cbReject(c tele.Context) error {
	return b.decide(c, domain.ApplicationRejected)
}

func (b *Bot) decide(c tele.Context, outcome domain.ApplicationStatus) error {
	ctx := helpers.BuildContext(c)
	userID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}

	err = b.applications.Decide(ctx, userID, outcome, helpers.SenderID(c))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return helpers.EditOrSendHTML(c, "Заявка уже рассмотрена другим администратором.", keyboard.InlineButtonsRows(backToAdminRow()))
	case errors.Is(err, domain.ErrDeliveryFailed):
		return helpers.EditOrSendHTML(c,
			fmt.Sprintf("Решение по пользователю %d сохранено, но уведомить его не удалось.", userID),
			keyboard.InlineButtonsRows(backToAdminRow()))
	case err != nil:
		return err
	}

	verdict := "одобрена"
	if outcome == domain.ApplicationRejected {
		verdict = "отклонена"
	}
	return helpers.EditOrSendHTML(c,
		fmt.Sprintf("Заявка пользователя %d %s.", userID, verdict),
		keyboard.InlineButtonsRows(backToAdminRow()))
}

func (b *Bot) cbStats(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	stats, err := b.applications.Stats(ctx)
	if err != nil {
		return err
	}
	text := fmt.Sprintf(
		"<b>Статистика заявок</b>\n\nВсего: %d\nНа рассмотрении: %d\nОдобрено: %d\nОтклонено: %d",
		stats.Total, stats.Pending, stats.Approved, stats.Rejected,
	)
	return helpers.EditOrSendHTML(c, text, keyboard.InlineButtonsRows(backToAdminRow()))
}
