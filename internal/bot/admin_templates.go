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
	"github.com/m3rciful/artliftbot/internal/domain"
)

const (
	templatePreviewRunes = 3000
	historyPreviewRunes  = 120
	historyPageLimit     = 10
)

func (b *Bot) cbTemplateList(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	infos, err := b.templates.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]keyboard.InlineBtn, 0, len(infos)+1)
	for _, info := range infos {
		label := info.Key
		if info.Description.Valid && info.Description.String != "" {
			label = fmt.Sprintf("%s — %s", info.Key, info.Description.String)
		}
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   format.TruncateRunes(label, 50),
			Unique: callbackAdminTplView,
			Data:   info.Key,
		}})
	}
	rows = append(rows, backToAdminRow())

	return helpers.EditOrSendHTML(c, "<b>Шаблоны сообщений</b>\n\nВыберите шаблон:", keyboard.InlineButtonsRows(rows...))
}

func (b *Bot) cbTemplateView(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	key := callbacks.CallbackPayload(c)
	if key == "" {
		return b.cbTemplateList(c)
	}

	tpl, err := b.templates.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return helpers.EditOrSendHTML(c, "Шаблон не найден.", keyboard.InlineButtonsRows(backToAdminRow()))
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Шаблон</b> <code>%s</code>\n", format.EscapeHTML(tpl.Key)))
	sb.WriteString(fmt.Sprintf("Обновлён: %s\n\n", tpl.UpdatedAt.Format("02.01.2006 15:04")))
	sb.WriteString("<pre>")
	sb.WriteString(format.EscapeHTML(format.TruncateRunes(tpl.Content, templatePreviewRunes)))
	sb.WriteString("</pre>")

	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✏️ Изменить", Unique: callbackAdminTplEdit, Data: tpl.Key},
			{Text: "🕓 История", Unique: callbackAdminTplHist, Data: tpl.Key},
		},
		[]keyboard.InlineBtn{{Text: "⬅️ К шаблонам", Unique: callbackAdminTpls}},
	)
	return helpers.EditOrSendHTML(c, sb.String(), markup)
}

func (b *Bot) cbTemplateEdit(c tele.Context) error {
	key := callbacks.CallbackPayload(c)
	if key == "" {
		return b.cbTemplateList(c)
	}
	adminID := helpers.SenderID(c)
	b.fsm.SetState(adminID, stateAwaitingTemplate)
	b.fsm.SetTemp(adminID, tempTemplateKey, key)
	return helpers.EditOrSendHTML(c,
		fmt.Sprintf("✏️ Отправьте новый текст шаблона <code>%s</code> одним сообщением.", format.EscapeHTML(key)),
		cancelMarkup())
}

func (b *Bot) onTemplateContent(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	adminID := helpers.SenderID(c)

	key, ok := b.fsm.GetTempString(adminID, tempTemplateKey)
	if !ok {
		b.fsm.Clear(adminID)
		return helpers.SendHTML(c, "Контекст редактирования потерян, начните заново.", keyboard.InlineButtonsRows(backToAdminRow()))
	}

	err := b.templates.Update(ctx, key, c.Text(), adminID)
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return helpers.SendHTML(c, "Текст шаблона не может быть пустым.", cancelMarkup())
	case err != nil:
		return err
	}

	b.fsm.Clear(adminID)
	return helpers.SendHTML(c,
		fmt.Sprintf("Шаблон <code>%s</code> обновлён, прежняя версия сохранена в истории.", format.EscapeHTML(key)),
		keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: "🕓 История", Unique: callbackAdminTplHist, Data: key}},
			backToAdminRow(),
		))
}

func (b *Bot) cbTemplateHistory(c tele.Context) error {
	key := callbacks.CallbackPayload(c)
	if key == "" {
		return b.cbTemplateList(c)
	}
	return b.showTemplateHistory(c, key)
}

func (b *Bot) cbTemplateRestore(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	historyID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}

	rev, err := b.templates.Restore(ctx, historyID, helpers.SenderID(c))
	if errors.Is(err, domain.ErrNotFound) {
		return helpers.EditOrSendHTML(c, "Версия не найдена, возможно её уже удалили.", keyboard.InlineButtonsRows(backToAdminRow()))
	}
	if err != nil {
		return err
	}

	return helpers.EditOrSendHTML(c,
		fmt.Sprintf("Шаблон <code>%s</code> возвращён к версии #%d.", format.EscapeHTML(rev.TemplateKey), historyID),
		keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: "⬅️ К шаблону", Unique: callbackAdminTplView, Data: rev.TemplateKey}},
		))
}

func (b *Bot) cbTemplateHistoryDelete(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) == 0 {
		return b.cbTemplateList(c)
	}
	var historyID int64
	if _, err := fmt.Sscanf(parts[0], "%d", &historyID); err != nil {
		return b.cbTemplateList(c)
	}
	key := ""
	if len(parts) > 1 {
		key = parts[1]
	}

	err = b.templates.DeleteHistory(ctx, historyID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if key != "" {
		return b.showTemplateHistory(c, key)
	}
	return helpers.EditOrSendHTML(c, "Версия удалена из истории.", keyboard.InlineButtonsRows(backToAdminRow()))
}

func (b *Bot) showTemplateHistory(c tele.Context, key string) error {
	ctx := helpers.BuildContext(c)
	revisions, err := b.templates.History(ctx, key, historyPageLimit)
	if err != nil {
		return err
	}
	if len(revisions) == 0 {
		return helpers.EditOrSendHTML(c,
			fmt.Sprintf("История шаблона <code>%s</code> пуста.", format.EscapeHTML(key)),
			keyboard.InlineButtonsRows(
				[]keyboard.InlineBtn{{Text: "⬅️ К шаблону", Unique: callbackAdminTplView, Data: key}},
			))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>История шаблона</b> <code>%s</code>\n\n", format.EscapeHTML(key)))
	rows := make([][]keyboard.InlineBtn, 0, len(revisions)+1)
	for _, rev := range revisions {
		preview := format.EscapeHTML(format.TruncateRunes(rev.Content, historyPreviewRunes))
		sb.WriteString(fmt.Sprintf("#%d от %s:\n%s\n\n", rev.ID, rev.CreatedAt.Format("02.01.2006 15:04"), preview))
		rows = append(rows, []keyboard.InlineBtn{
			{Text: fmt.Sprintf("↩️ Вернуть #%d", rev.ID), Unique: callbackAdminTplRest, Data: fmt.Sprintf("%d", rev.ID)},
			{Text: fmt.Sprintf("🗑 #%d", rev.ID), Unique: callbackAdminTplDrop, Data: fmt.Sprintf("%d|%s", rev.ID, key)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "⬅️ К шаблону", Unique: callbackAdminTplView, Data: key}})
	return helpers.EditOrSendHTML(c, sb.String(), keyboard.InlineButtonsRows(rows...))
}
