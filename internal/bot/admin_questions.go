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

const questionListPreviewRunes = 60

func (b *Bot) cbQuestionList(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	page, err := callbacks.PayloadInt(c)
	if err != nil {
		page = 0
	}

	limit := b.cfg.PageSize
	questions, err := b.questions.ListPending(ctx, limit, page*limit)
	if err != nil {
		return err
	}
	if len(questions) == 0 && page == 0 {
		return helpers.EditOrSendHTML(c, "Вопросов без ответа нет.", keyboard.InlineButtonsRows(backToAdminRow()))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Вопросы без ответа</b> (стр. %d)\n\n", page+1))
	rows := make([][]keyboard.InlineBtn, 0, len(questions)+2)
	for _, q := range questions {
		preview := format.EscapeHTML(format.TruncateRunes(q.Text, questionListPreviewRunes))
		sb.WriteString(fmt.Sprintf("#%d — %s\n", q.ID, preview))
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("💬 #%d", q.ID),
			Unique: callbackAdminQView,
			Data:   fmt.Sprintf("%d", q.ID),
		}})
	}
	if nav := ui.PageNav(callbackAdminQuestions, page, page > 0, len(questions) == limit); len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, backToAdminRow())

	return helpers.EditOrSendHTML(c, sb.String(), keyboard.InlineButtonsRows(rows...))
}

func (b *Bot) cbQuestionView(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	questionID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}

	question, err := b.questions.Get(ctx, questionID)
	if errors.Is(err, domain.ErrNotFound) {
		return helpers.EditOrSendHTML(c, "Вопрос не найден.", keyboard.InlineButtonsRows(backToAdminRow()))
	}
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Вопрос #%d</b> от пользователя %d\n", question.ID, question.UserID))
	sb.WriteString(fmt.Sprintf("Задан: %s\n\n", question.CreatedAt.Format("02.01.2006 15:04")))
	sb.WriteString(format.EscapeHTML(question.Text))
	if question.Status == domain.QuestionAnswered && question.Answer.Valid {
		sb.WriteString("\n\n<b>Ответ:</b>\n")
		sb.WriteString(format.EscapeHTML(question.Answer.String))
	}

	rows := make([][]keyboard.InlineBtn, 0, 2)
	if question.Status == domain.QuestionPending {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   "✍️ Ответить",
			Unique: callbackAdminQAnswer,
			Data:   fmt.Sprintf("%d", question.ID),
		}})
	}
	rows = append(rows, backToAdminRow())

	return helpers.EditOrSendHTML(c, sb.String(), keyboard.InlineButtonsRows(rows...))
}

func (b *Bot) cbQuestionAnswer(c tele.Context) error {
	questionID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	adminID := helpers.SenderID(c)
	b.fsm.SetState(adminID, stateAwaitingAnswer)
	b.fsm.SetTemp(adminID, tempQuestionID, questionID)
	return helpers.EditOrSendHTML(c,
		fmt.Sprintf("✍️ Напишите ответ на вопрос #%d одним сообщением.", questionID),
		cancelMarkup())
}

func (b *Bot) onAnswerText(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	adminID := helpers.SenderID(c)

	questionID, ok := b.fsm.GetTempInt64(adminID, tempQuestionID)
	if !ok {
		b.fsm.Clear(adminID)
		return helpers.SendHTML(c, "Контекст ответа потерян, начните заново.", keyboard.InlineButtonsRows(backToAdminRow()))
	}

	err := b.questions.Answer(ctx, questionID, adminID, c.Text())
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return helpers.SendHTML(c, "Ответ не может быть пустым.", cancelMarkup())
	case errors.Is(err, domain.ErrInvalidState):
		b.fsm.Clear(adminID)
		return helpers.SendHTML(c, "На этот вопрос уже ответили.", keyboard.InlineButtonsRows(backToAdminRow()))
	case errors.Is(err, domain.ErrDeliveryFailed):
		b.fsm.Clear(adminID)
		return helpers.SendHTML(c,
			"Ответ сохранён, но доставить его пользователю не удалось.",
			keyboard.InlineButtonsRows(backToAdminRow()))
	case err != nil:
		return err
	}

	b.fsm.Clear(adminID)
	return helpers.SendHTML(c,
		fmt.Sprintf("Ответ на вопрос #%d отправлен.", questionID),
		keyboard.InlineButtonsRows(backToAdminRow()))
}
