package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/core/telegram/keyboard"
)

func (b *Bot) mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "📝 Заполнить анкету", Unique: callbackFillForm}},
		[]keyboard.InlineBtn{{Text: "❓ Задать вопрос", Unique: callbackAskQuestion}},
		[]keyboard.InlineBtn{{Text: "ℹ️ FAQ", Unique: callbackFAQ}},
	)
}

func (b *Bot) fillFormMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	formBtn := markup.URL("📝 Заполнить анкету", b.cfg.URLs.ApplicationForm)
	filledBtn := markup.Data("✅ Я заполнил(а) анкету", callbackFormFilled)
	backBtn := markup.Data("⬅️ В меню", callbackMainMenu)
	markup.Inline(markup.Row(formBtn), markup.Row(filledBtn), markup.Row(backBtn))
	return markup
}

func (b *Bot) backToMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⬅️ В меню", Unique: callbackMainMenu},
	})
}

func (b *Bot) adminPanelMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "📬 Заявки", Unique: callbackAdminApps, Data: "0"}},
		[]keyboard.InlineBtn{{Text: "❓ Вопросы", Unique: callbackAdminQuestions, Data: "0"}},
		[]keyboard.InlineBtn{{Text: "📄 Шаблоны", Unique: callbackAdminTpls}},
		[]keyboard.InlineBtn{{Text: "📊 Статистика", Unique: callbackAdminStats}},
	)
}

func backToAdminRow() []keyboard.InlineBtn {
	return []keyboard.InlineBtn{{Text: "⬅️ В панель", Unique: callbackAdminPanel}}
}
