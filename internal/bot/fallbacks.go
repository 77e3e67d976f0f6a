package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/artliftbot/core/telegram/helpers"
	"github.com/m3rciful/artliftbot/core/telegram/ui"
)

var _ ui.FallbackProvider = (*Bot)(nil)

// UnknownText handles free text outside any conversation state.
func (b *Bot) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return helpers.SendHTML(c,
			"Я не понял сообщение. Выберите действие в меню или отправьте /menu.",
			b.mainMenuMarkup())
	}
}

// UnknownDocument handles documents the bot does not expect.
func (b *Bot) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return helpers.SendHTML(c,
			"Файлы здесь не обрабатываются. Выберите действие в меню.",
			b.mainMenuMarkup())
	}
}

// UnknownCallback handles callbacks without a registered handler,
// typically taps on stale keyboards.
func (b *Bot) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Действие устарело, откройте меню заново."})
	}
}
