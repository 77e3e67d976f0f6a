// Package bot wires the Telegram surface of the admission flow: user-facing
// commands and callbacks, admin review panels, and the FSM text states.
package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/m3rciful/artliftbot/core/telegram"
	"github.com/m3rciful/artliftbot/core/telegram/commands"
	"github.com/m3rciful/artliftbot/core/telegram/helpers"
	"github.com/m3rciful/artliftbot/core/telegram/state"
	"github.com/m3rciful/artliftbot/internal/config"
	"github.com/m3rciful/artliftbot/internal/service"
)

// Bot groups the handler dependencies.
type Bot struct {
	cfg          *config.Config
	fsm          state.Manager
	users        *service.UserService
	applications *service.ApplicationService
	reminders    *service.ReminderService
	questions    *service.QuestionService
	templates    *service.TemplateService
}

func New(
	cfg *config.Config,
	fsm state.Manager,
	users *service.UserService,
	applications *service.ApplicationService,
	reminders *service.ReminderService,
	questions *service.QuestionService,
	templates *service.TemplateService,
) *Bot {
	return &Bot{
		cfg:          cfg,
		fsm:          fsm,
		users:        users,
		applications: applications,
		reminders:    reminders,
		questions:    questions,
		templates:    templates,
	}
}

// Register installs every command, callback and FSM handler on the registry.
func (b *Bot) Register(reg *coretelegram.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Начать работу с ботом",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     b.handleMenu,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     b.handleCancel,
		Description: "Отменить текущее действие",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     b.handleAdminPanel,
		Description: "Панель администратора",
		AdminOnly:   true,
		Hidden:      true,
	})

	cbs := map[string]tele.HandlerFunc{
		callbackMainMenu:    b.cbMainMenu,
		callbackFillForm:    b.cbFillForm,
		callbackFormFilled:  b.cbFormFilled,
		callbackAskQuestion: b.cbAskQuestion,
		callbackFAQ:         b.cbFAQ,
		callbackCancel:      b.cbCancel,

		callbackAdminPanel:     b.requireAdmin(b.cbAdminPanel),
		callbackAdminApps:      b.requireAdmin(b.cbApplicationList),
		callbackAdminApprove:   b.requireAdmin(b.cbApprove),
		callbackAdminReject:    b.requireAdmin(b.cbReject),
		callbackAdminStats:     b.requireAdmin(b.cbStats),
		callbackAdminQuestions: b.requireAdmin(b.cbQuestionList),
		callbackAdminQView:     b.requireAdmin(b.cbQuestionView),
		callbackAdminQAnswer:   b.requireAdmin(b.cbQuestionAnswer),
		callbackAdminTpls:      b.requireAdmin(b.cbTemplateList),
		callbackAdminTplView:   b.requireAdmin(b.cbTemplateView),
		callbackAdminTplEdit:   b.requireAdmin(b.cbTemplateEdit),
		callbackAdminTplHist:   b.requireAdmin(b.cbTemplateHistory),
		callbackAdminTplRest:   b.requireAdmin(b.cbTemplateRestore),
		callbackAdminTplDrop:   b.requireAdmin(b.cbTemplateHistoryDelete),
	}
	for key, handler := range cbs {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return err
		}
	}

	state.RegisterHandler(stateAwaitingQuestion, b.onQuestionText)
	state.RegisterHandler(stateAwaitingAnswer, b.onAnswerText)
	state.RegisterHandler(stateAwaitingTemplate, b.onTemplateContent)

	reg.SetCallbackNotFound(b.UnknownCallback())
	reg.SetTextFallback(b.UnknownText())
	return nil
}

// requireAdmin guards admin callbacks; commands are gated by the router.
func (b *Bot) requireAdmin(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := helpers.BuildContext(c)
		if !b.users.IsAdmin(ctx, helpers.SenderID(c)) {
			return c.Respond(&tele.CallbackResponse{Text: "Недостаточно прав"})
		}
		return next(c)
	}
}
