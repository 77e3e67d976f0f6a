// Package app assembles the bot: configuration, storage, services, and the
// Telegram runtime options consumed by core/cmd.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	corebootstrap "github.com/m3rciful/artliftbot/core/bootstrap"
	corecmd "github.com/m3rciful/artliftbot/core/cmd"
	coretelegram "github.com/m3rciful/artliftbot/core/telegram"
	"github.com/m3rciful/artliftbot/core/telegram/router"
	"github.com/m3rciful/artliftbot/core/telegram/state"
	"github.com/m3rciful/artliftbot/internal/bot"
	"github.com/m3rciful/artliftbot/internal/config"
	"github.com/m3rciful/artliftbot/internal/notify"
	"github.com/m3rciful/artliftbot/internal/service"
	"github.com/m3rciful/artliftbot/internal/storage"
)

// App holds the assembled application.
type App struct {
	cfg *config.Config
	db  *sqlx.DB

	fsm       state.Manager
	deliverer *lazyDeliverer
	handlers  *bot.Bot

	users        *service.UserService
	applications *service.ApplicationService
	reminders    *service.ReminderService
	questions    *service.QuestionService
	templates    *service.TemplateService

	stopSweeper context.CancelFunc
}

// LoadConfig adapts config.Load to the runner's signature.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	return config.Load(path)
}

// Bootstrap initializes infrastructure and wires the service graph.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	repos := storage.New(res.DB)

	deliverer := &lazyDeliverer{}
	notifier := notify.NewNotifier(deliverer, cfg.AdminIDs)

	templates := service.NewTemplateService(repos.Templates, map[string]string{
		"PAYMENT_URL":           cfg.URLs.Payment,
		"CONTACT_USERNAME":      cfg.URLs.ContactUsername,
		"APPLICATION_FORM_URL":  cfg.URLs.ApplicationForm,
		"CHANNEL_SUBSCRIBE_URL": cfg.URLs.ChannelJoin,
	})
	users := service.NewUserService(repos.Users, cfg.AdminIDs)
	reminders := service.NewReminderService(
		repos.Reminders, repos.Applications, templates, notifier, cfg.Reminders.SweepInterval)
	applications := service.NewApplicationService(
		repos.Applications, repos.Users, reminders, templates, notifier)
	questions := service.NewQuestionService(repos.Questions, templates, notifier)

	fsm := state.NewMemoryManager()

	a := &App{
		cfg:          cfg,
		db:           res.DB,
		fsm:          fsm,
		deliverer:    deliverer,
		users:        users,
		applications: applications,
		reminders:    reminders,
		questions:    questions,
		templates:    templates,
	}
	a.handlers = bot.New(cfg, fsm, users, applications, reminders, questions, templates)
	return a, nil
}

// TelegramRunOptions builds the runtime options for core/cmd.Run.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs: a.cfg.AdminIDs,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: reg.CallbackNotFound(),
	}))
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{
		UnknownText:     a.handlers.UnknownText(),
		UnknownDocument: a.handlers.UnknownDocument(),
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	a.deliverer.set(notify.NewTelegramDeliverer(rt.Bot, notify.Options{}))

	sweepCtx, cancel := context.WithCancel(context.Background())
	a.stopSweeper = cancel
	go a.reminders.Run(sweepCtx)
	return nil
}

func (a *App) onStop(ctx context.Context, rt coretelegram.Runtime) error {
	if a.stopSweeper != nil {
		a.stopSweeper()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
