package bot

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/bot/handlers"
	"github.com/Proton-105/egeshop-bot/internal/bot/keyboard"
	"github.com/Proton-105/egeshop-bot/internal/broadcast"
	apperrors "github.com/Proton-105/egeshop-bot/internal/errors"
	"github.com/Proton-105/egeshop-bot/internal/i18n"
	"github.com/Proton-105/egeshop-bot/internal/idempotency"
	"github.com/Proton-105/egeshop-bot/internal/menu"
	"github.com/Proton-105/egeshop-bot/internal/middleware"
	"github.com/Proton-105/egeshop-bot/internal/ratelimit"
	"github.com/Proton-105/egeshop-bot/internal/settings"
	"github.com/Proton-105/egeshop-bot/internal/state"
	"github.com/Proton-105/egeshop-bot/internal/user"
	"github.com/Proton-105/egeshop-bot/pkg/config"
)

// Bot wires telebot.Bot to the storefront screens and the admin flows.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	fsm        state.StateMachine
	router     *Router
	dispatcher *Dispatcher
	errHandler *apperrors.Handler
}

// Dependencies collects the services the bot needs to handle updates.
type Dependencies struct {
	FSM         state.StateMachine
	Idempotency idempotency.Manager
	Limiter     ratelimit.Limiter
	Rules       *ratelimit.Rules
	Translator  i18n.Translator
	Users       *user.Service
	Settings    *settings.Service
}

// New builds a telegram bot instance configured according to the application
// settings. ctx bounds long-running work started from handlers, such as a
// broadcast run.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, deps Dependencies) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	tb, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Bot.Token,
		Poller: &telebot.LongPoller{Timeout: cfg.Bot.PollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(deps.Translator, log)
	renderer := menu.NewRenderer(deps.Translator, kb, cfg.Bot.ManagerUsername)
	dispatcher := NewDispatcher(deps.FSM, log)
	router := NewRouter(dispatcher, log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	broadcaster := broadcast.NewDispatcher(
		&telegramSender{bot: tb},
		deps.Users,
		cfg.Broadcast.SendDelay,
		log,
	)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		fsm:        deps.FSM,
		router:     router,
		dispatcher: dispatcher,
		errHandler: errHandler,
	}

	b.setupRouter(ctx, kb, renderer, broadcaster, deps)
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter(
	ctx context.Context,
	kb *keyboard.Builder,
	renderer *menu.Renderer,
	broadcaster *broadcast.Dispatcher,
	deps Dependencies,
) {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(middleware.Idempotency(deps.Idempotency, b.log))
	b.router.Use(middleware.RateLimit(deps.Limiter, deps.Rules, deps.Translator, b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(RegisterUserMiddleware(deps.Users, b.log))
	b.router.Use(middleware.Metrics)

	shop := handlers.NewShopHandler(renderer, deps.Settings, b.log)
	admin := handlers.NewAdminHandler(
		ctx,
		b.cfg.Bot.AdminID,
		b.cfg.Broadcast.MaxTextLength,
		b.fsm,
		kb,
		deps.Translator,
		broadcaster,
		deps.Settings,
		b.log,
	)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(renderer, b.fsm, b.log))
	b.router.RegisterCommand(CommandAdmin, admin.HandlePanel)
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(b.fsm, deps.Translator, b.log))

	b.router.RegisterCallback(keyboard.ActionBuy, shop.HandleBuy)
	b.router.RegisterCallback(keyboard.ActionSubject, shop.HandleSubject)
	b.router.RegisterCallback(keyboard.ActionProgram, shop.HandleProgram)
	b.router.RegisterCallback(keyboard.ActionBackStart, shop.HandleBackStart)
	b.router.RegisterCallback(keyboard.ActionBackSubjects, shop.HandleBackSubjects)

	b.router.RegisterCallback(keyboard.ActionAdminBroadcast, admin.HandleBroadcastStart)
	b.router.RegisterCallback(keyboard.ActionAdminSetCard, admin.HandleSetCardStart)
	b.router.RegisterCallback(keyboard.ActionBroadcastConfirm, admin.HandleBroadcastConfirm)
	b.router.RegisterCallback(keyboard.ActionBroadcastCancel, admin.HandleBroadcastCancel)

	b.dispatcher.RegisterStateHandler(state.StateAwaitingBroadcastText, admin.HandleBroadcastText)
	b.dispatcher.RegisterStateHandler(state.StateAwaitingBroadcastConfirm, admin.HandleAwaitingConfirm)
	b.dispatcher.RegisterStateHandler(state.StateDispatching, admin.HandleDispatching)
	b.dispatcher.RegisterStateHandler(state.StateAwaitingCardNumber, admin.HandleCardNumber)
	b.dispatcher.RegisterStateHandler(state.StateAwaitingRecipientFIO, admin.HandleRecipientFIO)

	b.router.SetDefault(handlers.NewFallbackHandler(deps.Translator))
}

func (b *Bot) registerTelebotHandlers() {
	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
