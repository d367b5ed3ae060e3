package main

import (
	"RelayBot/internal/adapters/eventbus"
	"RelayBot/internal/adapters/filestore"
	"RelayBot/internal/adapters/locales"
	"RelayBot/internal/adapters/postgres"
	"RelayBot/internal/adapters/telegram"
	"RelayBot/internal/bot"
	"RelayBot/internal/bot/handlers"
	"RelayBot/internal/core/ports"
	"RelayBot/internal/core/services"
	"RelayBot/internal/core/verification"
	"RelayBot/internal/shared/config"
	"RelayBot/internal/shared/logger"
	"RelayBot/internal/shared/pidlock"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode, cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("bot_mode", cfg.Bot.Mode).
		Str("storage", cfg.Storage.Driver).
		Msg("Configuration loaded")

	// 3. Only one instance may poll the same token
	lock, err := pidlock.Acquire(cfg.Bot.LockFile)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", cfg.Bot.LockFile, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			baseLogger.Warn().Err(err).Msg("Failed to release lock file")
		}
	}()

	// 4. Telegram API (validates the token with getMe)
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = isDevMode && cfg.LogLevel == "trace"
	botClient := telegram.NewClient(api, &baseLogger)

	me, err := botClient.Identity(ctx)
	if err != nil {
		return fmt.Errorf("validate bot token: %w", err)
	}
	baseLogger.Info().Str("username", me.UserName).Int64("bot_id", me.ID).Msg("Authorized on Telegram")

	// 5. Administrator storage
	store, closeStore, err := newAdminStore(ctx, cfg, &baseLogger)
	if err != nil {
		return err
	}
	defer closeStore()

	admins, err := services.NewAdminRegistry(ctx, store, cfg.Admins.DefaultIDs, &baseLogger)
	if err != nil {
		return fmt.Errorf("initialize admin registry: %w", err)
	}
	baseLogger.Info().Int("admins", admins.Len()).Msg("Administrators loaded")

	// 6. Core services
	loc, err := locales.Load()
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	if !loc.Has(cfg.I18n.DefaultLanguage) {
		baseLogger.Warn().Str("language", cfg.I18n.DefaultLanguage).Msg("Default language has no translations, using the fallback")
	}

	sessions := services.NewSessionStore(cfg.I18n.DefaultLanguage, &baseLogger)
	renderer := services.NewRenderer(loc, cfg.I18n.FallbackLanguage)
	validator := services.NewSubmissionValidator(cfg.Upload.Extensions, cfg.Upload.MimeTypes)
	dispatcher := services.NewBroadcastDispatcher(botClient, renderer, sessions, cfg.Broadcast.RatePerSec, &baseLogger)
	notifier := services.NewUserNotifier(botClient, renderer, sessions, &baseLogger)

	scheduler, err := verification.NewScheduler(verification.Config{
		Delay:      cfg.Verification.Delay,
		Workers:    cfg.Verification.Workers,
		MaxPending: cfg.Verification.MaxPending,
		Weights: verification.Weights{
			Success: cfg.Verification.Weights.Success,
			Warning: cfg.Verification.Weights.Warning,
			Failure: cfg.Verification.Weights.Failure,
		},
	}, verification.SystemClock{}, verification.RandomSampler, notifier, &baseLogger)
	if err != nil {
		return fmt.Errorf("initialize verification: %w", err)
	}

	janitor, err := services.NewJanitor(cfg.Janitor.Schedule, cfg.Session.TTL, sessions, scheduler, &baseLogger)
	if err != nil {
		return err
	}

	bus := eventbus.NewInMemoryEventBus(&baseLogger)

	// 7. Router and handlers
	deps := &bot.Deps{
		Cfg:        cfg,
		Bot:        botClient,
		Admins:     admins,
		Sessions:   sessions,
		Renderer:   renderer,
		Validator:  validator,
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
		Notifier:   notifier,
		Bus:        bus,
		Pending:    bot.NewPendingInputs(),
	}
	router := bot.NewRouter(deps, &baseLogger)
	bot.RegisterAllHandlers(deps, router, &baseLogger)

	if err := handlers.SetDefaultMenu(ctx, deps); err != nil {
		baseLogger.Warn().Err(err).Msg("Failed to set the default command menu")
	}

	// 8. Background workers
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()
	janitor.Start()

	// 9. Serve until a signal arrives
	server := telegram.NewBotServer(api, router, &cfg.Bot, &baseLogger)
	serveErr := server.Start(ctx)
	stop()

	baseLogger.Info().Msg("Shutting down...")
	janitor.Stop()
	bus.Wait()
	wg.Wait()
	baseLogger.Info().Msg("Shutdown complete")
	return serveErr
}

// newAdminStore opens the configured storage driver.
func newAdminStore(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) (ports.AdminStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, baseLogger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return postgres.NewAdminStore(db, baseLogger), db.Close, nil
	default:
		return filestore.NewAdminStore(cfg.Storage.Path, baseLogger), func() {}, nil
	}
}
