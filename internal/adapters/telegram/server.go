package telegram

import (
	"RelayBot/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// UpdateHandler consumes raw Telegram updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

// jobBuffer is how many updates may wait for a free worker.
const jobBuffer = 100

// BotServer is responsible for running the bot (polling or webhook)
type BotServer struct {
	api     *tgbotapi.BotAPI
	handler UpdateHandler
	cfg     *config.BotConfig
	log     zerolog.Logger
}

// NewBotServer creates a new server instance
func NewBotServer(
	api *tgbotapi.BotAPI,
	handler UpdateHandler,
	cfg *config.BotConfig,
	baseLogger *zerolog.Logger,
) *BotServer {
	return &BotServer{
		api:     api,
		handler: handler,
		cfg:     cfg,
		log:     baseLogger.With().Str("component", "bot_server").Logger(),
	}
}

// Start begins the bot server based on the config mode. It blocks until
// ctx is cancelled.
func (s *BotServer) Start(ctx context.Context) error {
	s.log.Info().Str("mode", s.cfg.Mode).Int("workers", s.cfg.Workers).Msg("Starting bot server...")

	switch s.cfg.Mode {
	case config.ModePolling:
		return s.startPolling(ctx)
	case config.ModeWebhook:
		return s.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", s.cfg.Mode)
	}
}

// startWorkers runs the fixed worker pool over jobs. The returned wait
// function blocks until every worker has exited.
func (s *BotServer) startWorkers(ctx context.Context, jobs <-chan tgbotapi.Update) func() {
	var wg sync.WaitGroup
	for w := 1; w <= s.cfg.Workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			log := s.log.With().Int("worker_id", id).Logger()
			log.Debug().Msg("Starting update worker")
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-jobs:
					if !ok {
						return
					}
					s.handler.HandleUpdate(log.WithContext(ctx), &job)
				}
			}
		}(w)
	}
	return wg.Wait
}

// startPolling starts the bot in long polling mode with a worker pool
func (s *BotServer) startPolling(ctx context.Context) error {
	// 1. A leftover webhook makes getUpdates fail with 409.
	deleteWebhookConfig := tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}
	if _, err := s.api.Request(deleteWebhookConfig); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	} else {
		s.log.Info().Msg("Webhook deleted successfully")
	}

	// 2. Create the channel for updates
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.api.GetUpdatesChan(u)

	// 3. Worker pool
	jobs := make(chan tgbotapi.Update, jobBuffer)
	wait := s.startWorkers(ctx, jobs)

	s.log.Info().Msg("Polling update listener started")

	// 4. Main loop: Listen for updates and dispatch jobs
	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			close(jobs)
			wait()
			s.log.Info().Msg("Polling stopped gracefully")
			return nil
		case update, ok := <-updates:
			if !ok {
				close(jobs)
				wait()
				return errors.New("update channel closed")
			}
			select {
			case jobs <- update:
			case <-ctx.Done():
			}
		}
	}
}

// webhookPath keeps the endpoint unguessable.
func (s *BotServer) webhookPath() string {
	return "/webhook/" + s.api.Token
}

// startWebhook starts the bot in webhook mode (for production)
func (s *BotServer) startWebhook(ctx context.Context) error {
	// 1. Register the webhook with Telegram
	wh, err := tgbotapi.NewWebhook(s.cfg.Webhook.URL + s.webhookPath())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create webhook config")
		return err
	}
	if _, err := s.api.Request(wh); err != nil {
		s.log.Error().Err(err).Msg("Failed to set webhook")
		return err
	}

	info, err := s.api.GetWebhookInfo()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get webhook info")
		return err
	}
	if info.LastErrorDate != 0 {
		s.log.Error().Str("error_message", info.LastErrorMessage).Msg("Telegram webhook has a last error")
	} else {
		s.log.Info().Msg("Webhook set successfully, no last error")
	}

	// 2. Worker pool
	jobs := make(chan tgbotapi.Update, jobBuffer)
	wait := s.startWorkers(ctx, jobs)

	// 3. HTTP server. TLS is terminated by the reverse proxy in front.
	listenAddr := fmt.Sprintf("127.0.0.1:%d", s.cfg.Webhook.ListenPort)
	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           s.webhookHandler(ctx, jobs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", listenAddr).Msg("Starting HTTP server for webhook")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 4. Wait for shutdown
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		s.log.Error().Err(runErr).Msg("Webhook HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	close(jobs)
	wait()
	s.log.Info().Msg("Webhook server stopped gracefully")
	return runErr
}

// webhookHandler decodes updates posted by Telegram and queues them.
func (s *BotServer) webhookHandler(ctx context.Context, jobs chan<- tgbotapi.Update) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.webhookPath(), func(w http.ResponseWriter, r *http.Request) {
		update, err := s.api.HandleUpdate(r)
		if err != nil {
			s.log.Warn().Err(err).Msg("Rejected webhook request")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		select {
		case jobs <- *update:
			w.WriteHeader(http.StatusOK)
		case <-ctx.Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		case <-r.Context().Done():
		}
	})
	return mux
}
