package moderator

import (
	"ERecyclo/internal/core/ports"
	"ERecyclo/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ModeratorServer receives updates from Telegram and publishes them on the
// bus. It does no routing itself.
type ModeratorServer struct {
	api *tgbotapi.BotAPI
	cfg *config.BotConnectionConfig
	bus ports.EventBus
	log zerolog.Logger
}

// NewModeratorServer creates a new server instance.
func NewModeratorServer(
	api *tgbotapi.BotAPI,
	cfg *config.BotConnectionConfig,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *ModeratorServer {
	return &ModeratorServer{
		api: api,
		cfg: cfg,
		bus: bus,
		log: baseLogger.With().Str("component", "moderator_server").Logger(),
	}
}

// Start blocks until ctx is cancelled.
func (s *ModeratorServer) Start(ctx context.Context) error {
	s.log.Info().Str("mode", s.cfg.Mode).Msg("Starting moderator server...")

	switch s.cfg.Mode {
	case config.BotModePolling:
		return s.startPolling(ctx)
	case config.BotModeWebhook:
		return s.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", s.cfg.Mode)
	}
}

func (s *ModeratorServer) startPolling(ctx context.Context) error {
	if _, err := s.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := s.api.GetUpdatesChan(u)

	s.log.Info().Msg("Polling update listener started")
	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			s.log.Info().Msg("Polling stopped gracefully")
			return nil
		case update := <-updates:
			s.publishUpdate(ctx, update)
		}
	}
}

func (s *ModeratorServer) startWebhook(ctx context.Context) error {
	webhookPath := "/webhook/" + s.api.Token
	wh, err := tgbotapi.NewWebhook(s.cfg.Webhook.URL + webhookPath)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create webhook config")
		return err
	}
	if _, err := s.api.Request(wh); err != nil {
		s.log.Error().Err(err).Msg("Failed to set webhook")
		return err
	}
	if info, err := s.api.GetWebhookInfo(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to get webhook info")
	} else if info.LastErrorDate != 0 {
		s.log.Error().Str("error_message", info.LastErrorMessage).Msg("Telegram webhook has a last error")
	}

	mux := http.NewServeMux()
	updates := make(chan tgbotapi.Update, s.cfg.Polling.WorkerPoolSize*16)
	mux.HandleFunc(webhookPath, func(w http.ResponseWriter, r *http.Request) {
		update, err := s.api.HandleUpdate(r)
		if err != nil {
			s.log.Warn().Err(err).Msg("Rejected webhook payload")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		updates <- *update
	})

	listenAddr := fmt.Sprintf("127.0.0.1:%d", s.cfg.Webhook.ListenPort)
	httpServer := &http.Server{Addr: listenAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Webhook HTTP server failed")
		}
	}()

	s.log.Info().Str("addr", listenAddr).Msg("Webhook update listener started")
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.log.Error().Err(err).Msg("Webhook server shutdown error")
			}
			s.log.Info().Msg("Webhook server stopped gracefully")
			return nil
		case update := <-updates:
			s.publishUpdate(ctx, update)
		}
	}
}

// publishUpdate picks the topic from the update kind.
func (s *ModeratorServer) publishUpdate(ctx context.Context, update tgbotapi.Update) {
	var topic string
	switch {
	case update.CallbackQuery != nil:
		topic = ports.TopicModCallbackQuery
	case update.Message != nil:
		topic = ports.TopicModMessage
	default:
		return
	}
	if err := s.bus.Publish(ctx, topic, update); err != nil {
		s.log.Error().Err(err).Str("topic", topic).Msg("Failed to publish update")
	}
}
