package moderator

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ModeratorRouter turns Telegram updates from the bus into handler calls.
// Only admins whose account carries the sender's telegram_id get through.
type ModeratorRouter struct {
	log              zerolog.Logger
	userRepo         ports.UserRepository
	botClient        ports.BotClientPort
	commandHandlers  map[string]ports.CommandHandler
	callbackHandlers map[string]ports.CallbackHandler
}

// NewModeratorRouter creates the router and subscribes it to the update topics.
func NewModeratorRouter(
	userRepo ports.UserRepository,
	botClient ports.BotClientPort,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *ModeratorRouter {
	r := &ModeratorRouter{
		log:              baseLogger.With().Str("component", "moderator_router").Logger(),
		userRepo:         userRepo,
		botClient:        botClient,
		commandHandlers:  make(map[string]ports.CommandHandler),
		callbackHandlers: make(map[string]ports.CallbackHandler),
	}
	bus.Subscribe(ports.TopicModMessage, r.handleEvent)
	bus.Subscribe(ports.TopicModCallbackQuery, r.handleEvent)
	return r
}

func (r *ModeratorRouter) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered moderator command")
}

func (r *ModeratorRouter) RegisterCallbackHandler(handler ports.CallbackHandler) {
	prefix := handler.Prefix()
	r.callbackHandlers[prefix] = handler
	r.log.Info().Str("prefix", prefix).Msg("Registered moderator callback")
}

func (r *ModeratorRouter) handleEvent(ctx context.Context, event ports.Event) error {
	update, ok := event.Data.(tgbotapi.Update)
	if !ok {
		return fmt.Errorf("moderator router: unexpected payload %T on %s", event.Data, event.Topic)
	}
	r.HandleUpdate(ctx, &update)
	return nil
}

// HandleUpdate authorises the sender and dispatches the update.
func (r *ModeratorRouter) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	botUpdate, ok := parseUpdate(update)
	if !ok {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Ignoring unsupported update type")
		return
	}

	ctxLogger := r.log.With().
		Int64("tg_user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	admin, err := r.userRepo.GetByTelegramID(ctx, botUpdate.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		ctxLogger.Error().Err(err).Msg("Failed to get user for security check")
		return
	}
	if admin == nil || admin.Role != domain.RoleAdmin || !admin.IsActive {
		ctxLogger.Warn().Msg("Unauthorized user tried to access moderator bot")
		if botUpdate.CallbackQueryID != "" {
			_ = r.botClient.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
				CallbackQueryID: botUpdate.CallbackQueryID,
				Text:            "You are not allowed to moderate.",
				ShowAlert:       true,
			})
		}
		return
	}
	ctxLogger = ctxLogger.With().Str("admin_id", admin.ID.String()).Logger()

	if botUpdate.CallbackData != nil {
		for prefix, handler := range r.callbackHandlers {
			if strings.HasPrefix(*botUpdate.CallbackData, prefix) {
				ctxLogger.Info().Str("prefix", prefix).Msg("Routing to moderator callback handler")
				if err := handler.Handle(ctx, botUpdate, admin); err != nil {
					ctxLogger.Error().Err(err).Msg("Moderator callback handler failed")
				}
				return
			}
		}
		ctxLogger.Warn().Str("data", *botUpdate.CallbackData).Msg("No handler for callback")
		return
	}

	if botUpdate.Command != "" {
		if handler, ok := r.commandHandlers[botUpdate.Command]; ok {
			ctxLogger.Info().Str("command", botUpdate.Command).Msg("Routing to moderator command handler")
			if err := handler.Handle(ctx, botUpdate, admin); err != nil {
				ctxLogger.Error().Err(err).Msg("Moderator command handler failed")
			}
			return
		}
	}

	ctxLogger.Debug().Msg("Moderator bot received unhandled update")
}

func parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.From != nil {
		bu := &ports.BotUpdate{
			UserID:          cb.From.ID,
			CallbackQueryID: cb.ID,
			CallbackData:    &cb.Data,
		}
		if cb.Message != nil {
			bu.MessageID = cb.Message.MessageID
			if cb.Message.Chat != nil {
				bu.ChatID = cb.Message.Chat.ID
			}
		}
		return bu, true
	}

	if msg := update.Message; msg != nil && msg.From != nil && msg.Chat != nil {
		return &ports.BotUpdate{
			MessageID: msg.MessageID,
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			Text:      msg.Text,
			Command:   msg.Command(),
		}, true
	}

	return nil, false
}
