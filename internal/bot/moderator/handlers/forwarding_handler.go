package handlers

import (
	"ERecyclo/internal/bot/messages"
	"ERecyclo/internal/bot/moderator"
	"ERecyclo/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ForwardingHandler posts review cards to the moderator chat as events arrive.
type ForwardingHandler struct {
	bot    ports.BotClientPort
	chatID int64
	log    zerolog.Logger
}

func init() {
	moderator.RegisterSubscriber(NewForwardingHandler)
}

func NewForwardingHandler(deps moderator.HandlerDeps, baseLogger *zerolog.Logger) {
	h := &ForwardingHandler{
		bot:    deps.Bot,
		chatID: deps.Cfg.Moderator.ReviewChatID,
		log:    baseLogger.With().Str("component", "forwarding_handler").Logger(),
	}
	deps.Bus.Subscribe(ports.TopicVendorRegistered, h.handleRegistration)
	deps.Bus.Subscribe(ports.TopicCollectorRegistered, h.handleRegistration)
	deps.Bus.Subscribe(ports.TopicFraudFlagged, h.handleFlagged)
	deps.Bus.Subscribe(ports.TopicVendorStatusChanged, h.handleStatusChanged)
	deps.Bus.Subscribe(ports.TopicCollectorStatusChanged, h.handleStatusChanged)
}

func (h *ForwardingHandler) handleRegistration(ctx context.Context, event ports.Event) error {
	e, ok := event.Data.(ports.RegistrationEvent)
	if !ok {
		return fmt.Errorf("forwarding: unexpected payload %T on %s", event.Data, event.Topic)
	}

	var text string
	var buttons [][]ports.Button
	switch {
	case e.Vendor != nil:
		text, buttons = messages.VendorCard(e.User, e.Vendor)
	case e.Collector != nil:
		text, buttons = messages.CollectorCard(e.User, e.Collector)
	default:
		return fmt.Errorf("forwarding: registration event without profile on %s", event.Topic)
	}
	return h.send(ctx, event.Topic, text, buttons)
}

func (h *ForwardingHandler) handleFlagged(ctx context.Context, event ports.Event) error {
	e, ok := event.Data.(ports.FlaggedEvent)
	if !ok || e.Flag == nil {
		return fmt.Errorf("forwarding: unexpected payload %T on %s", event.Data, event.Topic)
	}
	text, buttons := messages.FraudCard(e)
	return h.send(ctx, event.Topic, text, buttons)
}

// handleStatusChanged leaves an audit line in the chat without buttons.
func (h *ForwardingHandler) handleStatusChanged(ctx context.Context, event ports.Event) error {
	e, ok := event.Data.(ports.StatusChangedEvent)
	if !ok {
		return fmt.Errorf("forwarding: unexpected payload %T on %s", event.Data, event.Topic)
	}
	kind := "Vendor"
	if event.Topic == ports.TopicCollectorStatusChanged {
		kind = "Collector"
	}
	text := fmt.Sprintf("ℹ️ %s `%s`: %s → %s \\(%s\\)",
		kind,
		e.EntityID,
		messages.Escape(string(e.From)),
		messages.Escape(string(e.To)),
		messages.Escape(string(e.Action)),
	)
	return h.send(ctx, event.Topic, text, nil)
}

func (h *ForwardingHandler) send(ctx context.Context, topic, text string, buttons [][]ports.Button) error {
	params := messages.NewBuilder(h.chatID).WithText(text).WithInlineButtons(buttons).Build()
	msgID, err := h.bot.SendMessage(ctx, params)
	if err != nil {
		h.log.Error().Err(err).Str("topic", topic).Msg("Failed to forward event to moderators")
		return err
	}
	h.log.Debug().Str("topic", topic).Int("message_id", msgID).Msg("Forwarded event to moderators")
	return nil
}
