package handlers

import (
	"ERecyclo/internal/bot/messages"
	"ERecyclo/internal/bot/moderator"
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PendingCommand re-sends a card for everything still waiting on a moderator.
type PendingCommand struct {
	users        ports.UserRepository
	verification ports.VerificationService
	fraud        ports.FraudService
	products     ports.ProductRepository
	vendors      ports.VendorRepository
	bot          ports.BotClientPort
	log          zerolog.Logger
}

func init() {
	moderator.RegisterCommand(NewPendingCommand)
}

func NewPendingCommand(deps moderator.HandlerDeps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &PendingCommand{
		users:        deps.Users,
		verification: deps.Verification,
		fraud:        deps.Fraud,
		products:     deps.Products,
		vendors:      deps.Vendors,
		bot:          deps.Bot,
		log:          baseLogger.With().Str("component", "pending_command").Logger(),
	}
}

func (h *PendingCommand) Command() string {
	return "pending"
}

func (h *PendingCommand) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	vendors, err := h.verification.PendingVendors(ctx)
	if err != nil {
		return fmt.Errorf("pending vendors: %w", err)
	}
	collectors, err := h.verification.PendingCollectors(ctx)
	if err != nil {
		return fmt.Errorf("pending collectors: %w", err)
	}
	flags, err := h.fraud.OpenFlags(ctx)
	if err != nil {
		return fmt.Errorf("open flags: %w", err)
	}

	h.log.Info().
		Str("admin_id", admin.ID.String()).
		Int("vendors", len(vendors)).
		Int("collectors", len(collectors)).
		Int("flags", len(flags)).
		Msg("Listing pending moderation work")

	summary := fmt.Sprintf("📋 *Pending*\nVendors: %d\nCollectors: %d\nOpen fraud flags: %d",
		len(vendors), len(collectors), len(flags))
	if _, err := h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(summary).Build()); err != nil {
		return err
	}

	for _, v := range vendors {
		text, buttons := messages.VendorCard(h.lookupUser(ctx, v.UserID), v)
		h.send(ctx, update.ChatID, text, buttons)
	}
	for _, c := range collectors {
		text, buttons := messages.CollectorCard(h.lookupUser(ctx, c.UserID), c)
		h.send(ctx, update.ChatID, text, buttons)
	}
	for _, f := range flags {
		text, buttons := messages.FraudCard(h.flaggedEvent(ctx, f))
		h.send(ctx, update.ChatID, text, buttons)
	}
	return nil
}

// flaggedEvent fills in display names; missing ones are left blank.
func (h *PendingCommand) flaggedEvent(ctx context.Context, f *domain.FraudFlag) ports.FlaggedEvent {
	e := ports.FlaggedEvent{Flag: f}
	if p, err := h.products.GetByID(ctx, f.ProductID); err == nil {
		e.ProductName = p.Name
	}
	if v, err := h.vendors.GetByID(ctx, f.VendorID); err == nil {
		e.VendorName = v.CompanyName
	}
	return e
}

func (h *PendingCommand) lookupUser(ctx context.Context, id uuid.UUID) *domain.User {
	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", id.String()).Msg("Card rendered without contact details")
		return nil
	}
	return u
}

func (h *PendingCommand) send(ctx context.Context, chatID int64, text string, buttons [][]ports.Button) {
	params := messages.NewBuilder(chatID).WithText(text).WithInlineButtons(buttons).Build()
	if _, err := h.bot.SendMessage(ctx, params); err != nil {
		h.log.Error().Err(err).Msg("Failed to send review card")
	}
}
