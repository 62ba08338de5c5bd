package handlers

import (
	"ERecyclo/internal/bot/messages"
	"ERecyclo/internal/bot/moderator"
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type VendorReviewHandler struct {
	verification ports.VerificationService
	bot          ports.BotClientPort
	log          zerolog.Logger
}

func init() {
	moderator.RegisterCallback(NewVendorReviewHandler)
}

// NewVendorReviewHandler handles the vendor card buttons.
func NewVendorReviewHandler(deps moderator.HandlerDeps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &VendorReviewHandler{
		verification: deps.Verification,
		bot:          deps.Bot,
		log:          baseLogger.With().Str("component", "vendor_review_handler").Logger(),
	}
}

func (h *VendorReviewHandler) Prefix() string {
	return messages.VendorPrefix
}

func (h *VendorReviewHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	rawAction, vendorID, err := messages.ParseCallbackData(messages.VendorPrefix, *update.CallbackData)
	if err != nil {
		failCallback(ctx, h.bot, &h.log, update, err)
		return err
	}
	action, err := domain.ParseVerificationAction(rawAction)
	if err != nil {
		failCallback(ctx, h.bot, &h.log, update, err)
		return err
	}

	log := h.log.With().
		Str("vendor_id", vendorID.String()).
		Str("action", string(action)).
		Str("admin_id", admin.ID.String()).
		Logger()

	res, err := h.verification.ApplyVendorAction(ctx, admin.ID, vendorID, action)
	if err != nil {
		log.Warn().Err(err).Msg("Vendor action failed")
		failCallback(ctx, h.bot, &log, update, err)
		return nil
	}

	log.Info().Str("status", string(res.Status)).Msg("Vendor action applied")
	outcome := fmt.Sprintf("🏭 Vendor `%s`\n*%s* by %s\n%s",
		vendorID,
		messages.Escape(string(res.Status)),
		messages.Escape(admin.FullName()),
		messages.Escape(res.Message),
	)
	finishCallback(ctx, h.bot, &log, update, outcome)
	return nil
}
