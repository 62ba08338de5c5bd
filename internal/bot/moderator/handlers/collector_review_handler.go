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

// rejectReason is recorded when a collector is rejected from the bot.
const rejectReason = "Rejected by moderator"

type CollectorReviewHandler struct {
	verification ports.VerificationService
	bot          ports.BotClientPort
	log          zerolog.Logger
}

func init() {
	moderator.RegisterCallback(NewCollectorReviewHandler)
}

func NewCollectorReviewHandler(deps moderator.HandlerDeps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &CollectorReviewHandler{
		verification: deps.Verification,
		bot:          deps.Bot,
		log:          baseLogger.With().Str("component", "collector_review_handler").Logger(),
	}
}

func (h *CollectorReviewHandler) Prefix() string {
	return messages.CollectorPrefix
}

func (h *CollectorReviewHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	rawAction, collectorID, err := messages.ParseCallbackData(messages.CollectorPrefix, *update.CallbackData)
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
		Str("collector_id", collectorID.String()).
		Str("action", string(action)).
		Str("admin_id", admin.ID.String()).
		Logger()

	reason := ""
	if action == domain.ActionReject {
		reason = rejectReason
	}
	res, err := h.verification.ApplyCollectorAction(ctx, admin.ID, collectorID, action, reason)
	if err != nil {
		log.Warn().Err(err).Msg("Collector action failed")
		failCallback(ctx, h.bot, &log, update, err)
		return nil
	}

	log.Info().Str("status", string(res.Status)).Msg("Collector action applied")
	outcome := fmt.Sprintf("🚚 Collector `%s`\n*%s* by %s\n%s",
		collectorID,
		messages.Escape(string(res.Status)),
		messages.Escape(admin.FullName()),
		messages.Escape(res.Message),
	)
	finishCallback(ctx, h.bot, &log, update, outcome)
	return nil
}
