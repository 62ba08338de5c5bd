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

type FraudResolutionHandler struct {
	fraud ports.FraudService
	bot   ports.BotClientPort
	log   zerolog.Logger
}

func init() {
	moderator.RegisterCallback(NewFraudResolutionHandler)
}

// NewFraudResolutionHandler resolves flags from the fraud card buttons.
func NewFraudResolutionHandler(deps moderator.HandlerDeps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &FraudResolutionHandler{
		fraud: deps.Fraud,
		bot:   deps.Bot,
		log:   baseLogger.With().Str("component", "fraud_resolution_handler").Logger(),
	}
}

func (h *FraudResolutionHandler) Prefix() string {
	return messages.FraudPrefix
}

func (h *FraudResolutionHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	rawDecision, flagID, err := messages.ParseCallbackData(messages.FraudPrefix, *update.CallbackData)
	if err != nil {
		failCallback(ctx, h.bot, &h.log, update, err)
		return err
	}
	decision, err := domain.ParseFraudDecision(rawDecision)
	if err != nil {
		failCallback(ctx, h.bot, &h.log, update, err)
		return err
	}

	log := h.log.With().
		Str("flag_id", flagID.String()).
		Str("decision", string(decision)).
		Str("admin_id", admin.ID.String()).
		Logger()

	flag, err := h.fraud.ResolveFlag(ctx, admin.ID, flagID, decision, "Resolved from moderator chat")
	if err != nil {
		log.Warn().Err(err).Msg("Fraud resolution failed")
		failCallback(ctx, h.bot, &log, update, err)
		return nil
	}

	log.Info().Msg("Fraud flag resolved")
	verdict := "vendor valuation accepted"
	if decision == domain.DecisionVendorFraud {
		verdict = "vendor penalised for fraud"
	}
	outcome := fmt.Sprintf("🚨 Flag `%s`\n*Resolved:* %s by %s",
		flag.ID,
		messages.Escape(verdict),
		messages.Escape(admin.FullName()),
	)
	finishCallback(ctx, h.bot, &log, update, outcome)
	return nil
}
