package handlers

import (
	"ERecyclo/internal/bot/messages"
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// userFacingError turns a service error into a short alert for the admin.
// Unknown errors are reported as internal so details stay in the log.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "This record no longer exists."
	case errors.Is(err, domain.ErrInvalidTransition):
		return "That action is not allowed in the current status."
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return "Another moderator already handled this."
	case errors.Is(err, domain.ErrConflict):
		return "The record changed meanwhile, try again."
	case errors.Is(err, domain.ErrInvalidInput):
		return "The button data is not valid."
	default:
		return "Something went wrong, check the server log."
	}
}

// finishCallback answers the button press and replaces the card with the
// outcome, dropping its keyboard.
func finishCallback(ctx context.Context, bot ports.BotClientPort, log *zerolog.Logger, update *ports.BotUpdate, outcome string) {
	if err := bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            "Done",
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to answer callback")
	}
	if err := bot.EditMessageText(ctx, ports.EditMessageParams{
		ChatID:    update.ChatID,
		MessageID: update.MessageID,
		Text:      outcome,
		ParseMode: messages.ParseModeMarkdownV2,
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to edit review card")
	}
}

// failCallback shows the error as an alert and keeps the card so the admin can retry.
func failCallback(ctx context.Context, bot ports.BotClientPort, log *zerolog.Logger, update *ports.BotUpdate, err error) {
	if aerr := bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            userFacingError(err),
		ShowAlert:       true,
	}); aerr != nil {
		log.Warn().Err(aerr).Msg("Failed to answer callback")
	}
}
