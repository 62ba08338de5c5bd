package handlers

import (
	"ERecyclo/internal/bot/messages"
	"ERecyclo/internal/bot/moderator"
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

const helpText = "🛡 *E\\-Recyclo moderation*\n\n" +
	"New vendors, collectors and fraud flags are posted here with action buttons\\.\n\n" +
	"/pending \\- resend everything still waiting for a decision\n" +
	"/help \\- show this message"

type HelpCommand struct {
	bot ports.BotClientPort
	log zerolog.Logger
}

func init() {
	moderator.RegisterCommand(NewHelpCommand)
}

func NewHelpCommand(deps moderator.HandlerDeps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &HelpCommand{
		bot: deps.Bot,
		log: baseLogger.With().Str("component", "help_command").Logger(),
	}
}

func (h *HelpCommand) Command() string {
	return "help"
}

func (h *HelpCommand) Handle(ctx context.Context, update *ports.BotUpdate, _ *domain.User) error {
	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(helpText).Build())
	return err
}
