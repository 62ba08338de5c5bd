package telegram

import (
	"ERecyclo/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the subset of *tgbotapi.BotAPI the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// moderatorCommands is the menu shown to moderators.
var moderatorCommands = []tgbotapi.BotCommand{
	{Command: "pending", Description: "List pending vendors, collectors and open fraud flags"},
	{Command: "help", Description: "How to review from this chat"},
}

// tgClient implements the BotClientPort.
type tgClient struct {
	api sender
	log zerolog.Logger
}

var _ ports.BotClientPort = (*tgClient)(nil)

// NewClient creates a new Telegram client adapter.
func NewClient(api *tgbotapi.BotAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	return newClient(api, baseLogger)
}

func newClient(api sender, baseLogger *zerolog.Logger) *tgClient {
	return &tgClient{
		api: api,
		log: baseLogger.With().Str("component", "tg_client").Logger(),
	}
}

// SendMessage returns the id of the sent message so it can be edited later.
func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil {
		msg.ReplyMarkup = buildInlineKeyboard(params.ReplyMarkup.Buttons)
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return 0, err
	}
	return sent.MessageID, nil
}

// EditMessageText replaces a review card once it has been acted on. A nil
// ReplyMarkup drops the buttons.
func (c *tgClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	msg := tgbotapi.NewEditMessageText(params.ChatID, params.MessageID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil {
		markup := buildInlineKeyboard(params.ReplyMarkup.Buttons)
		msg.ReplyMarkup = &markup
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Int("message_id", params.MessageID).
			Msg("Failed to edit message text")
		return err
	}
	return nil
}

// AnswerCallbackQuery stops the spinner on the pressed button.
func (c *tgClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	cb := tgbotapi.NewCallback(params.CallbackQueryID, params.Text)
	cb.ShowAlert = params.ShowAlert

	if _, err := c.api.Request(cb); err != nil {
		c.log.Error().Err(err).
			Str("callback_query_id", params.CallbackQueryID).
			Msg("Failed to answer callback query")
		return err
	}
	return nil
}

func (c *tgClient) SetMenuCommands(ctx context.Context) error {
	if _, err := c.api.Request(tgbotapi.NewSetMyCommands(moderatorCommands...)); err != nil {
		c.log.Error().Err(err).Msg("Failed to set menu commands")
		return err
	}
	return nil
}

func buildInlineKeyboard(buttons [][]ports.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, buttonRow := range buttons {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttonRow))
		for _, btn := range buttonRow {
			if btn.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
