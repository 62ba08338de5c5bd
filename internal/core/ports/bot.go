package ports

import (
	"ERecyclo/internal/core/domain"
	"context"
)

// --- Bot Message Structures ---

// Button represents a single inline keyboard button.
type Button struct {
	Text string
	Data string // For callbacks
	URL  string // For URL buttons
}

// ReplyMarkup is an inline keyboard.
type ReplyMarkup struct {
	Buttons [][]Button
}

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string // e.g., "MarkdownV2" or "HTML"
	ReplyMarkup *ReplyMarkup
}

// EditMessageParams replaces the text of a sent message.
type EditMessageParams struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup // nil removes the keyboard
}

// AnswerCallbackParams stops the client-side spinner of a button press.
type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// --- Bot Client Port (Outbound) ---

// BotClientPort defines the interface for *sending* messages.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) (messageID int, err error)
	EditMessageText(ctx context.Context, params EditMessageParams) error
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	SetMenuCommands(ctx context.Context) error
}

// --- Bot Handler Port (Inbound) ---

// BotUpdate represents a simplified, generic update.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	Text            string
	Command         string
	CallbackQueryID string
	CallbackData    *string
}

// CommandHandler defines the "plugin" interface for handling bot commands.
type CommandHandler interface {
	// Command returns the command string without the slash (e.g., "pending")
	Command() string
	Handle(ctx context.Context, update *BotUpdate, admin *domain.User) error
}

// CallbackHandler defines the interface for handling callback queries.
type CallbackHandler interface {
	// Prefix returns the prefix for the callback (e.g., "vendor_")
	Prefix() string
	Handle(ctx context.Context, update *BotUpdate, admin *domain.User) error
}
