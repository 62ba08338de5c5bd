package messages

import (
	"ERecyclo/internal/core/ports"
	"strings"
)

const ParseModeMarkdownV2 = "MarkdownV2"

// Builder helps construct SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder creates a new message builder.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: ParseModeMarkdownV2,
		},
	}
}

// WithText sets the message text. It must already be escaped for the parse mode.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithParseMode overrides the default parse mode.
func (b *Builder) WithParseMode(mode string) *Builder {
	b.params.ParseMode = mode
	return b
}

// WithInlineButtons adds a set of inline buttons.
func (b *Builder) WithInlineButtons(buttons [][]ports.Button) *Builder {
	if len(buttons) == 0 {
		b.params.ReplyMarkup = nil
		return b
	}
	b.params.ReplyMarkup = &ports.ReplyMarkup{Buttons: buttons}
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
	"\\", "\\\\",
)

// Escape makes user supplied text safe for MarkdownV2.
func Escape(s string) string {
	return markdownEscaper.Replace(s)
}
