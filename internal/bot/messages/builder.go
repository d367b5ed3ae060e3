package messages

import "RelayBot/internal/core/ports"

// Builder helps construct complex SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder creates a new message builder.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: ports.ParseModeHTML, // Every template is HTML
		},
	}
}

// WithText sets the message text.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithParseMode overrides the default parse mode.
func (b *Builder) WithParseMode(mode string) *Builder {
	b.params.ParseMode = mode
	return b
}

// WithReplyTo quotes the given message.
func (b *Builder) WithReplyTo(messageID int) *Builder {
	b.params.ReplyToMessageID = messageID
	return b
}

// WithInlineButtons adds a set of inline buttons.
func (b *Builder) WithInlineButtons(buttons [][]ports.Button) *Builder {
	b.params.ReplyMarkup = &ports.ReplyMarkup{Buttons: buttons}
	return b
}

// WithMarkup attaches a prepared keyboard. A nil markup is ignored.
func (b *Builder) WithMarkup(markup *ports.ReplyMarkup) *Builder {
	if markup != nil {
		b.params.ReplyMarkup = markup
	}
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}
