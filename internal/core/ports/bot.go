package ports

import (
	"context"
)

// Parse modes understood by the transport.
const (
	ParseModeHTML  = "HTML"
	ParseModePlain = ""
)

// --- Bot Message Structures ---

// Button represents a single button in a keyboard.
type Button struct {
	Text string
	Data string // For callbacks
	URL  string // For URL buttons
}

// ReplyMarkup represents an inline keyboard.
type ReplyMarkup struct {
	Buttons [][]Button
}

// SendMessageParams holds all possible options for sending a text message.
type SendMessageParams struct {
	ChatID           int64
	Text             string
	ParseMode        string
	ReplyToMessageID int // 0 means "not a reply"
	ReplyMarkup      *ReplyMarkup
}

// FileKind selects the transport call used to re-send a file handle.
type FileKind string

const (
	FileDocument FileKind = "document"
	FilePhoto    FileKind = "photo"
	FileVideo    FileKind = "video"
	FileAudio    FileKind = "audio"
)

// SendFileParams re-sends an already uploaded file (by handle) or a local file.
type SendFileParams struct {
	ChatID      int64
	Kind        FileKind
	FileID      string // Telegram file handle
	Path        string // Local path, used when FileID is empty
	Caption     string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// AnswerCallbackParams stops the spinner on an inline button.
type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// BotCommand is one entry of the "/" menu.
type BotCommand struct {
	Command     string // Without the "/"
	Description string
}

// BotIdentity is what getMe returns.
type BotIdentity struct {
	ID       int64
	UserName string
}

// --- Bot Client Port (Outbound) ---

// BotClientPort defines the interface for *sending* messages.
// Every method returns the transport error unchanged; callers decide
// whether a failure is isolated or fatal.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) (int, error)
	SendFile(ctx context.Context, params SendFileParams) (int, error)
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	// SetMenuCommands sets the "/" menu for one chat, or the default menu
	// when chatID is 0.
	SetMenuCommands(ctx context.Context, chatID int64, commands []BotCommand) error
	Identity(ctx context.Context) (BotIdentity, error)
}

// --- Bot Handler Port (Inbound) ---

// Attachment is a file attached to an inbound message.
type Attachment struct {
	Kind     FileKind
	FileID   string
	FileName string
	MimeType string
	FileSize int64
}

// BotUpdate represents a simplified, generic update.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	FirstName       string
	LastName        string
	Username        string
	Text            string
	Command         string
	CommandArgs     string
	CallbackQueryID string
	CallbackData    *string
	Attachment      *Attachment
}

// CommandHandler handles one slash command.
type CommandHandler interface {
	// Command returns the command string without the "/" (e.g., "start")
	Command() string
	Handle(ctx context.Context, update *BotUpdate) error
}

// CallbackHandler handles callback queries that share a prefix.
type CallbackHandler interface {
	// Prefix returns the prefix for the callback (e.g., "lang_")
	Prefix() string
	Handle(ctx context.Context, update *BotUpdate) error
}

// MessageHandler handles every non-command message (text or attachment).
type MessageHandler interface {
	Handle(ctx context.Context, update *BotUpdate) error
}

// InputHandler consumes the next message of a user who was prompted for
// free-form input.
type InputHandler interface {
	// Awaits names the prompt this handler answers (e.g., "admin_id")
	Awaits() string
	Handle(ctx context.Context, update *BotUpdate) error
}
