package bot

import (
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"RelayBot/internal/core/services"
	"context"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Router is the "Bot Facade." It holds all "plugins"
// and routes incoming updates to the correct handler.
type Router struct {
	log              zerolog.Logger
	bot              ports.BotClientPort
	sessions         *services.SessionStore
	renderer         *services.Renderer
	pending          *PendingInputs
	commandHandlers  map[string]ports.CommandHandler
	callbackHandlers []ports.CallbackHandler // longest prefix first
	inputHandlers    map[string]ports.InputHandler
	messageHandler   ports.MessageHandler
}

// NewRouter creates a new bot facade/router.
func NewRouter(deps *Deps, baseLogger *zerolog.Logger) *Router {
	return &Router{
		log:             baseLogger.With().Str("component", "router").Logger(),
		bot:             deps.Bot,
		sessions:        deps.Sessions,
		renderer:        deps.Renderer,
		pending:         deps.Pending,
		commandHandlers: make(map[string]ports.CommandHandler),
		inputHandlers:   make(map[string]ports.InputHandler),
	}
}

// RegisterCommandHandler adds a "plugin" to the router.
func (r *Router) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new command handler")
}

// RegisterCallbackHandler adds a "plugin" to the router. When prefixes
// overlap the longest one wins.
func (r *Router) RegisterCallbackHandler(handler ports.CallbackHandler) {
	r.callbackHandlers = append(r.callbackHandlers, handler)
	sort.SliceStable(r.callbackHandlers, func(i, j int) bool {
		return len(r.callbackHandlers[i].Prefix()) > len(r.callbackHandlers[j].Prefix())
	})
	r.log.Info().Str("prefix", handler.Prefix()).Msg("Registered new callback handler")
}

// RegisterInputHandler adds a handler for answers to a prompt.
func (r *Router) RegisterInputHandler(handler ports.InputHandler) {
	r.inputHandlers[handler.Awaits()] = handler
	r.log.Info().Str("awaits", handler.Awaits()).Msg("Registered new input handler")
}

// SetMessageHandler registers the single, global message handler
func (r *Router) SetMessageHandler(handler ports.MessageHandler) {
	r.messageHandler = handler
}

// HandleUpdate is the main entry point for a new update from Telegram.
func (r *Router) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	// 1. Convert to our generic BotUpdate
	botUpdate, isSupported := parseUpdate(update)
	if !isSupported {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Received unsupported update type")
		return
	}

	// 2. Add logger context
	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	// 3. Route known commands first. A command abandons any open prompt.
	if botUpdate.CallbackData == nil && botUpdate.Command != "" {
		if handler, ok := r.commandHandlers[botUpdate.Command]; ok {
			r.pending.Cancel(botUpdate.UserID)
			ctxLogger.Info().Str("handler", botUpdate.Command).Msg("Routing to command handler")
			if err := handler.Handle(ctx, botUpdate); err != nil {
				ctxLogger.Error().Err(err).Msg("Command handler failed")
			}
			return
		}
	}

	// 4. Every other interaction refreshes the session
	r.sessions.Upsert(botUpdate.UserID, domain.DisplayInfo{
		FirstName: botUpdate.FirstName,
		LastName:  botUpdate.LastName,
		Username:  botUpdate.Username,
	})

	// 5. Route callbacks
	if botUpdate.CallbackData != nil {
		r.routeCallback(ctx, ctxLogger, botUpdate)
		return
	}

	// 6. Answers to a prompt
	if kind, ok := r.pending.Take(botUpdate.UserID); ok {
		if handler, ok := r.inputHandlers[kind]; ok {
			ctxLogger.Info().Str("awaits", kind).Msg("Routing to input handler")
			if err := handler.Handle(ctx, botUpdate); err != nil {
				ctxLogger.Error().Err(err).Msg("Input handler failed")
			}
			return
		}
		ctxLogger.Warn().Str("awaits", kind).Msg("No input handler found")
	}

	// 7. Route all other messages (text and attachments)
	if r.messageHandler != nil {
		if botUpdate.Attachment != nil {
			ctxLogger.Info().Str("kind", string(botUpdate.Attachment.Kind)).Msg("Routing attachment to message handler")
		} else {
			ctxLogger.Info().Msg("Routing text message to message handler")
		}
		if err := r.messageHandler.Handle(ctx, botUpdate); err != nil {
			ctxLogger.Error().Err(err).Msg("Message handler failed")
		}
		return
	}

	// If we're here, it's an unhandled message
	ctxLogger.Info().Msg("Received unhandled message (no handler)")
}

func (r *Router) routeCallback(ctx context.Context, log zerolog.Logger, update *ports.BotUpdate) {
	data := *update.CallbackData
	for _, handler := range r.callbackHandlers {
		if !strings.HasPrefix(data, handler.Prefix()) {
			continue
		}
		log.Info().Str("handler", handler.Prefix()).Str("data", data).Msg("Routing to callback handler")
		if err := handler.Handle(ctx, update); err != nil {
			log.Error().Err(err).Msg("Callback handler failed")
			lang := r.sessions.Language(update.UserID)
			_ = r.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
				CallbackQueryID: update.CallbackQueryID,
				Text:            r.renderer.Render(lang, "callback_error", nil),
				ShowAlert:       true,
			})
		}
		return
	}

	log.Warn().Str("data", data).Msg("No callback handler found")
	_ = r.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{CallbackQueryID: update.CallbackQueryID})
}

// parseUpdate converts a tgbotapi.Update into our internal, simplified struct.
func parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.From != nil {
		botUpdate := &ports.BotUpdate{
			ChatID:          cb.From.ID,
			UserID:          cb.From.ID,
			FirstName:       cb.From.FirstName,
			LastName:        cb.From.LastName,
			Username:        cb.From.UserName,
			CallbackQueryID: cb.ID,
			CallbackData:    &cb.Data,
		}
		if cb.Message != nil {
			botUpdate.MessageID = cb.Message.MessageID
			if cb.Message.Chat != nil {
				botUpdate.ChatID = cb.Message.Chat.ID
			}
		}
		return botUpdate, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil, false
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	return &ports.BotUpdate{
		MessageID:   msg.MessageID,
		ChatID:      msg.Chat.ID,
		UserID:      msg.From.ID,
		FirstName:   msg.From.FirstName,
		LastName:    msg.From.LastName,
		Username:    msg.From.UserName,
		Text:        text,
		Command:     msg.Command(),
		CommandArgs: strings.TrimSpace(msg.CommandArguments()),
		Attachment:  parseAttachment(msg),
	}, true
}

// parseAttachment picks the single file carried by msg. Telegram sends
// photos in several sizes; the largest is the last one.
func parseAttachment(msg *tgbotapi.Message) *ports.Attachment {
	switch {
	case msg.Document != nil:
		return &ports.Attachment{
			Kind:     ports.FileDocument,
			FileID:   msg.Document.FileID,
			FileName: orDefault(msg.Document.FileName, "document.bin"),
			MimeType: msg.Document.MimeType,
			FileSize: int64(msg.Document.FileSize),
		}
	case len(msg.Photo) > 0:
		best := msg.Photo[len(msg.Photo)-1]
		return &ports.Attachment{
			Kind:     ports.FilePhoto,
			FileID:   best.FileID,
			FileName: "photo.jpg",
			MimeType: "image/jpeg",
			FileSize: int64(best.FileSize),
		}
	case msg.Video != nil:
		return &ports.Attachment{
			Kind:     ports.FileVideo,
			FileID:   msg.Video.FileID,
			FileName: orDefault(msg.Video.FileName, "video.mp4"),
			MimeType: msg.Video.MimeType,
			FileSize: int64(msg.Video.FileSize),
		}
	case msg.Audio != nil:
		return &ports.Attachment{
			Kind:     ports.FileAudio,
			FileID:   msg.Audio.FileID,
			FileName: orDefault(msg.Audio.FileName, "audio.mp3"),
			MimeType: msg.Audio.MimeType,
			FileSize: int64(msg.Audio.FileSize),
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
