package services

import (
	"RelayBot/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// LanguageResolver returns the language a user reads.
type LanguageResolver interface {
	Language(userID int64) string
}

var _ LanguageResolver = (*SessionStore)(nil)

// UserNotifier renders a template in the user's language and sends it.
type UserNotifier struct {
	bot      ports.BotClientPort
	renderer *Renderer
	langs    LanguageResolver
	log      zerolog.Logger
}

// NewUserNotifier creates a notifier.
func NewUserNotifier(
	bot ports.BotClientPort,
	renderer *Renderer,
	langs LanguageResolver,
	baseLogger *zerolog.Logger,
) *UserNotifier {
	return &UserNotifier{
		bot:      bot,
		renderer: renderer,
		langs:    langs,
		log:      baseLogger.With().Str("component", "user_notifier").Logger(),
	}
}

// Notify sends key to userID. Users chat with the bot privately, so the
// user id doubles as the chat id.
func (n *UserNotifier) Notify(ctx context.Context, userID int64, key string, params map[string]any) error {
	text := n.renderer.Render(n.langs.Language(userID), key, params)
	_, err := n.bot.SendMessage(ctx, ports.SendMessageParams{
		ChatID:    userID,
		Text:      text,
		ParseMode: ports.ParseModeHTML,
	})
	if err != nil {
		n.log.Warn().Err(err).Int64("user_id", userID).Str("key", key).Msg("Failed to notify user")
		return fmt.Errorf("notify %d (%s): %w", userID, key, err)
	}
	return nil
}
