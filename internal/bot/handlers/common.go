package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/bot/messages"
	"RelayBot/internal/core/ports"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// base carries what every handler shares.
type base struct {
	deps *bot.Deps
	log  zerolog.Logger
}

func newBase(deps *bot.Deps, baseLogger *zerolog.Logger, component string) base {
	return base{
		deps: deps,
		log:  baseLogger.With().Str("component", component).Logger(),
	}
}

// tr returns a translator bound to the user's language.
func (b *base) tr(userID int64) messages.Translate {
	lang := b.deps.Sessions.Language(userID)
	return func(key string, params map[string]any) string {
		return b.deps.Renderer.Render(lang, key, params)
	}
}

func (b *base) isAdmin(userID int64) bool {
	return b.deps.Admins.Contains(userID)
}

// send posts an HTML message to chatID.
func (b *base) send(ctx context.Context, chatID int64, text string, markup *ports.ReplyMarkup) error {
	msg := messages.NewBuilder(chatID).WithText(text).WithMarkup(markup).Build()
	_, err := b.deps.Bot.SendMessage(ctx, msg)
	return err
}

// reply quotes the user's message.
func (b *base) reply(ctx context.Context, update *ports.BotUpdate, text string, markup *ports.ReplyMarkup) error {
	msg := messages.NewBuilder(update.ChatID).
		WithText(text).
		WithReplyTo(update.MessageID).
		WithMarkup(markup).
		Build()
	_, err := b.deps.Bot.SendMessage(ctx, msg)
	return err
}

// answer stops the spinner on the pressed button.
func (b *base) answer(ctx context.Context, update *ports.BotUpdate, text string, alert bool) error {
	return b.deps.Bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            text,
		ShowAlert:       alert,
	})
}

// denyCallback tells a non-admin the button is not for them.
func (b *base) denyCallback(ctx context.Context, update *ports.BotUpdate) error {
	b.log.Warn().Int64("user_id", update.UserID).Str("data", *update.CallbackData).Msg("Non-admin pressed an admin button")
	return b.answer(ctx, update, b.tr(update.UserID)("admin_command_denied", nil), true)
}

func (b *base) languageMenu() *ports.ReplyMarkup {
	return messages.LanguageMenu(b.deps.Renderer.Languages(), func(lang string) string {
		return b.deps.Renderer.Render(lang, "language_name", nil)
	})
}

// sendWelcome greets with the welcome photo when it exists, else with text.
// Both carry the main menu.
func (b *base) sendWelcome(ctx context.Context, userID, chatID int64) error {
	t := b.tr(userID)
	menu := messages.MainMenu(t, b.isAdmin(userID))

	if path := b.deps.Cfg.Bot.WelcomePhoto; path != "" {
		if _, err := os.Stat(path); err == nil {
			_, err := b.deps.Bot.SendFile(ctx, ports.SendFileParams{
				ChatID:      chatID,
				Kind:        ports.FilePhoto,
				Path:        path,
				Caption:     t("photo_caption", nil),
				ParseMode:   ports.ParseModeHTML,
				ReplyMarkup: menu,
			})
			if err == nil {
				return nil
			}
			b.log.Error().Err(err).Str("path", path).Msg("Failed to send welcome photo, falling back to text")
		} else {
			b.log.Warn().Str("path", path).Msg("Welcome photo not found")
		}
	}

	return b.send(ctx, chatID, t("welcome", nil)+"\n\n"+t("choose_action", nil), menu)
}

// adminListParams fills admin_count and admin_ids.
func (b *base) adminListParams() map[string]any {
	ids := b.deps.Admins.List()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return map[string]any{
		"admin_count": len(ids),
		"admin_ids":   strings.Join(parts, ", "),
	}
}

// parseUserID accepts a positive decimal Telegram user id.
func parseUserID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
