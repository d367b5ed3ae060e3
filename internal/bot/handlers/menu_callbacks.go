package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/bot/messages"
	"RelayBot/internal/core/ports"
	"context"
	"strings"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCallback(NewLanguageHandler)
	bot.RegisterCallback(newInfoHandler(messages.CallbackDownloadNicegram, "nicegram_info"))
	bot.RegisterCallback(newInfoHandler(messages.CallbackCheckRefund, "refund_info"))
	bot.RegisterCallback(newInfoHandler(messages.CallbackInstruction, "instruction_info"))
	bot.RegisterCallback(NewChangeLanguageHandler)
	bot.RegisterCallback(NewBackToMainHandler)
}

// languageHandler stores the language picked from the language menu.
type languageHandler struct{ base }

func NewLanguageHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &languageHandler{newBase(deps, baseLogger, "language_handler")}
}

func (h *languageHandler) Prefix() string { return messages.CallbackLanguagePrefix }

func (h *languageHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	code := strings.TrimPrefix(*update.CallbackData, messages.CallbackLanguagePrefix)
	h.deps.Sessions.SetLanguage(update.UserID, code)
	zerolog.Ctx(ctx).Info().Str("language", code).Msg("Language changed")

	if err := h.answer(ctx, update, h.tr(update.UserID)("language_changed", nil), false); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback")
	}
	return h.sendWelcome(ctx, update.UserID, update.ChatID)
}

// infoHandler answers a main menu button with a fixed text.
type infoHandler struct {
	base
	data    string
	infoKey string
}

func newInfoHandler(data, infoKey string) bot.CallbackHandlerConstructor {
	return func(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
		return &infoHandler{
			base:    newBase(deps, baseLogger, "info_handler"),
			data:    data,
			infoKey: infoKey,
		}
	}
}

func (h *infoHandler) Prefix() string { return h.data }

func (h *infoHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	t := h.tr(update.UserID)
	// The button label doubles as the toast text
	if err := h.answer(ctx, update, t(h.data, nil), false); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback")
	}
	return h.send(ctx, update.ChatID, t(h.infoKey, nil), nil)
}

// changeLanguageHandler reopens the language menu.
type changeLanguageHandler struct{ base }

func NewChangeLanguageHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &changeLanguageHandler{newBase(deps, baseLogger, "change_language_handler")}
}

func (h *changeLanguageHandler) Prefix() string { return messages.CallbackChangeLanguage }

func (h *changeLanguageHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	text := h.tr(update.UserID)("select_language", nil)
	if err := h.answer(ctx, update, text, false); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback")
	}
	return h.send(ctx, update.ChatID, text, h.languageMenu())
}

// backToMainHandler shows the welcome again.
type backToMainHandler struct{ base }

func NewBackToMainHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &backToMainHandler{newBase(deps, baseLogger, "back_handler")}
}

func (h *backToMainHandler) Prefix() string { return messages.CallbackBackToMain }

func (h *backToMainHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if err := h.answer(ctx, update, "", false); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback")
	}
	return h.sendWelcome(ctx, update.UserID, update.ChatID)
}
