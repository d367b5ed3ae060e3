package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewStartHandler)
	bot.RegisterCommand(NewHelpHandler)
}

// startHandler is the plugin for the /start and /help commands.
type startHandler struct {
	base
	command string
}

// NewStartHandler creates a new handler for the /start command.
func NewStartHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &startHandler{base: newBase(deps, baseLogger, "start_handler"), command: "start"}
}

// NewHelpHandler answers /help exactly like /start.
func NewHelpHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &startHandler{base: newBase(deps, baseLogger, "start_handler"), command: "help"}
}

// Command returns the command string (without the "/")
func (h *startHandler) Command() string {
	return h.command
}

// Handle shows the language menu on first contact and the welcome after.
func (h *startHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	log := zerolog.Ctx(ctx)
	firstContact := !h.deps.Sessions.Exists(update.UserID)

	h.deps.Sessions.Upsert(update.UserID, domain.DisplayInfo{
		FirstName: update.FirstName,
		LastName:  update.LastName,
		Username:  update.Username,
	})

	if h.isAdmin(update.UserID) {
		h.syncMenu(ctx, update.UserID)
	}

	if firstContact {
		log.Info().Str("first_name", update.FirstName).Msg("New user, asking for a language")
		return h.send(ctx, update.ChatID, h.tr(update.UserID)("choose_language", nil), h.languageMenu())
	}
	return h.sendWelcome(ctx, update.UserID, update.ChatID)
}
