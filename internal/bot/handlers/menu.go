package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/bot/messages"
	"RelayBot/internal/core/ports"
	"context"
)

var (
	userCommandKeys  = []string{"start", "status"}
	adminCommandKeys = []string{"start", "status", "admin", "listadmins", "addadmin", "removeadmin"}
)

func menuCommands(t messages.Translate, keys []string) []ports.BotCommand {
	out := make([]ports.BotCommand, len(keys))
	for i, k := range keys {
		out[i] = ports.BotCommand{Command: k, Description: t("cmd_"+k, nil)}
	}
	return out
}

// SetDefaultMenu installs the "/" menu every user sees.
func SetDefaultMenu(ctx context.Context, deps *bot.Deps) error {
	lang := deps.Cfg.I18n.DefaultLanguage
	t := func(key string, params map[string]any) string {
		return deps.Renderer.Render(lang, key, params)
	}
	return deps.Bot.SetMenuCommands(ctx, 0, menuCommands(t, userCommandKeys))
}

// syncMenu gives administrators the admin commands in their own chat and
// takes them away from everyone else. Failures are only logged.
func (b *base) syncMenu(ctx context.Context, userID int64) {
	keys := userCommandKeys
	if b.isAdmin(userID) {
		keys = adminCommandKeys
	}
	if err := b.deps.Bot.SetMenuCommands(ctx, userID, menuCommands(b.tr(userID), keys)); err != nil {
		b.log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to set chat menu")
	}
}
