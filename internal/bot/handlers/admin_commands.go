package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"
	"html"
	"strings"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewAddAdminHandler)
	bot.RegisterCommand(NewRemoveAdminHandler)
	bot.RegisterCommand(NewListAdminsHandler)
	bot.RegisterCommand(NewAdminInfoHandler)
}

// addAdmin is shared by /addadmin and the "add by id" prompt. markup is
// attached to the success reply.
func (b *base) addAdmin(ctx context.Context, update *ports.BotUpdate, raw string, markup *ports.ReplyMarkup) error {
	t := b.tr(update.UserID)

	id, ok := parseUserID(raw)
	if !ok {
		return b.reply(ctx, update, t("addadmin_invalid_id", nil), nil)
	}

	result, count, err := b.deps.Admins.Add(ctx, id)
	if result == domain.AdminAlreadyMember {
		return b.reply(ctx, update, t("addadmin_already_admin", map[string]any{"admin_id": id}), nil)
	}

	zerolog.Ctx(ctx).Info().Int64("admin_id", id).Msg("Administrator added by command")
	params := map[string]any{"admin_id": id, "admin_count": count}
	if sendErr := b.reply(ctx, update, t("addadmin_success", params), markup); sendErr != nil {
		return sendErr
	}
	b.syncMenu(ctx, id)

	if err != nil {
		return b.reply(ctx, update, t("admin_persist_warning", map[string]any{"error": html.EscapeString(err.Error())}), nil)
	}
	return nil
}

// addAdminHandler is the plugin for /addadmin <id>.
type addAdminHandler struct{ base }

func NewAddAdminHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &addAdminHandler{newBase(deps, baseLogger, "addadmin_handler")}
}

func (h *addAdminHandler) Command() string { return "addadmin" }

func (h *addAdminHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	t := h.tr(update.UserID)
	if !h.isAdmin(update.UserID) {
		return h.reply(ctx, update, t("admin_command_denied", nil), nil)
	}

	args := strings.Fields(update.CommandArgs)
	if len(args) != 1 {
		return h.reply(ctx, update, t("addadmin_usage", nil), nil)
	}
	return h.addAdmin(ctx, update, args[0], nil)
}

// removeAdminHandler is the plugin for /removeadmin <id>.
type removeAdminHandler struct{ base }

func NewRemoveAdminHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &removeAdminHandler{newBase(deps, baseLogger, "removeadmin_handler")}
}

func (h *removeAdminHandler) Command() string { return "removeadmin" }

func (h *removeAdminHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	t := h.tr(update.UserID)
	if !h.isAdmin(update.UserID) {
		return h.reply(ctx, update, t("admin_command_denied", nil), nil)
	}

	args := strings.Fields(update.CommandArgs)
	if len(args) != 1 {
		return h.reply(ctx, update, t("removeadmin_usage", nil), nil)
	}
	id, ok := parseUserID(args[0])
	if !ok {
		return h.reply(ctx, update, t("addadmin_invalid_id", nil), nil)
	}

	result, count, err := h.deps.Admins.Remove(ctx, id, update.UserID)
	switch result {
	case domain.AdminNotFound:
		return h.reply(ctx, update, t("removeadmin_not_found", map[string]any{"admin_id": id}), nil)
	case domain.AdminCannotRemoveSelf:
		return h.reply(ctx, update, t("removeadmin_self", nil), nil)
	case domain.AdminCannotRemoveLast:
		return h.reply(ctx, update, t("removeadmin_last", nil), nil)
	}

	params := map[string]any{"admin_id": id, "admin_count": count}
	if sendErr := h.reply(ctx, update, t("removeadmin_success", params), nil); sendErr != nil {
		return sendErr
	}
	h.syncMenu(ctx, id)

	if err != nil {
		return h.reply(ctx, update, t("admin_persist_warning", map[string]any{"error": html.EscapeString(err.Error())}), nil)
	}
	return nil
}

// listAdminsHandler is the plugin for /listadmins.
type listAdminsHandler struct{ base }

func NewListAdminsHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &listAdminsHandler{newBase(deps, baseLogger, "listadmins_handler")}
}

func (h *listAdminsHandler) Command() string { return "listadmins" }

func (h *listAdminsHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	t := h.tr(update.UserID)
	if !h.isAdmin(update.UserID) {
		return h.reply(ctx, update, t("admin_command_denied", nil), nil)
	}
	return h.reply(ctx, update, t("listadmins", h.adminListParams()), nil)
}

// adminInfoHandler is the plugin for /admin.
type adminInfoHandler struct{ base }

func NewAdminInfoHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &adminInfoHandler{newBase(deps, baseLogger, "admin_handler")}
}

func (h *adminInfoHandler) Command() string { return "admin" }

func (h *adminInfoHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	t := h.tr(update.UserID)
	if !h.isAdmin(update.UserID) {
		return h.reply(ctx, update, t("admin_command_denied", nil), nil)
	}
	params := h.adminListParams()
	params["user_id"] = update.UserID
	return h.reply(ctx, update, t("admin_info_text", params), nil)
}
