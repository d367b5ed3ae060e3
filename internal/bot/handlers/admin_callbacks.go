package handlers

import (
	"RelayBot/internal/bot"
	"RelayBot/internal/bot/messages"
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"
	"html"
	"strings"

	"github.com/rs/zerolog"
)

// awaitAdminID is the prompt answered by addAdminInputHandler.
const awaitAdminID = "admin_id"

func init() {
	bot.RegisterCallback(NewAdminInfoCallback)
	bot.RegisterCallback(NewAdminMenuCallback)
	bot.RegisterCallback(NewAddAdminByIDCallback)
	bot.RegisterCallback(NewShowAdminListCallback)
	bot.RegisterCallback(NewRemoveAdminMenuCallback)
	bot.RegisterCallback(NewRemoveAdminCallback)
	bot.RegisterInput(NewAddAdminInputHandler)
}

// adminCallback runs fn only for administrators.
type adminCallback struct {
	base
	prefix string
	fn     func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error
}

func (h *adminCallback) Prefix() string { return h.prefix }

func (h *adminCallback) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if !h.isAdmin(update.UserID) {
		return h.denyCallback(ctx, update)
	}
	return h.fn(ctx, h, update)
}

// quietAnswer stops the spinner and only logs a failure.
func (h *adminCallback) quietAnswer(ctx context.Context, update *ports.BotUpdate, text string, alert bool) {
	if err := h.answer(ctx, update, text, alert); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback")
	}
}

func newAdminCallback(
	deps *bot.Deps,
	baseLogger *zerolog.Logger,
	prefix string,
	fn func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error,
) ports.CallbackHandler {
	return &adminCallback{
		base:   newBase(deps, baseLogger, "admin_callback"),
		prefix: prefix,
		fn:     fn,
	}
}

func NewAdminInfoCallback(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return newAdminCallback(deps, baseLogger, messages.CallbackAdminInfo,
		func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error {
			t := h.tr(update.UserID)
			h.quietAnswer(ctx, update, t("admin_info", nil), false)
			params := h.adminListParams()
			params["user_id"] = update.UserID
			return h.send(ctx, update.ChatID, t("admin_info_text", params), nil)
		})
}

func NewAdminMenuCallback(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return newAdminCallback(deps, baseLogger, messages.CallbackAdminMenu,
		func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error {
			t := h.tr(update.UserID)
			h.quietAnswer(ctx, update, t("admin_menu_opened", nil), false)
			return h.send(ctx, update.ChatID, t("admin_menu_title", nil), messages.AdminMenu(t))
		})
}

func NewAddAdminByIDCallback(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return newAdminCallback(deps, baseLogger, messages.CallbackAddAdminByID,
		func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error {
			h.quietAnswer(ctx, update, "", false)
			if err := h.send(ctx, update.ChatID, h.tr(update.UserID)("add_admin_prompt", nil), nil); err != nil {
				return err
			}
			h.deps.Pending.Expect(update.UserID, awaitAdminID)
			return nil
		})
}

func NewShowAdminListCallback(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return newAdminCallback(deps, baseLogger, messages.CallbackShowAdminList,
		func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error {
			t := h.tr(update.UserID)
			h.quietAnswer(ctx, update, "", false)
			return h.send(ctx, update.ChatID, t("listadmins", h.adminListParams()), messages.AdminMenu(t))
		})
}

func NewRemoveAdminMenuCallback(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return newAdminCallback(deps, baseLogger, messages.CallbackRemoveAdminMenu,
		func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error {
			t := h.tr(update.UserID)
			h.quietAnswer(ctx, update, "", false)
			if h.deps.Admins.Len() <= 1 {
				return h.send(ctx, update.ChatID, t("removeadmin_last_menu", nil), messages.AdminMenu(t))
			}
			menu := messages.RemoveAdminMenu(t, h.deps.Admins.List(), update.UserID)
			return h.send(ctx, update.ChatID, t("remove_admin_prompt", nil), menu)
		})
}

// NewRemoveAdminCallback handles "remove_admin_<id>".
func NewRemoveAdminCallback(deps *bot.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return newAdminCallback(deps, baseLogger, messages.CallbackRemoveAdmin,
		func(ctx context.Context, h *adminCallback, update *ports.BotUpdate) error {
			t := h.tr(update.UserID)
			id, ok := parseUserID(strings.TrimPrefix(*update.CallbackData, messages.CallbackRemoveAdmin))
			if !ok {
				h.quietAnswer(ctx, update, t("callback_error", nil), true)
				return nil
			}

			result, count, err := h.deps.Admins.Remove(ctx, id, update.UserID)
			switch result {
			case domain.AdminNotFound:
				h.quietAnswer(ctx, update, t("removeadmin_not_found", map[string]any{"admin_id": id}), true)
				return nil
			case domain.AdminCannotRemoveSelf:
				h.quietAnswer(ctx, update, t("removeadmin_self", nil), true)
				return nil
			case domain.AdminCannotRemoveLast:
				h.quietAnswer(ctx, update, t("removeadmin_last", nil), true)
				return nil
			}

			zerolog.Ctx(ctx).Info().Int64("admin_id", id).Msg("Administrator removed from menu")
			h.quietAnswer(ctx, update, t("removeadmin_done_alert", map[string]any{"admin_id": id}), false)
			params := map[string]any{"admin_id": id, "admin_count": count}
			if sendErr := h.send(ctx, update.ChatID, t("removeadmin_success", params), messages.AdminMenu(t)); sendErr != nil {
				return sendErr
			}
			h.syncMenu(ctx, id)

			if err != nil {
				return h.send(ctx, update.ChatID, t("admin_persist_warning", map[string]any{"error": html.EscapeString(err.Error())}), nil)
			}
			return nil
		})
}

// addAdminInputHandler reads the id typed after "add admin by id".
type addAdminInputHandler struct{ base }

func NewAddAdminInputHandler(deps *bot.Deps, baseLogger *zerolog.Logger) ports.InputHandler {
	return &addAdminInputHandler{newBase(deps, baseLogger, "add_admin_input")}
}

func (h *addAdminInputHandler) Awaits() string { return awaitAdminID }

func (h *addAdminInputHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	t := h.tr(update.UserID)
	if !h.isAdmin(update.UserID) {
		return h.reply(ctx, update, t("admin_command_denied", nil), nil)
	}
	return h.addAdmin(ctx, update, update.Text, messages.AdminMenu(t))
}
