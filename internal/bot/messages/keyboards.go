package messages

import (
	"RelayBot/internal/core/ports"
	"strconv"
)

// Callback data sent by the inline keyboards.
const (
	CallbackLanguagePrefix   = "lang_"
	CallbackDownloadNicegram = "download_nicegram"
	CallbackCheckRefund      = "check_refund"
	CallbackInstruction      = "instruction"
	CallbackAdminInfo        = "admin_info"
	CallbackAdminMenu        = "add_admin_menu"
	CallbackAddAdminByID     = "add_admin_by_id"
	CallbackShowAdminList    = "show_admin_list"
	CallbackRemoveAdminMenu  = "remove_admin_menu"
	CallbackRemoveAdmin      = "remove_admin_" // followed by the admin id
	CallbackBackToMain       = "back_to_main"
	CallbackChangeLanguage   = "change_language"
)

// Translate renders a template key for the current reader.
type Translate func(key string, params map[string]any) string

func row(b ports.Button) []ports.Button {
	return []ports.Button{b}
}

// LanguageMenu offers every language, two per row. label returns the
// language's own name.
func LanguageMenu(languages []string, label func(lang string) string) *ports.ReplyMarkup {
	var rows [][]ports.Button
	var current []ports.Button
	for i, lang := range languages {
		current = append(current, ports.Button{Text: label(lang), Data: CallbackLanguagePrefix + lang})
		if (i+1)%2 == 0 || i == len(languages)-1 {
			rows = append(rows, current)
			current = nil
		}
	}
	return &ports.ReplyMarkup{Buttons: rows}
}

// MainMenu is shown after the welcome. Administrators get two extra buttons.
func MainMenu(t Translate, isAdmin bool) *ports.ReplyMarkup {
	rows := [][]ports.Button{
		row(ports.Button{Text: t("download_nicegram", nil), Data: CallbackDownloadNicegram}),
		row(ports.Button{Text: t("check_refund", nil), Data: CallbackCheckRefund}),
		row(ports.Button{Text: t("instruction", nil), Data: CallbackInstruction}),
	}
	if isAdmin {
		rows = append(rows,
			row(ports.Button{Text: t("admin_info", nil), Data: CallbackAdminInfo}),
			row(ports.Button{Text: t("add_admin", nil), Data: CallbackAdminMenu}),
		)
	}
	rows = append(rows, row(ports.Button{Text: t("change_language", nil), Data: CallbackChangeLanguage}))
	return &ports.ReplyMarkup{Buttons: rows}
}

// AdminMenu manages the administrator list.
func AdminMenu(t Translate) *ports.ReplyMarkup {
	return &ports.ReplyMarkup{Buttons: [][]ports.Button{
		row(ports.Button{Text: t("add_admin_by_id", nil), Data: CallbackAddAdminByID}),
		row(ports.Button{Text: t("show_admin_list", nil), Data: CallbackShowAdminList}),
		row(ports.Button{Text: t("remove_admin", nil), Data: CallbackRemoveAdminMenu}),
		row(ports.Button{Text: t("back", nil), Data: CallbackBackToMain}),
	}}
}

// RemoveAdminMenu lists every administrator except self.
func RemoveAdminMenu(t Translate, admins []int64, self int64) *ports.ReplyMarkup {
	rows := make([][]ports.Button, 0, len(admins)+1)
	for _, id := range admins {
		if id == self {
			continue
		}
		rows = append(rows, row(ports.Button{
			Text: t("remove_admin_button", map[string]any{"admin_id": id}),
			Data: CallbackRemoveAdmin + strconv.FormatInt(id, 10),
		}))
	}
	rows = append(rows, row(ports.Button{Text: t("back", nil), Data: CallbackAdminMenu}))
	return &ports.ReplyMarkup{Buttons: rows}
}
