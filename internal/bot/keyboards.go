package bot

import (
	"linkbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data values.
const (
	CallbackMenuChannels = "menu_channels"
	CallbackMenuSites    = "menu_sites"
	CallbackBackHome     = "back_home"
	CallbackBackPanel    = "back_panel"
	CallbackAdminList    = "admin_list"
	CallbackAdminAdd     = "admin_add_help"
	CallbackAdminDelete  = "admin_del_help"
	CallbackAdminPromo   = "admin_promo"
)

// twoColumnRows lays link buttons out two per row.
func twoColumnRows(links []model.Link) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(links)+1)/2)
	var row []tgbotapi.InlineKeyboardButton
	for _, l := range links {
		row = append(row, tgbotapi.NewInlineKeyboardButtonURL(l.Title, l.URL))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func homeMenu(quick []model.Link, fastReservationURL string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("🚀 HIZLI REZERVASYON", fastReservationURL)),
	}
	rows = append(rows, twoColumnRows(quick)...)
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📣 Telegram Kanalları", CallbackMenuChannels)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🌐 İnternet Siteleri", CallbackMenuSites)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func listMenu(links []model.Link) tgbotapi.InlineKeyboardMarkup {
	rows := twoColumnRows(links)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Geri", CallbackBackHome)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminPanelMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📋 Listeyi Göster", CallbackAdminList)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Ekleme (Wizard)", CallbackAdminAdd)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➖ Silme", CallbackAdminDelete)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎟 Promosyon", CallbackAdminPromo)),
	)
}

func panelBackMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Panele Dön", CallbackBackPanel)),
	)
}
