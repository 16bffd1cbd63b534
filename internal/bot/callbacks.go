package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := h.client.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		h.logger.Warn().Err(err).Str("callback_id", query.ID).Msg("failed to answer callback")
	}

	switch query.Data {
	case CallbackMenuChannels, CallbackMenuSites, CallbackBackHome:
		h.handleMenuCallback(ctx, query)
		return
	}

	if query.From == nil || !h.isAdmin(query.From.ID) {
		return
	}

	switch query.Data {
	case CallbackBackPanel:
		h.smartEdit(query.Message, panelText, adminPanelMenu())
	case CallbackAdminList:
		doc, err := h.links.List(ctx)
		if err != nil {
			h.smartEdit(query.Message, genericFailureText, panelBackMenu())
			return
		}
		h.smartEdit(query.Message, linkListText(doc, listFooterCallback), panelBackMenu())
	case CallbackAdminAdd:
		h.smartEdit(query.Message, addHelpText, panelBackMenu())
	case CallbackAdminDelete:
		h.smartEdit(query.Message, deleteHelpText, panelBackMenu())
	case CallbackAdminPromo:
		status, err := h.promo.Snapshot(ctx)
		if err != nil {
			h.smartEdit(query.Message, genericFailureText, panelBackMenu())
			return
		}
		h.smartEdit(query.Message, promoStatusText(status), panelBackMenu())
	default:
		h.logger.Debug().Str("data", query.Data).Msg("unknown callback")
	}
}

// handleMenuCallback serves the public navigation buttons.
func (h *Handler) handleMenuCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	doc, err := h.links.List(ctx)
	if err != nil {
		return
	}

	switch query.Data {
	case CallbackMenuChannels:
		h.smartEdit(query.Message, channelsText, listMenu(doc.Channels))
	case CallbackMenuSites:
		h.smartEdit(query.Message, sitesText, listMenu(doc.Sites))
	case CallbackBackHome:
		h.smartEdit(query.Message, homeText, homeMenu(doc.Quick, h.fastURL))
	}
}
