package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"linkbot/internal/model"
	"linkbot/internal/service"
	"linkbot/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// addCommands maps add commands to their category.
var addCommands = map[string]model.Category{
	"addquick":   model.CategoryQuick,
	"addsite":    model.CategorySites,
	"addchannel": model.CategoryChannels,
}

// deleteCommands maps delete commands to their category.
var deleteCommands = map[string]model.Category{
	"delquick":   model.CategoryQuick,
	"delsite":    model.CategorySites,
	"delchannel": model.CategoryChannels,
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	command := msg.Command()
	h.logger.Debug().
		Str("command", command).
		Int64("user_id", msg.From.ID).
		Msg("command received")

	switch command {
	case "start":
		h.cmdStart(ctx, msg)
		return
	case "id":
		h.replyPlain(msg.Chat.ID, idText(msg.From.ID))
		return
	case "cancel":
		h.cmdCancel(msg)
		return
	}

	// everything below is admin only and ignored silently for others
	if !h.isAdmin(msg.From.ID) {
		return
	}

	if category, ok := addCommands[command]; ok {
		h.cmdAdd(ctx, msg, category)
		return
	}
	if category, ok := deleteCommands[command]; ok {
		h.cmdDelete(ctx, msg, command, category)
		return
	}

	switch command {
	case "panel":
		h.replyWithMarkup(msg.Chat.ID, panelText, adminPanelMenu())
	case "list":
		h.cmdList(ctx, msg)
	case "promo":
		h.cmdPromo(ctx, msg)
	case "broadcast":
		h.sessions.Set(msg.From.ID, session.NewBroadcastFlow())
		h.reply(msg.Chat.ID, broadcastStartText)
	}
}

// cmdStart registers the chat, shows the home screen, then offers a promo code.
func (h *Handler) cmdStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if _, err := h.audience.Register(ctx, chatID); err != nil {
		h.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to register chat, continuing")
	}

	h.sendHome(ctx, chatID)

	outcome, err := h.promo.RequestCode(ctx, strconv.FormatInt(msg.From.ID, 10))
	if err != nil {
		h.reply(chatID, promoFailureText)
		return
	}
	if text := outcomeText(outcome); text != "" {
		h.reply(chatID, text)
	}
}

func (h *Handler) cmdCancel(msg *tgbotapi.Message) {
	if h.sessions.Clear(msg.From.ID) {
		h.replyPlain(msg.Chat.ID, cancelledText)
		return
	}
	h.replyPlain(msg.Chat.ID, nothingToCancel)
}

func (h *Handler) cmdList(ctx context.Context, msg *tgbotapi.Message) {
	doc, err := h.links.List(ctx)
	if err != nil {
		h.reply(msg.Chat.ID, genericFailureText)
		return
	}
	h.reply(msg.Chat.ID, linkListText(doc, listFooterCommand))
}

// cmdAdd handles "/addX Name | url" in one line, or starts the wizard.
func (h *Handler) cmdAdd(ctx context.Context, msg *tgbotapi.Message, category model.Category) {
	name, url, ok := service.ParseAddArgs(msg.CommandArguments())
	if !ok {
		h.sessions.Set(msg.From.ID, session.NewAddLinkFlow(category))
		h.reply(msg.Chat.ID, addFlowStartText)
		return
	}

	_, err := h.links.Add(ctx, category, name, url)
	switch {
	case err == nil:
		h.replyPlain(msg.Chat.ID, addedText(category))
	case errors.Is(err, model.ErrInvalidURL):
		h.replyPlain(msg.Chat.ID, addBadURLText)
	default:
		h.replyPlain(msg.Chat.ID, genericFailureText)
	}
}

func (h *Handler) cmdDelete(ctx context.Context, msg *tgbotapi.Message, command string, category model.Category) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 || !isDigits(args[0]) {
		h.replyPlain(msg.Chat.ID, deleteUsageText(command))
		return
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		h.replyPlain(msg.Chat.ID, badPositionText)
		return
	}

	removed, err := h.links.Delete(ctx, category, position)
	switch {
	case err == nil:
		h.replyPlain(msg.Chat.ID, deletedText(removed))
	case errors.Is(err, model.ErrInvalidPosition):
		h.replyPlain(msg.Chat.ID, badPositionText)
	default:
		h.replyPlain(msg.Chat.ID, genericFailureText)
	}
}

// cmdPromo shows the campaign or changes one setting.
func (h *Handler) cmdPromo(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		h.showPromoStatus(ctx, msg.Chat.ID)
		return
	}

	var settings model.PromoSettings
	switch {
	case len(args) == 1 && args[0] == "on":
		enabled := true
		settings.Enabled = &enabled
	case len(args) == 1 && args[0] == "off":
		enabled := false
		settings.Enabled = &enabled
	case len(args) == 2 && args[0] == "limit":
		limit, err := strconv.Atoi(args[1])
		if err != nil {
			h.reply(msg.Chat.ID, promoUsageText)
			return
		}
		settings.Limit = &limit
	case len(args) == 2 && args[0] == "prefix":
		prefix := args[1]
		settings.Prefix = &prefix
	default:
		h.reply(msg.Chat.ID, promoUsageText)
		return
	}

	status, err := h.promo.UpdateSettings(ctx, settings)
	switch {
	case err == nil:
		h.reply(msg.Chat.ID, promoStatusText(status))
	case errors.Is(err, model.ErrInvalidPromoSettings):
		h.reply(msg.Chat.ID, promoInvalidText)
	default:
		h.reply(msg.Chat.ID, genericFailureText)
	}
}

func (h *Handler) showPromoStatus(ctx context.Context, chatID int64) {
	status, err := h.promo.Snapshot(ctx)
	if err != nil {
		h.reply(chatID, genericFailureText)
		return
	}
	h.reply(chatID, promoStatusText(status))
}

func isDigits(s string) bool {
	return s != "" && strings.TrimLeft(s, "0123456789") == ""
}
