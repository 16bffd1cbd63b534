package bot

import (
	"context"
	"sync"

	"linkbot/internal/admin"
	"linkbot/internal/banner"
	"linkbot/internal/broadcast"
	"linkbot/internal/model"
	"linkbot/internal/service"
	"linkbot/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Broadcaster fans a message out to many chats.
type Broadcaster interface {
	Run(ctx context.Context, recipients []int64, msg broadcast.Message) (model.BroadcastReport, error)
}

// Handler turns Telegram updates into service calls and replies.
type Handler struct {
	client      Client
	promo       service.PromoService
	links       service.LinkService
	audience    service.AudienceService
	broadcaster Broadcaster
	admins      *admin.Set
	sessions    *session.Store
	banner      *banner.Provider
	fastURL     string
	logger      zerolog.Logger

	// background broadcasts
	wg sync.WaitGroup
}

// Options holds the Handler's collaborators.
type Options struct {
	Client             Client
	Promo              service.PromoService
	Links              service.LinkService
	Audience           service.AudienceService
	Broadcaster        Broadcaster
	Admins             *admin.Set
	Sessions           *session.Store
	Banner             *banner.Provider
	FastReservationURL string
}

// NewHandler creates a new update handler.
func NewHandler(opts Options, logger zerolog.Logger) *Handler {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore()
	}
	return &Handler{
		client:      opts.Client,
		promo:       opts.Promo,
		links:       opts.Links,
		audience:    opts.Audience,
		broadcaster: opts.Broadcaster,
		admins:      opts.Admins,
		sessions:    sessions,
		banner:      opts.Banner,
		fastURL:     opts.FastReservationURL,
		logger:      logger.With().Str("handler", "telegram").Logger(),
	}
}

// HandleUpdate dispatches a single update.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		if update.Message.IsCommand() {
			h.handleCommand(ctx, update.Message)
			return
		}
		h.handleFlowMessage(ctx, update.Message)
	}
}

// Wait blocks until background broadcasts have finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) isAdmin(userID int64) bool {
	return h.admins.Contains(userID)
}

// reply sends a Markdown text message without link previews.
func (h *Handler) reply(chatID int64, text string) {
	h.replyWithMarkup(chatID, text, nil)
}

func (h *Handler) replyWithMarkup(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.client.Send(msg); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

// replyPlain sends text without any parse mode.
func (h *Handler) replyPlain(chatID int64, text string) {
	if _, err := h.client.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

// sendHome shows the home screen, as a banner photo when one is available.
func (h *Handler) sendHome(ctx context.Context, chatID int64) {
	doc, err := h.links.List(ctx)
	if err != nil {
		h.reply(chatID, genericFailureText)
		return
	}
	markup := homeMenu(doc.Quick, h.fastURL)

	if img := h.banner.Get(ctx); img != nil {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: img.Name, Bytes: img.Bytes})
		photo.Caption = homeText
		photo.ParseMode = tgbotapi.ModeMarkdown
		photo.ReplyMarkup = markup
		if _, err := h.client.Send(photo); err != nil {
			h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send home banner")
		}
		return
	}

	h.replyWithMarkup(chatID, homeText, markup)
}

// smartEdit edits the caption of a photo message, otherwise its text.
func (h *Handler) smartEdit(msg *tgbotapi.Message, text string, markup tgbotapi.InlineKeyboardMarkup) {
	if msg == nil || msg.Chat == nil {
		return
	}

	var req tgbotapi.Chattable
	if len(msg.Photo) > 0 {
		edit := tgbotapi.NewEditMessageCaption(msg.Chat.ID, msg.MessageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		edit.ReplyMarkup = &markup
		req = edit
	} else {
		edit := tgbotapi.NewEditMessageTextAndMarkup(msg.Chat.ID, msg.MessageID, text, markup)
		edit.ParseMode = tgbotapi.ModeMarkdown
		edit.DisableWebPagePreview = true
		req = edit
	}

	if _, err := h.client.Request(req); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to edit message")
	}
}
