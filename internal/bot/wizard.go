package bot

import (
	"context"
	"strings"

	"linkbot/internal/broadcast"
	"linkbot/internal/service"
	"linkbot/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleFlowMessage feeds a non-command message into the sender's wizard, if any.
func (h *Handler) handleFlowMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	flow, ok := h.sessions.Get(userID)
	if !ok {
		return
	}

	if !h.isAdmin(userID) {
		h.sessions.Clear(userID)
		return
	}

	switch flow.Step {
	case session.StepLinkName, session.StepLinkURL:
		h.advanceAddLink(ctx, msg, flow)
	case session.StepBroadcastPhoto, session.StepBroadcastCaption:
		h.advanceBroadcast(ctx, msg, flow)
	}
}

func (h *Handler) advanceAddLink(ctx context.Context, msg *tgbotapi.Message, flow session.Flow) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if flow.Step == session.StepLinkName {
		h.sessions.Set(msg.From.ID, flow.WithName(text))
		h.reply(msg.Chat.ID, addFlowURLText)
		return
	}

	if !service.ValidURL(text) {
		h.reply(msg.Chat.ID, addFlowBadURLText)
		return
	}

	h.sessions.Clear(msg.From.ID)

	link, err := h.links.Add(ctx, flow.Category, flow.Name, text)
	if err != nil {
		h.replyPlain(msg.Chat.ID, genericFailureText)
		return
	}
	h.reply(msg.Chat.ID, addFlowDoneText(flow.Category, link))
}

func (h *Handler) advanceBroadcast(ctx context.Context, msg *tgbotapi.Message, flow session.Flow) {
	text := strings.TrimSpace(msg.Text)

	if flow.Step == session.StepBroadcastPhoto {
		switch {
		case len(msg.Photo) > 0:
			// the last size is the largest
			fileID := msg.Photo[len(msg.Photo)-1].FileID
			if caption := strings.TrimSpace(msg.Caption); caption != "" {
				h.startBroadcast(ctx, msg, broadcast.Message{Text: caption, PhotoFileID: fileID})
				return
			}
			h.sessions.Set(msg.From.ID, flow.WithPhoto(fileID))
			h.reply(msg.Chat.ID, broadcastCaptionText)
		case text != "":
			h.startBroadcast(ctx, msg, broadcast.Message{Text: text})
		default:
			h.reply(msg.Chat.ID, broadcastPhotoText)
		}
		return
	}

	if text == "" {
		return
	}
	h.startBroadcast(ctx, msg, broadcast.Message{Text: text, PhotoFileID: flow.PhotoID})
}

// startBroadcast runs the broadcast in the background and reports back to the admin.
func (h *Handler) startBroadcast(ctx context.Context, msg *tgbotapi.Message, content broadcast.Message) {
	h.sessions.Clear(msg.From.ID)
	chatID := msg.Chat.ID

	recipients, err := h.audience.List(ctx)
	if err != nil {
		h.replyPlain(chatID, genericFailureText)
		return
	}

	h.replyPlain(chatID, broadcastStartedText(len(recipients)))

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		report, err := h.broadcaster.Run(ctx, recipients, content)
		if err != nil {
			h.reply(chatID, broadcastAbortedText(report))
			return
		}
		h.reply(chatID, broadcastReportText(report))
	}()
}
