package bot

import (
	"context"
	"fmt"

	"linkbot/internal/broadcast"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramSender delivers broadcast messages through the Bot API.
type telegramSender struct {
	client Client
}

// NewBroadcastSender adapts a Client to broadcast.Sender.
func NewBroadcastSender(client Client) broadcast.Sender {
	return &telegramSender{client: client}
}

// Deliver sends msg to chatID as plain text, or as a photo with caption.
func (s *telegramSender) Deliver(ctx context.Context, chatID int64, msg broadcast.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var req tgbotapi.Chattable
	if msg.HasPhoto() {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(msg.PhotoFileID))
		photo.Caption = msg.Text
		req = photo
	} else {
		text := tgbotapi.NewMessage(chatID, msg.Text)
		text.DisableWebPagePreview = true
		req = text
	}

	if _, err := s.client.Send(req); err != nil {
		return fmt.Errorf("failed to deliver to chat %d: %w", chatID, err)
	}
	return nil
}
