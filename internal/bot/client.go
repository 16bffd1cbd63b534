package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is the part of the Telegram Bot API the handler uses.
// *tgbotapi.BotAPI satisfies it.
type Client interface {
	// Send sends a message-producing request.
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)

	// Request sends a request whose result is not a message, such as edits
	// and callback answers.
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
