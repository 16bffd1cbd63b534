package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// UpdateSource is a long-polling source of updates.
// *tgbotapi.BotAPI satisfies it.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Run polls for updates and handles them one at a time until ctx is done.
// Updates are handled sequentially so each user's wizard sees its messages in order.
func Run(ctx context.Context, source UpdateSource, handler *Handler, pollTimeout int, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "poller").Logger()

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := source.GetUpdatesChan(cfg)

	logger.Info().Int("poll_timeout", pollTimeout).Msg("polling for updates")

	for {
		select {
		case <-ctx.Done():
			source.StopReceivingUpdates()
			logger.Info().Msg("waiting for running broadcasts")
			handler.Wait()
			logger.Info().Msg("polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				handler.Wait()
				return nil
			}
			handler.HandleUpdate(ctx, update)
		}
	}
}
