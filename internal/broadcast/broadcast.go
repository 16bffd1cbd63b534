package broadcast

import (
	"context"
	"fmt"
	"sync/atomic"

	"linkbot/internal/config"
	"linkbot/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Message is the content of one broadcast. With a photo, Text is its caption.
type Message struct {
	Text        string
	PhotoFileID string
}

// HasPhoto reports whether the broadcast carries a photo.
func (m Message) HasPhoto() bool {
	return m.PhotoFileID != ""
}

// Sender delivers a broadcast message to a single chat.
type Sender interface {
	Deliver(ctx context.Context, chatID int64, msg Message) error
}

// Broadcaster fans a message out to many chats at a bounded rate.
type Broadcaster struct {
	sender  Sender
	limiter *rate.Limiter
	workers int
	logger  zerolog.Logger
}

// New creates a broadcaster paced at cfg.Rate messages per second.
func New(sender Sender, cfg config.BroadcastConfig, logger zerolog.Logger) *Broadcaster {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Broadcaster{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		workers: workers,
		logger:  logger.With().Str("component", "broadcast").Logger(),
	}
}

// Run sends msg to every recipient. Individual failures are counted in the
// report; only context cancellation aborts the run.
func (b *Broadcaster) Run(ctx context.Context, recipients []int64, msg Message) (model.BroadcastReport, error) {
	report := model.BroadcastReport{
		JobID: uuid.New().String(),
		Total: len(recipients),
	}
	logger := b.logger.With().Str("job_id", report.JobID).Logger()

	logger.Info().
		Int("recipients", report.Total).
		Bool("photo", msg.HasPhoto()).
		Msg("broadcast started")

	var sent, failed atomic.Int64
	jobs := make(chan int64)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for _, chatID := range recipients {
			select {
			case jobs <- chatID:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < b.workers; i++ {
		g.Go(func() error {
			for chatID := range jobs {
				if err := b.limiter.Wait(gctx); err != nil {
					return err
				}
				if err := b.sender.Deliver(gctx, chatID, msg); err != nil {
					failed.Add(1)
					logger.Debug().Err(err).Int64("chat_id", chatID).Msg("broadcast delivery failed")
					continue
				}
				sent.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	report.Sent = int(sent.Load())
	report.Failed = int(failed.Load())

	if err != nil {
		logger.Warn().
			Err(err).
			Int("sent", report.Sent).
			Int("failed", report.Failed).
			Msg("broadcast aborted")
		return report, fmt.Errorf("broadcast %s aborted: %w", report.JobID, err)
	}

	logger.Info().
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Msg("broadcast finished")

	return report, nil
}
