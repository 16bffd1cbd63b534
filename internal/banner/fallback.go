package banner

import (
	"context"
	"errors"
	"path"

	"github.com/rs/zerolog"
)

type fallbackLoader struct {
	primary  Loader
	local    Loader
	s3Prefix string
	logger   zerolog.Logger
}

// NewFallbackLoader tries primary under s3Prefix+base(name) and then local
// with name unchanged. A nil primary means only local is used.
func NewFallbackLoader(primary, local Loader, s3Prefix string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		primary:  primary,
		local:    local,
		s3Prefix: s3Prefix,
		logger:   logger.With().Str("component", "fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, name string) (*Image, error) {
	if l.primary != nil {
		key := l.s3Prefix + path.Base(name)

		img, err := l.primary.Load(ctx, key)
		if err == nil {
			return img, nil
		}

		event := l.logger.Warn()
		if errors.Is(err, ErrNotFound) {
			event = l.logger.Debug()
		}
		event.Err(err).Str("s3_key", key).Msg("banner not loaded from S3, trying local file")
	}

	return l.local.Load(ctx, name)
}
