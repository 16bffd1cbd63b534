package banner

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Provider serves the home banner, caching it after the first successful load.
// A missing banner is cached as absent; other failures are retried on the next call.
type Provider struct {
	loader Loader
	name   string
	logger zerolog.Logger

	mu     sync.Mutex
	loaded bool
	image  *Image
}

// NewProvider creates a banner provider for the named image.
func NewProvider(loader Loader, name string, logger zerolog.Logger) *Provider {
	return &Provider{
		loader: loader,
		name:   name,
		logger: logger.With().Str("component", "banner-provider").Logger(),
	}
}

// Get returns the banner, or nil when there is none.
func (p *Provider) Get(ctx context.Context) *Image {
	if p == nil || p.name == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.image
	}

	img, err := p.loader.Load(ctx, p.name)
	switch {
	case err == nil:
		p.image = img
		p.loaded = true
	case errors.Is(err, ErrNotFound):
		p.logger.Info().Str("name", p.name).Msg("no banner configured, home screen will be text only")
		p.loaded = true
	default:
		p.logger.Warn().Err(err).Str("name", p.name).Msg("failed to load banner, will retry")
	}
	return p.image
}
