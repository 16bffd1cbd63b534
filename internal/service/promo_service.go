package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"linkbot/internal/coupon"
	"linkbot/internal/model"
	"linkbot/internal/repository"

	"github.com/rs/zerolog"
)

// promoService implements PromoService.
type promoService struct {
	// mu serialises every read-check-write on the campaign within this process.
	mu        sync.Mutex
	repo      repository.DocumentRepository
	generator coupon.Generator
	logger    zerolog.Logger
}

// NewPromoService creates a new promo service.
func NewPromoService(repo repository.DocumentRepository, generator coupon.Generator, logger zerolog.Logger) PromoService {
	return &promoService{
		repo:      repo,
		generator: generator,
		logger:    logger.With().Str("service", "promo").Logger(),
	}
}

// RequestCode evaluates, in order: disabled, already issued, exhausted, issue.
func (s *promoService) RequestCode(ctx context.Context, requesterID string) (model.Outcome, error) {
	if requesterID == "" {
		return model.Outcome{}, model.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var outcome model.Outcome
	err := s.repo.Update(ctx, func(doc *model.Document) (bool, error) {
		promo := &doc.Promo

		if !promo.Enabled {
			outcome = model.Outcome{Kind: model.OutcomeDisabled}
			return false, nil
		}

		if code, ok := promo.Winners[requesterID]; ok {
			outcome = model.Outcome{
				Kind:      model.OutcomeAlreadyIssued,
				Code:      code,
				Remaining: promo.Remaining(),
			}
			return false, nil
		}

		if len(promo.Winners) >= promo.Limit {
			outcome = model.Outcome{Kind: model.OutcomeExhausted}
			return false, nil
		}

		code, err := s.generator.Generate(promo.Prefix, coupon.IssuedCodes(promo.Winners))
		if err != nil {
			return false, fmt.Errorf("failed to generate promo code: %w", err)
		}

		promo.Winners[requesterID] = code
		outcome = model.Outcome{
			Kind:      model.OutcomeIssued,
			Code:      code,
			Remaining: promo.Remaining(),
		}
		return true, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("requester_id", requesterID).Msg("failed to request promo code")
		return model.Outcome{}, fmt.Errorf("failed to request promo code: %w", err)
	}

	event := s.logger.Debug()
	if outcome.Kind == model.OutcomeIssued {
		event = s.logger.Info()
	}
	event.
		Str("requester_id", requesterID).
		Str("outcome", outcome.Kind.String()).
		Int("remaining", outcome.Remaining).
		Msg("promo code requested")

	return outcome, nil
}

// Snapshot returns the current campaign status.
func (s *promoService) Snapshot(ctx context.Context) (*model.PromoStatus, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load promo status")
		return nil, fmt.Errorf("failed to load promo status: %w", err)
	}
	return statusOf(&doc.Promo), nil
}

// UpdateSettings applies a partial settings change under the same lock as RequestCode.
func (s *promoService) UpdateSettings(ctx context.Context, settings model.PromoSettings) (*model.PromoStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status *model.PromoStatus
	err := s.repo.Update(ctx, func(doc *model.Document) (bool, error) {
		promo := &doc.Promo
		next := *promo

		if settings.Enabled != nil {
			next.Enabled = *settings.Enabled
		}
		if settings.Limit != nil {
			next.Limit = *settings.Limit
		}
		if settings.Prefix != nil {
			next.Prefix = strings.TrimSpace(*settings.Prefix)
		}

		if next.Limit < 0 || next.Limit < len(promo.Winners) || next.Prefix == "" {
			return false, model.ErrInvalidPromoSettings
		}

		changed := next.Enabled != promo.Enabled || next.Limit != promo.Limit || next.Prefix != promo.Prefix
		*promo = next
		status = statusOf(promo)
		return changed, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidPromoSettings) {
			s.logger.Warn().Interface("settings", settings).Msg("rejected promo settings")
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to update promo settings")
		return nil, fmt.Errorf("failed to update promo settings: %w", err)
	}

	s.logger.Info().
		Bool("enabled", status.Enabled).
		Int("limit", status.Limit).
		Str("prefix", status.Prefix).
		Msg("promo settings updated")

	return status, nil
}

func statusOf(p *model.PromoConfig) *model.PromoStatus {
	return &model.PromoStatus{
		Enabled:     p.Enabled,
		Limit:       p.Limit,
		Prefix:      p.Prefix,
		IssuedCount: len(p.Winners),
		Remaining:   p.Remaining(),
	}
}
