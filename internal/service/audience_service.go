package service

import (
	"context"
	"fmt"
	"slices"

	"linkbot/internal/model"
	"linkbot/internal/repository"

	"github.com/rs/zerolog"
)

// audienceService implements AudienceService.
type audienceService struct {
	repo   repository.DocumentRepository
	logger zerolog.Logger
}

// NewAudienceService creates a new audience service.
func NewAudienceService(repo repository.DocumentRepository, logger zerolog.Logger) AudienceService {
	return &audienceService{
		repo:   repo,
		logger: logger.With().Str("service", "audience").Logger(),
	}
}

// Register records chatID once.
func (s *audienceService) Register(ctx context.Context, chatID int64) (bool, error) {
	var added bool
	err := s.repo.Update(ctx, func(doc *model.Document) (bool, error) {
		added = !slices.Contains(doc.Users, chatID)
		if added {
			doc.Users = append(doc.Users, chatID)
		}
		return added, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to register chat")
		return false, fmt.Errorf("failed to register chat: %w", err)
	}

	if added {
		s.logger.Debug().Int64("chat_id", chatID).Msg("chat registered")
	}
	return added, nil
}

// List returns every registered chat id.
func (s *audienceService) List(ctx context.Context) ([]int64, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load audience")
		return nil, fmt.Errorf("failed to load audience: %w", err)
	}
	return doc.Users, nil
}
