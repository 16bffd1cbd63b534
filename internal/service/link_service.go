package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linkbot/internal/model"
	"linkbot/internal/repository"

	"github.com/rs/zerolog"
)

// allowedSchemes lists the URL prefixes accepted for links.
var allowedSchemes = []string{"https://", "http://", "tg://"}

// linkService implements LinkService.
type linkService struct {
	repo   repository.DocumentRepository
	logger zerolog.Logger
}

// NewLinkService creates a new link service.
func NewLinkService(repo repository.DocumentRepository, logger zerolog.Logger) LinkService {
	return &linkService{
		repo:   repo,
		logger: logger.With().Str("service", "link").Logger(),
	}
}

// List returns the current document.
func (s *linkService) List(ctx context.Context) (*model.Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load links")
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	return doc, nil
}

// Add validates and appends a link to the category.
func (s *linkService) Add(ctx context.Context, category model.Category, name, url string) (model.Link, error) {
	if _, ok := model.ParseCategory(string(category)); !ok {
		return model.Link{}, model.ErrUnknownCategory
	}

	link := model.Link{Title: strings.TrimSpace(name), URL: strings.TrimSpace(url)}
	if link.Title == "" {
		return model.Link{}, model.ErrEmptyName
	}
	if !ValidURL(link.URL) {
		return model.Link{}, model.ErrInvalidURL
	}

	err := s.repo.Update(ctx, func(doc *model.Document) (bool, error) {
		doc.SetLinks(category, append(doc.Links(category), link))
		return true, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("category", string(category)).Msg("failed to add link")
		return model.Link{}, fmt.Errorf("failed to add link: %w", err)
	}

	s.logger.Info().
		Str("category", string(category)).
		Str("title", link.Title).
		Str("url", link.URL).
		Msg("link added")

	return link, nil
}

// Delete removes the link at the 1-based position.
func (s *linkService) Delete(ctx context.Context, category model.Category, position int) (model.Link, error) {
	if _, ok := model.ParseCategory(string(category)); !ok {
		return model.Link{}, model.ErrUnknownCategory
	}

	var removed model.Link
	err := s.repo.Update(ctx, func(doc *model.Document) (bool, error) {
		links := doc.Links(category)
		if position < 1 || position > len(links) {
			return false, model.ErrInvalidPosition
		}
		removed = links[position-1]

		kept := make([]model.Link, 0, len(links)-1)
		kept = append(kept, links[:position-1]...)
		kept = append(kept, links[position:]...)
		doc.SetLinks(category, kept)
		return true, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidPosition) {
			return model.Link{}, err
		}
		s.logger.Error().Err(err).Str("category", string(category)).Msg("failed to delete link")
		return model.Link{}, fmt.Errorf("failed to delete link: %w", err)
	}

	s.logger.Info().
		Str("category", string(category)).
		Int("position", position).
		Str("title", removed.Title).
		Msg("link deleted")

	return removed, nil
}

// ValidURL reports whether url uses one of the accepted schemes.
func ValidURL(url string) bool {
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

// ParseAddArgs splits "Name | url" on the first pipe.
func ParseAddArgs(args string) (name, url string, ok bool) {
	name, url, found := strings.Cut(args, "|")
	if !found {
		return "", "", false
	}
	name, url = strings.TrimSpace(name), strings.TrimSpace(url)
	if name == "" || url == "" {
		return "", "", false
	}
	return name, url, true
}
