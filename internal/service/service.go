package service

import (
	"context"

	"linkbot/internal/model"
)

// PromoService allocates promo codes from the capped campaign.
type PromoService interface {
	// RequestCode returns the requester's code, issuing a new one when the
	// campaign is enabled and not exhausted.
	RequestCode(ctx context.Context, requesterID string) (model.Outcome, error)

	// Snapshot returns the current campaign status.
	Snapshot(ctx context.Context) (*model.PromoStatus, error)

	// UpdateSettings applies a partial settings change and returns the new status.
	UpdateSettings(ctx context.Context, settings model.PromoSettings) (*model.PromoStatus, error)
}

// LinkService manages the link directory shown in the menus.
type LinkService interface {
	// List returns the current document. Callers must treat it as read-only.
	List(ctx context.Context) (*model.Document, error)

	// Add appends a link to the category.
	Add(ctx context.Context, category model.Category, name, url string) (model.Link, error)

	// Delete removes the link at the 1-based position and returns it.
	Delete(ctx context.Context, category model.Category, position int) (model.Link, error)
}

// AudienceService tracks the chats that have started the bot.
type AudienceService interface {
	// Register records chatID. It reports whether the chat was new.
	Register(ctx context.Context, chatID int64) (bool, error)

	// List returns every registered chat id.
	List(ctx context.Context) ([]int64, error)
}
