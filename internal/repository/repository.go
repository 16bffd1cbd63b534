package repository

import (
	"context"
	"fmt"

	"linkbot/internal/model"
)

// UpdateFunc mutates the document in place. It reports whether anything
// changed; nothing is written when it returns false or an error.
type UpdateFunc func(doc *model.Document) (changed bool, err error)

// DocumentRepository persists the bot document as one unit.
// Every implementation returns errors wrapping model.ErrStorage for storage failures.
type DocumentRepository interface {
	// Init persists the default document if nothing is stored yet.
	Init(ctx context.Context) error

	// Load returns the stored document, or the defaults if none is stored.
	Load(ctx context.Context) (*model.Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc *model.Document) error

	// Update runs an atomic read-modify-write. No other Update on the same
	// store interleaves between the read and the write.
	Update(ctx context.Context, fn UpdateFunc) error

	// Close releases resources held by the repository.
	Close() error
}

// storageError wraps err as a storage failure of operation op.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrStorage, op, err)
}
