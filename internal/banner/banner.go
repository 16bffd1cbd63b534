package banner

import (
	"context"
	"errors"
)

// MaxImageSize caps banner size at Telegram's photo upload limit.
const MaxImageSize = 10 << 20

// ErrNotFound is returned when the banner does not exist in a source.
var ErrNotFound = errors.New("banner not found")

// Image is a loaded banner.
type Image struct {
	Name  string
	Bytes []byte
}

// Loader defines the interface for loading banner images.
type Loader interface {
	// Load reads the named banner image.
	Load(ctx context.Context, name string) (*Image, error)
}
