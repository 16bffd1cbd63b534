package banner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for images on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based banner loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "banner-loader").Logger(),
	}
}

// Load reads the banner from filePath.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug().Str("file", filePath).Msg("banner file not present")
		return nil, ErrNotFound
	}
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open banner file")
		return nil, fmt.Errorf("failed to open banner file %s: %w", filePath, err)
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read banner file")
		return nil, fmt.Errorf("failed to read banner file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("bytes", len(data)).
		Msg("banner loaded successfully")

	return &Image{Name: filepath.Base(filePath), Bytes: data}, nil
}

// readLimited reads r fully, failing when it exceeds MaxImageSize.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("banner exceeds %d bytes", MaxImageSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("banner is empty")
	}
	return data, nil
}
