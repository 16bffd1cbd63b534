package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"linkbot/internal/model"

	"github.com/rs/zerolog"
)

// fileRepository stores the document as a JSON file.
// Atomicity holds within one process only.
type fileRepository struct {
	mu       sync.Mutex
	path     string
	defaults model.PromoConfig
	logger   zerolog.Logger
}

// NewFileRepository creates a JSON-file-backed document repository.
func NewFileRepository(path string, defaults model.PromoConfig, logger zerolog.Logger) DocumentRepository {
	return &fileRepository{
		path:     path,
		defaults: defaults,
		logger:   logger.With().Str("repository", "file").Str("path", path).Logger(),
	}
}

// Init writes the default document if the file does not exist.
func (r *fileRepository) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		r.logger.Error().Err(err).Msg("failed to stat data file")
		return storageError("stat data file", err)
	}

	r.logger.Info().Msg("data file missing, writing defaults")
	return r.write(model.NewDefaultDocument(r.defaults))
}

// Load reads the document from disk.
func (r *fileRepository) Load(ctx context.Context) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read()
}

// Save replaces the file contents.
func (r *fileRepository) Save(ctx context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.write(doc)
}

// Update reads, mutates and writes the document under the repository lock.
func (r *fileRepository) Update(ctx context.Context, fn UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := r.read()
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}

	return r.write(doc)
}

// Close is a no-op for the file repository.
func (r *fileRepository) Close() error {
	return nil
}

func (r *fileRepository) read() (*model.Document, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewDefaultDocument(r.defaults), nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read data file")
		return nil, storageError("read data file", err)
	}

	doc, err := model.DecodeDocument(data, r.defaults)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to decode data file")
		return nil, storageError("decode data file", err)
	}
	return doc, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (r *fileRepository) write(doc *model.Document) error {
	data, err := model.EncodeDocument(doc)
	if err != nil {
		return storageError("encode document", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create temp file")
		return storageError("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		r.logger.Error().Err(err).Msg("failed to write temp file")
		return storageError("write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return storageError("sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return storageError("close temp file", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		r.logger.Error().Err(err).Msg("failed to replace data file")
		return storageError("replace data file", err)
	}

	r.logger.Debug().Int("bytes", len(data)).Msg("data file written")
	return nil
}
