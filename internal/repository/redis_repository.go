package repository

import (
	"context"
	"errors"
	"fmt"

	"linkbot/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// maxUpdateAttempts bounds optimistic retries for the Redis and MongoDB backends.
const maxUpdateAttempts = 16

// ErrConflict is returned when an optimistic update keeps losing races.
var ErrConflict = errors.New("concurrent update conflict")

// redisRepository stores the document as one JSON string key.
type redisRepository struct {
	client   *redis.Client
	key      string
	defaults model.PromoConfig
	logger   zerolog.Logger
}

// NewRedisRepository creates a Redis-backed document repository.
func NewRedisRepository(client *redis.Client, key string, defaults model.PromoConfig, logger zerolog.Logger) DocumentRepository {
	return &redisRepository{
		client:   client,
		key:      key,
		defaults: defaults,
		logger:   logger.With().Str("repository", "redis").Str("key", key).Logger(),
	}
}

// Init stores the default document with SETNX.
func (r *redisRepository) Init(ctx context.Context) error {
	data, err := model.EncodeDocument(model.NewDefaultDocument(r.defaults))
	if err != nil {
		return storageError("encode document", err)
	}

	created, err := r.client.SetNX(ctx, r.key, data, 0).Result()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to store default document")
		return storageError("store default document", err)
	}
	if created {
		r.logger.Info().Msg("default document created")
	}
	return nil
}

// Load reads the document key.
func (r *redisRepository) Load(ctx context.Context) (*model.Document, error) {
	return r.decode(r.client.Get(ctx, r.key).Bytes())
}

// Save overwrites the document key.
func (r *redisRepository) Save(ctx context.Context, doc *model.Document) error {
	data, err := model.EncodeDocument(doc)
	if err != nil {
		return storageError("encode document", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		r.logger.Error().Err(err).Msg("failed to save document")
		return storageError("save document", err)
	}
	return nil
}

// Update watches the key and commits with MULTI/EXEC, retrying when another
// writer touched the key in between.
func (r *redisRepository) Update(ctx context.Context, fn UpdateFunc) error {
	var fnErr error

	txf := func(tx *redis.Tx) error {
		doc, err := r.decode(tx.Get(ctx, r.key).Bytes())
		if err != nil {
			return err
		}

		changed, err := fn(doc)
		if err != nil {
			fnErr = err
			return err
		}
		if !changed {
			return nil
		}

		data, err := model.EncodeDocument(doc)
		if err != nil {
			return storageError("encode document", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, data, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, r.key)
		if err == nil {
			return nil
		}
		if fnErr != nil || errors.Is(err, model.ErrStorage) {
			return err
		}
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug().Int("attempt", attempt).Msg("document changed during update, retrying")
			continue
		}
		r.logger.Error().Err(err).Msg("failed to update document")
		return storageError("update document", err)
	}

	r.logger.Error().Int("attempts", maxUpdateAttempts).Msg("giving up on contended update")
	return storageError("update document", fmt.Errorf("%w after %d attempts", ErrConflict, maxUpdateAttempts))
}

// Close is a no-op; the client is owned by the caller.
func (r *redisRepository) Close() error {
	return nil
}

func (r *redisRepository) decode(data []byte, err error) (*model.Document, error) {
	if errors.Is(err, redis.Nil) {
		return model.NewDefaultDocument(r.defaults), nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read document")
		return nil, storageError("read document", err)
	}

	doc, err := model.DecodeDocument(data, r.defaults)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to decode document")
		return nil, storageError("decode document", err)
	}
	return doc, nil
}
