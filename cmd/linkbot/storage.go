package main

import (
	"context"
	"fmt"
	"time"

	"linkbot/internal/config"
	"linkbot/internal/database"
	"linkbot/internal/model"
	"linkbot/internal/repository"

	"github.com/rs/zerolog"
)

// openRepository connects the configured backend and prepares the document.
// The returned func releases the repository and its connection.
func openRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.DocumentRepository, func(), error) {
	defaults := model.PromoConfig{
		Enabled: cfg.Promo.Enabled,
		Limit:   cfg.Promo.Limit,
		Prefix:  cfg.Promo.Prefix,
	}

	var repo repository.DocumentRepository
	release := func() {}

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = repository.NewPostgresRepository(pool, defaults, logger)
		release = pool.Close

	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		repo = repository.NewRedisRepository(client, cfg.Redis.Key, defaults, logger)
		release = func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close redis client")
			}
		}

	case config.BackendMongo:
		db, err := database.ConnectMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		repo = repository.NewMongoRepository(db.Database, defaults, logger)
		release = func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Disconnect(disconnectCtx); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect mongo client")
			}
		}

	default:
		repo = repository.NewFileRepository(cfg.Storage.FilePath, defaults, logger)
	}

	if err := repo.Init(ctx); err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	logger.Info().Str("backend", cfg.Storage.Backend).Msg("storage ready")

	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close repository")
		}
		release()
	}, nil
}
