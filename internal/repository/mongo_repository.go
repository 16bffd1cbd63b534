package repository

import (
	"context"
	"errors"
	"fmt"

	"linkbot/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoEnvelope is the stored shape: the document plus a version used for
// compare-and-swap.
type mongoEnvelope struct {
	ID       string         `bson:"_id"`
	Version  int64          `bson:"version"`
	Document model.Document `bson:"document"`
}

// mongoRepository stores the document in one MongoDB record.
type mongoRepository struct {
	collection *mongo.Collection
	defaults   model.PromoConfig
	logger     zerolog.Logger
}

// NewMongoRepository creates a MongoDB-backed document repository.
func NewMongoRepository(db *mongo.Database, defaults model.PromoConfig, logger zerolog.Logger) DocumentRepository {
	return &mongoRepository{
		collection: db.Collection("documents"),
		defaults:   defaults,
		logger:     logger.With().Str("repository", "mongo").Logger(),
	}
}

// Init inserts the default document if absent.
func (r *mongoRepository) Init(ctx context.Context) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": DocumentID},
		bson.M{"$setOnInsert": bson.M{
			"version":  int64(1),
			"document": model.NewDefaultDocument(r.defaults),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to insert default document")
		return storageError("insert default document", err)
	}
	if res.UpsertedCount > 0 {
		r.logger.Info().Msg("default document created")
	}
	return nil
}

// Load reads the document record.
func (r *mongoRepository) Load(ctx context.Context) (*model.Document, error) {
	env, err := r.find(ctx)
	if err != nil {
		return nil, err
	}
	return &env.Document, nil
}

// Save replaces the document and bumps its version.
func (r *mongoRepository) Save(ctx context.Context, doc *model.Document) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": DocumentID},
		bson.M{
			"$set": bson.M{"document": doc},
			"$inc": bson.M{"version": int64(1)},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to save document")
		return storageError("save document", err)
	}
	return nil
}

// Update replaces the record only if its version is unchanged since the read,
// retrying on conflict.
func (r *mongoRepository) Update(ctx context.Context, fn UpdateFunc) error {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		env, err := r.find(ctx)
		if err != nil {
			return err
		}

		changed, err := fn(&env.Document)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		ok, err := r.swap(ctx, env)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		r.logger.Debug().Int("attempt", attempt).Int64("version", env.Version).Msg("version conflict, retrying")
	}

	r.logger.Error().Int("attempts", maxUpdateAttempts).Msg("giving up on contended update")
	return storageError("update document", fmt.Errorf("%w after %d attempts", ErrConflict, maxUpdateAttempts))
}

// Close is a no-op; the client is owned by the caller.
func (r *mongoRepository) Close() error {
	return nil
}

// find loads the envelope. A missing record yields defaults at version 0.
func (r *mongoRepository) find(ctx context.Context) (*mongoEnvelope, error) {
	var env mongoEnvelope
	err := r.collection.FindOne(ctx, bson.M{"_id": DocumentID}).Decode(&env)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &mongoEnvelope{ID: DocumentID, Document: *model.NewDefaultDocument(r.defaults)}, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read document")
		return nil, storageError("read document", err)
	}
	env.Document.Normalize()
	return &env, nil
}

// swap writes env at version+1 if the stored version still equals env.Version.
func (r *mongoRepository) swap(ctx context.Context, env *mongoEnvelope) (bool, error) {
	next := mongoEnvelope{ID: DocumentID, Version: env.Version + 1, Document: env.Document}

	if env.Version == 0 {
		_, err := r.collection.InsertOne(ctx, next)
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to insert document")
			return false, storageError("insert document", err)
		}
		return true, nil
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": DocumentID, "version": env.Version}, next)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to replace document")
		return false, storageError("replace document", err)
	}
	return res.MatchedCount == 1, nil
}
