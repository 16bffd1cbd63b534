package repository

import (
	"context"
	"errors"

	"linkbot/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DocumentID is the key of the single bot document in keyed backends.
const DocumentID = "main"

const documentSchema = `
	CREATE TABLE IF NOT EXISTS bot_documents (
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// postgresRepository stores the document as one JSONB row.
type postgresRepository struct {
	pool     *pgxpool.Pool
	defaults model.PromoConfig
	logger   zerolog.Logger
}

// NewPostgresRepository creates a PostgreSQL-backed document repository.
func NewPostgresRepository(pool *pgxpool.Pool, defaults model.PromoConfig, logger zerolog.Logger) DocumentRepository {
	return &postgresRepository{
		pool:     pool,
		defaults: defaults,
		logger:   logger.With().Str("repository", "postgres").Logger(),
	}
}

// Init creates the table and inserts the default document if absent.
func (r *postgresRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, documentSchema); err != nil {
		r.logger.Error().Err(err).Msg("failed to create schema")
		return storageError("create schema", err)
	}

	data, err := model.EncodeDocument(model.NewDefaultDocument(r.defaults))
	if err != nil {
		return storageError("encode document", err)
	}

	query := `
		INSERT INTO bot_documents (id, data)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, DocumentID, data)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to insert default document")
		return storageError("insert default document", err)
	}

	if tag.RowsAffected() > 0 {
		r.logger.Info().Msg("default document created")
	}
	return nil
}

// Load reads the document row.
func (r *postgresRepository) Load(ctx context.Context) (*model.Document, error) {
	return r.load(ctx, r.pool, false)
}

// Save upserts the document row.
func (r *postgresRepository) Save(ctx context.Context, doc *model.Document) error {
	return r.save(ctx, r.pool, doc)
}

// Update locks the row with SELECT ... FOR UPDATE for the whole read-modify-write.
func (r *postgresRepository) Update(ctx context.Context, fn UpdateFunc) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return storageError("begin transaction", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	doc, err := r.load(ctx, tx, true)
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil {
		return err
	}
	if !changed {
		if err = tx.Rollback(ctx); err != nil {
			return storageError("rollback transaction", err)
		}
		return nil
	}

	if err = r.save(ctx, tx, doc); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return storageError("commit transaction", err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (r *postgresRepository) Close() error {
	return nil
}

// querier is the subset of pgxpool.Pool and pgx.Tx used here.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *postgresRepository) load(ctx context.Context, q querier, forUpdate bool) (*model.Document, error) {
	query := `SELECT data FROM bot_documents WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var data []byte
	err := q.QueryRow(ctx, query, DocumentID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Debug().Msg("document not found, using defaults")
		return model.NewDefaultDocument(r.defaults), nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query document")
		return nil, storageError("query document", err)
	}

	doc, err := model.DecodeDocument(data, r.defaults)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to decode document")
		return nil, storageError("decode document", err)
	}
	return doc, nil
}

func (r *postgresRepository) save(ctx context.Context, q querier, doc *model.Document) error {
	data, err := model.EncodeDocument(doc)
	if err != nil {
		return storageError("encode document", err)
	}

	query := `
		INSERT INTO bot_documents (id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, DocumentID, data); err != nil {
		r.logger.Error().Err(err).Msg("failed to save document")
		return storageError("save document", err)
	}

	r.logger.Debug().Int("bytes", len(data)).Msg("document saved")
	return nil
}
