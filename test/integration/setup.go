package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"linkbot/internal/config"
	"linkbot/internal/database"
	"linkbot/internal/model"
	"linkbot/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB is a PostgreSQL container shared by every test in the package.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

var (
	sharedOnce sync.Once
	shared     *TestDB
	sharedErr  error
)

// SetupTestDB returns the shared database with no document stored.
// The container starts on first use and is stopped by TeardownTestDB.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedOnce.Do(func() {
		shared, sharedErr = startPostgres(context.Background())
	})
	if sharedErr != nil {
		t.Fatalf("failed to start postgres: %v", sharedErr)
	}

	CleanupDB(t, shared.Pool)
	return shared
}

// TeardownTestDB stops the shared container, if it was started.
func TeardownTestDB() {
	if shared == nil {
		return
	}
	shared.Pool.Close()
	_ = shared.Container.Terminate(context.Background())
}

func startPostgres(ctx context.Context) (*TestDB, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("linkbot"),
		postgres.WithUsername("bot"),
		postgres.WithPassword("bot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("run container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}

	// room for two bot instances racing with many goroutines
	sizing := config.DatabaseConfig{MaxConnections: 20, MinConnections: 2, MaxConnLifetime: 300}

	pool, err := database.NewPoolFromURL(ctx, connStr, sizing, zerolog.Nop())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestDB{Container: container, Pool: pool, ConnStr: connStr}, nil
}

// NewRepository returns an initialised repository over the shared pool.
// Each call behaves like a separate bot process pointed at the same database.
func NewRepository(t *testing.T, testDB *TestDB, defaults model.PromoConfig) repository.DocumentRepository {
	t.Helper()

	repo := repository.NewPostgresRepository(testDB.Pool, defaults, zerolog.Nop())
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialise repository: %v", err)
	}
	return repo
}

// CleanupDB removes the stored document so the next Init starts fresh.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM bot_documents"); err != nil {
		t.Logf("nothing to clean: %v", err)
	}
}
