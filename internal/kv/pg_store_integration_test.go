package kv

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "STOREFRONT_SKIP_INTEGRATION_TESTS"

// PgStoreSuite runs the Store contract against PostgreSQL in a container.
type PgStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       *PgStore
	logger      *slog.Logger
	ctx         context.Context
}

func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var err error

	// 1. Start PostgreSQL and wait until it accepts connections.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("storefront_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 2. Apply the embedded migrations, twice to check they are idempotent.
	require.NoError(s.T(), Migrate(connStr), "Failed to apply migrations")
	require.NoError(s.T(), Migrate(connStr), "Second migration run must be a no-op")

	// 3. Connect.
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")
	for i := range 10 {
		if err = s.dbPool.Ping(s.ctx); err == nil {
			break
		}
		s.logger.Info("Waiting for PostgreSQL", "attempt", i+1)
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(s.T(), err, "Failed to ping PostgreSQL")
	s.store = NewPgStore(s.dbPool)
}

func (s *PgStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		assert.NoError(s.T(), testcontainers.TerminateContainer(s.pgContainer))
	}
}

func (s *PgStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE kv_entries")
	require.NoError(s.T(), err)
}

func (s *PgStoreSuite) TestContract() {
	assertStoreContract(s.T(), s.store)
}

func (s *PgStoreSuite) TestSet_UpdatesTimestamp() {
	// given
	require.NoError(s.T(), s.store.Set(s.ctx, "k", "v1"))
	var first time.Time
	require.NoError(s.T(), s.dbPool.QueryRow(s.ctx, "SELECT updated_at FROM kv_entries WHERE key = 'k'").Scan(&first))

	// when
	time.Sleep(10 * time.Millisecond)
	require.NoError(s.T(), s.store.Set(s.ctx, "k", "v2"))

	// then
	var second time.Time
	var count int
	require.NoError(s.T(), s.dbPool.QueryRow(s.ctx, "SELECT updated_at FROM kv_entries WHERE key = 'k'").Scan(&second))
	require.NoError(s.T(), s.dbPool.QueryRow(s.ctx, "SELECT count(*) FROM kv_entries").Scan(&count))
	s.True(second.After(first))
	s.Equal(1, count)
}

func TestPgStoreSuite(t *testing.T) {
	if os.Getenv(skipIntegrationTests) != "" {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(PgStoreSuite))
}
