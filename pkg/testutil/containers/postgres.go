//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"consentry/migrations"
	id "consentry/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance with the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("consentry_test"),
		postgres.WithUsername("consentry"),
		postgres.WithPassword("consentry_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Shared across suites by the Manager; Ryuk removes the container on exit.
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables clears the given tables with CASCADE.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateAll clears every module table.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	return p.TruncateTables(ctx, "consent_decision_logs", "consent_groups", "consent_categories", "websites")
}

// CreateTestWebsite inserts a website row and returns its id.
func (p *PostgresContainer) CreateTestWebsite(ctx context.Context, t testing.TB, slug string) id.WebsiteID {
	t.Helper()
	websiteID := id.WebsiteID(uuid.New())
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO websites (id, slug, name, hosts, default_locale, locales, api_keys, status, created_at, updated_at)
		VALUES ($1, $2, $2, jsonb_build_array($2 || '.example'), 'en', '["en"]', '{}', 'active', NOW(), NOW())
	`, uuid.UUID(websiteID), slug)
	if err != nil {
		t.Fatalf("CreateTestWebsite: %v", err)
	}
	return websiteID
}
