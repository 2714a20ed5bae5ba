package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"consentry/internal/website/models"
	id "consentry/pkg/domain"
	"consentry/pkg/platform/sentinel"
)

// PostgresStore persists websites in PostgreSQL. Hosts, locales and API keys are
// jsonb columns; host lookups use jsonb containment.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const websiteColumns = `id, slug, name, hosts, default_locale, locales, api_keys, status, created_at, updated_at`

func (s *PostgresStore) Upsert(ctx context.Context, w *models.Website) error {
	if w == nil {
		return fmt.Errorf("website is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin website upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, h := range w.Hosts {
		var owner string
		err := tx.QueryRowContext(ctx,
			`SELECT slug FROM websites WHERE hosts @> jsonb_build_array($1::text) AND slug <> $2`,
			strings.ToLower(h), w.Slug,
		).Scan(&owner)
		if err == nil {
			return fmt.Errorf("host %s belongs to website %s: %w", h, owner, sentinel.ErrAlreadyUsed)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check website host: %w", err)
		}
	}

	hosts, locales, keys, err := marshalWebsiteJSON(w)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO websites (` + websiteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			hosts = EXCLUDED.hosts,
			default_locale = EXCLUDED.default_locale,
			locales = EXCLUDED.locales,
			api_keys = EXCLUDED.api_keys,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	var storedID uuid.UUID
	err = tx.QueryRowContext(ctx, query,
		uuid.UUID(w.ID), w.Slug, w.Name, hosts, w.DefaultLocale, locales, keys,
		string(w.Status), w.CreatedAt, w.UpdatedAt,
	).Scan(&storedID, &w.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("website id already exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("upsert website: %w", err)
	}
	w.ID = id.WebsiteID(storedID)
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit website upsert: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByHost(ctx context.Context, host string) (*models.Website, error) {
	query := `SELECT ` + websiteColumns + ` FROM websites WHERE hosts @> jsonb_build_array($1::text)`
	w, err := scanWebsite(s.db.QueryRowContext(ctx, query, strings.ToLower(host)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find website by host: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) FindBySlug(ctx context.Context, slug string) (*models.Website, error) {
	query := `SELECT ` + websiteColumns + ` FROM websites WHERE slug = $1`
	w, err := scanWebsite(s.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find website by slug: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Website, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+websiteColumns+` FROM websites ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	defer rows.Close()

	var out []*models.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan website: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate websites: %w", err)
	}
	return out, nil
}

type websiteRow interface {
	Scan(dest ...any) error
}

func scanWebsite(row websiteRow) (*models.Website, error) {
	var (
		w                    models.Website
		websiteID            uuid.UUID
		status               string
		hosts, locales, keys []byte
	)
	if err := row.Scan(&websiteID, &w.Slug, &w.Name, &hosts, &w.DefaultLocale, &locales, &keys,
		&status, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.ID = id.WebsiteID(websiteID)
	w.Status = models.Status(status)
	if err := json.Unmarshal(hosts, &w.Hosts); err != nil {
		return nil, fmt.Errorf("decode hosts: %w", err)
	}
	if err := json.Unmarshal(locales, &w.Locales); err != nil {
		return nil, fmt.Errorf("decode locales: %w", err)
	}
	if len(keys) > 0 {
		if err := json.Unmarshal(keys, &w.APIKeys); err != nil {
			return nil, fmt.Errorf("decode api keys: %w", err)
		}
	}
	return &w, nil
}

func marshalWebsiteJSON(w *models.Website) (hosts, locales, keys []byte, err error) {
	if hosts, err = json.Marshal(w.Hosts); err != nil {
		return nil, nil, nil, fmt.Errorf("encode hosts: %w", err)
	}
	if locales, err = json.Marshal(w.Locales); err != nil {
		return nil, nil, nil, fmt.Errorf("encode locales: %w", err)
	}
	apiKeys := w.APIKeys
	if apiKeys == nil {
		apiKeys = map[string]string{}
	}
	if keys, err = json.Marshal(apiKeys); err != nil {
		return nil, nil, nil, fmt.Errorf("encode api keys: %w", err)
	}
	return hosts, locales, keys, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
