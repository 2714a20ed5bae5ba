package decisionlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, e models.DecisionLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consent_decision_logs
			(id, website_id, action, record, have_denied, client_ip_prefix, user_agent, locale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(e.ID), uuid.UUID(e.WebsiteID), string(e.Action), e.Record, e.HaveDenied,
		e.ClientIPPrefix, e.UserAgent, e.Locale, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append decision log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByWebsite(ctx context.Context, websiteID id.WebsiteID, limit int) ([]models.DecisionLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, website_id, action, record, have_denied, client_ip_prefix, user_agent, locale, created_at
		FROM consent_decision_logs
		WHERE website_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, uuid.UUID(websiteID), limit)
	if err != nil {
		return nil, fmt.Errorf("list decision log: %w", err)
	}
	defer rows.Close()

	var out []models.DecisionLogEntry
	for rows.Next() {
		var (
			e           models.DecisionLogEntry
			entryID     uuid.UUID
			websiteUUID uuid.UUID
			action      string
		)
		if err := rows.Scan(&entryID, &websiteUUID, &action, &e.Record, &e.HaveDenied,
			&e.ClientIPPrefix, &e.UserAgent, &e.Locale, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision log: %w", err)
		}
		e.ID = id.DecisionID(entryID)
		e.WebsiteID = id.WebsiteID(websiteUUID)
		e.Action = models.Action(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision log: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM consent_decision_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired decision log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted decision log: %w", err)
	}
	return n, nil
}
