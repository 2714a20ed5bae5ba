// Package decisionlog keeps proof that visitors made consent decisions. Entries
// are append-only and purged once the retention period has passed.
package decisionlog

import (
	"context"
	"time"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

// Store persists decision log entries.
type Store interface {
	Append(ctx context.Context, entry models.DecisionLogEntry) error
	ListByWebsite(ctx context.Context, websiteID id.WebsiteID, limit int) ([]models.DecisionLogEntry, error)
	// DeleteBefore removes entries created strictly before cutoff and reports how many went.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sink receives a copy of every persisted entry. Sink failures never fail the decision.
type Sink interface {
	Publish(ctx context.Context, entry models.DecisionLogEntry) error
}
