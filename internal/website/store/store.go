// Package store persists websites and answers Host lookups.
package store

import (
	"context"

	"consentry/internal/website/models"
)

// Store is implemented by the in-memory and Postgres website stores.
type Store interface {
	// Upsert creates the website or replaces the one with the same slug.
	// Hosts already claimed by another website yield sentinel.ErrAlreadyUsed.
	Upsert(ctx context.Context, w *models.Website) error
	FindByHost(ctx context.Context, host string) (*models.Website, error)
	FindBySlug(ctx context.Context, slug string) (*models.Website, error)
	List(ctx context.Context) ([]*models.Website, error)
}
