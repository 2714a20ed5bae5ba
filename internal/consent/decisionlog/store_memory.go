package decisionlog

import (
	"context"
	"slices"
	"sync"
	"time"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries []models.DecisionLogEntry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry models.DecisionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// ListByWebsite returns the newest entries first.
func (s *InMemoryStore) ListByWebsite(_ context.Context, websiteID id.WebsiteID, limit int) ([]models.DecisionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.DecisionLogEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].WebsiteID != websiteID {
			continue
		}
		out = append(out, s.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e models.DecisionLogEntry) bool {
		return e.CreatedAt.Before(cutoff)
	})
	return int64(before - len(s.entries)), nil
}

// Len is used by tests and the admin endpoint's dry runs.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
