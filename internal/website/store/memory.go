package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"consentry/internal/website/models"
	"consentry/pkg/platform/sentinel"
)

// InMemory keeps websites in maps indexed by slug and host.
type InMemory struct {
	mu      sync.RWMutex
	bySlug  map[string]*models.Website
	hostIdx map[string]string
}

func NewInMemory() *InMemory {
	return &InMemory{
		bySlug:  make(map[string]*models.Website),
		hostIdx: make(map[string]string),
	}
}

func (s *InMemory) Upsert(_ context.Context, w *models.Website) error {
	if w == nil {
		return fmt.Errorf("website is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range w.Hosts {
		if owner, ok := s.hostIdx[strings.ToLower(h)]; ok && owner != w.Slug {
			return fmt.Errorf("host %s belongs to website %s: %w", h, owner, sentinel.ErrAlreadyUsed)
		}
	}
	if prev, ok := s.bySlug[w.Slug]; ok {
		for _, h := range prev.Hosts {
			delete(s.hostIdx, strings.ToLower(h))
		}
		w.ID = prev.ID
		w.CreatedAt = prev.CreatedAt
	}
	s.bySlug[w.Slug] = w.Clone()
	for _, h := range w.Hosts {
		s.hostIdx[strings.ToLower(h)] = w.Slug
	}
	return nil
}

func (s *InMemory) FindByHost(_ context.Context, host string) (*models.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slug, ok := s.hostIdx[strings.ToLower(host)]; ok {
		return s.bySlug[slug].Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindBySlug(_ context.Context, slug string) (*models.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.bySlug[slug]; ok {
		return w.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*models.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Website, 0, len(s.bySlug))
	for _, w := range s.bySlug {
		out = append(out, w.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}
