package store

import (
	"context"
	"sync"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

// InMemory keeps registries keyed by website and locale.
type InMemory struct {
	mu         sync.RWMutex
	registries map[string]models.Categories
}

func New() *InMemory {
	return &InMemory{registries: make(map[string]models.Categories)}
}

func registryKey(websiteID id.WebsiteID, locale string) string {
	return websiteID.String() + "/" + locale
}

func (s *InMemory) ListCategories(_ context.Context, websiteID id.WebsiteID, locale string) (models.Categories, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cats, ok := s.registries[registryKey(websiteID, locale)]
	if !ok {
		return models.Categories{}, nil
	}
	return cats.Clone(), nil
}

func (s *InMemory) ReplaceCategories(_ context.Context, websiteID id.WebsiteID, locale string, categories models.Categories) error {
	if err := CheckUniqueSlugs(categories); err != nil {
		return err
	}
	cats := categories.Clone()
	for i := range cats {
		if cats[i].ID.IsNil() {
			cats[i].ID = id.NewCategoryID()
		}
		cats[i].WebsiteID = websiteID
		cats[i].Locale = locale
		for j := range cats[i].Groups {
			if cats[i].Groups[j].ID.IsNil() {
				cats[i].Groups[j].ID = id.NewGroupID()
			}
			cats[i].Groups[j].CategoryID = cats[i].ID
		}
	}
	sortCategories(cats)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.registries[registryKey(websiteID, locale)] = cats
	return nil
}
