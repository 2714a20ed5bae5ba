// Package store holds the consent category/group registry per website and locale.
package store

import (
	"context"
	"fmt"
	"sort"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

// Store is the registry of consent categories. Reads dominate; writes come from
// the seeder only.
type Store interface {
	// ListCategories returns categories ordered by position then slug, each with
	// its groups ordered the same way. An unconfigured website/locale yields an
	// empty registry, not an error.
	ListCategories(ctx context.Context, websiteID id.WebsiteID, locale string) (models.Categories, error)
	// ReplaceCategories swaps the whole registry of a website/locale.
	ReplaceCategories(ctx context.Context, websiteID id.WebsiteID, locale string, categories models.Categories) error
}

// CheckUniqueSlugs enforces that group slugs are unique within one registry.
func CheckUniqueSlugs(categories models.Categories) error {
	seen := make(map[string]string)
	for _, c := range categories {
		for _, g := range c.Groups {
			if other, ok := seen[g.Slug]; ok {
				return fmt.Errorf("group slug %q appears in categories %q and %q", g.Slug, other, c.Slug)
			}
			seen[g.Slug] = c.Slug
		}
	}
	return nil
}

func sortCategories(categories models.Categories) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Position != categories[j].Position {
			return categories[i].Position < categories[j].Position
		}
		return categories[i].Slug < categories[j].Slug
	})
	for _, c := range categories {
		sort.SliceStable(c.Groups, func(i, j int) bool {
			if c.Groups[i].Position != c.Groups[j].Position {
				return c.Groups[i].Position < c.Groups[j].Position
			}
			return c.Groups[i].Slug < c.Groups[j].Slug
		})
	}
}
