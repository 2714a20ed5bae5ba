package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

func sampleRegistry() models.Categories {
	return models.Categories{
		{Slug: "statistics", Position: 2, Groups: []models.Group{
			{Slug: "matomo", Active: true, Position: 2},
			{Slug: "analytics", Active: true, Position: 1, CookieCodes: []string{"_ga"}},
		}},
		{Slug: models.FunctionalCategory, Position: 1, Groups: []models.Group{
			{Slug: "session", Active: true},
		}},
	}
}

func TestInMemoryReplaceAndList(t *testing.T) {
	s := New()
	ctx := context.Background()
	site := id.NewWebsiteID()

	empty, err := s.ListCategories(ctx, site, "en")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.ReplaceCategories(ctx, site, "en", sampleRegistry()))

	cats, err := s.ListCategories(ctx, site, "en")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, models.FunctionalCategory, cats[0].Slug, "ordered by position")
	assert.Equal(t, "analytics", cats[1].Groups[0].Slug)
	assert.Equal(t, site, cats[1].WebsiteID)
	assert.Equal(t, "en", cats[1].Locale)
	assert.False(t, cats[1].ID.IsNil())
	assert.Equal(t, cats[1].ID, cats[1].Groups[0].CategoryID)

	other, err := s.ListCategories(ctx, site, "de")
	require.NoError(t, err)
	assert.Empty(t, other, "registries are per locale")
}

func TestInMemoryReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	site := id.NewWebsiteID()
	require.NoError(t, s.ReplaceCategories(ctx, site, "en", sampleRegistry()))

	cats, err := s.ListCategories(ctx, site, "en")
	require.NoError(t, err)
	cats[1].Groups[0].CookieCodes[0] = "mutated"

	again, err := s.ListCategories(ctx, site, "en")
	require.NoError(t, err)
	assert.Equal(t, "_ga", again[1].Groups[0].CookieCodes[0])
}

func TestReplaceRejectsDuplicateGroupSlugs(t *testing.T) {
	s := New()
	dup := models.Categories{
		{Slug: "a", Groups: []models.Group{{Slug: "meta"}}},
		{Slug: "b", Groups: []models.Group{{Slug: "meta"}}},
	}
	err := s.ReplaceCategories(context.Background(), id.NewWebsiteID(), "en", dup)
	assert.ErrorContains(t, err, `"meta"`)
}
