//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"consentry/internal/consent/models"
	"consentry/internal/consent/store"
	id "consentry/pkg/domain"
	"consentry/pkg/testutil"
	"consentry/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *store.PostgresStore
	websiteID id.WebsiteID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))
	s.websiteID = s.postgres.CreateTestWebsite(ctx, s.T(), "acme")
}

func (s *PostgresStoreSuite) TestReplaceAndListPreservesOrderAndFields() {
	ctx := context.Background()
	s.Require().NoError(s.store.ReplaceCategories(ctx, s.websiteID, "en", testutil.TwoGroupRegistry()))

	cats, err := s.store.ListCategories(ctx, s.websiteID, "en")
	s.Require().NoError(err)
	s.Require().Len(cats, 3)
	s.Equal([]string{"functional", "statistics", "media"}, []string{cats[0].Slug, cats[1].Slug, cats[2].Slug})

	embed := cats[2].Groups[0]
	s.Equal("essential-embed", embed.Slug)
	s.True(embed.Anonymize)
	s.True(embed.Reload)
	s.Equal("youtube", embed.Service)
	s.Equal([]string{"YSC"}, embed.CookieCodes)
	s.Equal(cats[2].ID, embed.CategoryID)
}

func (s *PostgresStoreSuite) TestReplaceSwapsWholeRegistry() {
	ctx := context.Background()
	s.Require().NoError(s.store.ReplaceCategories(ctx, s.websiteID, "en", testutil.TwoGroupRegistry()))
	s.Require().NoError(s.store.ReplaceCategories(ctx, s.websiteID, "en", testutil.WithMarketing(testutil.TwoGroupRegistry())))

	cats, err := s.store.ListCategories(ctx, s.websiteID, "en")
	s.Require().NoError(err)
	s.Len(cats, 4)
	s.Len(models.Categories(cats).Consentable(), 3)
}

func (s *PostgresStoreSuite) TestEmptyCategoryAndUnknownLocale() {
	ctx := context.Background()
	s.Require().NoError(s.store.ReplaceCategories(ctx, s.websiteID, "de", models.Categories{{Slug: "empty"}}))

	cats, err := s.store.ListCategories(ctx, s.websiteID, "de")
	s.Require().NoError(err)
	s.Require().Len(cats, 1)
	s.Empty(cats[0].Groups)

	none, err := s.store.ListCategories(ctx, s.websiteID, "fr")
	s.Require().NoError(err)
	s.Empty(none)
}
