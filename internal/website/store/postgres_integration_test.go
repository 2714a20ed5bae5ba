//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"consentry/internal/website/models"
	"consentry/internal/website/store"
	id "consentry/pkg/domain"
	"consentry/pkg/platform/sentinel"
	"consentry/pkg/testutil"
	"consentry/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
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
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) site(slug string, hosts ...string) *models.Website {
	w, err := models.NewWebsite(id.NewWebsiteID(), slug, "", hosts, "en", []string{"de"}, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	w.APIKeys["matomo"] = "7"
	return w
}

func (s *PostgresStoreSuite) TestUpsertAndLookup() {
	ctx := context.Background()
	w := s.site("acme", "acme.example", "www.acme.example")
	s.Require().NoError(s.store.Upsert(ctx, w))

	found, err := s.store.FindByHost(ctx, "WWW.ACME.EXAMPLE")
	s.Require().NoError(err)
	s.Equal(w.ID, found.ID)
	s.Equal([]string{"en", "de"}, found.Locales)
	s.Equal("7", found.APIKeys["matomo"])

	_, err = s.store.FindBySlug(ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertKeepsIDOnSlugConflict() {
	ctx := context.Background()
	first := s.site("acme", "acme.example")
	s.Require().NoError(s.store.Upsert(ctx, first))

	second := s.site("acme", "new.acme.example")
	s.Require().NoError(s.store.Upsert(ctx, second))
	s.Equal(first.ID, second.ID)

	_, err := s.store.FindByHost(ctx, "acme.example")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentHostClaims() {
	ctx := context.Background()
	result := testutil.RunConcurrent(8, func(idx int) error {
		return s.store.Upsert(ctx, s.site(fmt.Sprintf("site-%d", idx), fmt.Sprintf("site-%d.example", idx)))
	})
	s.Equal(int32(8), result.Successes)

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 8)
}
