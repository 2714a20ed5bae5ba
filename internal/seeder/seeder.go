// Package seeder loads websites and their consent registries from a YAML fixture.
package seeder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	consentmodels "consentry/internal/consent/models"
	websitemodels "consentry/internal/website/models"
	id "consentry/pkg/domain"
)

// WebsiteStore defines methods for seeding websites.
type WebsiteStore interface {
	Upsert(ctx context.Context, w *websitemodels.Website) error
}

// RegistryStore defines methods for seeding consent registries.
type RegistryStore interface {
	ReplaceCategories(ctx context.Context, websiteID id.WebsiteID, locale string, categories consentmodels.Categories) error
}

// Fixture is the on-disk seed format.
//
//	websites:
//	  - slug: acme
//	    hosts: [acme.example, localhost]
//	    default_locale: en
//	    registries:
//	      en:
//	        - slug: functional
//	          groups: [{slug: session, active: true}]
type Fixture struct {
	Websites []WebsiteFixture `yaml:"websites"`
}

type WebsiteFixture struct {
	Slug          string                              `yaml:"slug"`
	Name          string                              `yaml:"name"`
	Hosts         []string                            `yaml:"hosts"`
	DefaultLocale string                              `yaml:"default_locale"`
	Locales       []string                            `yaml:"locales"`
	APIKeys       map[string]string                   `yaml:"api_keys"`
	Inactive      bool                                `yaml:"inactive"`
	Registries    map[string]consentmodels.Categories `yaml:"registries"`
}

// Seeder upserts fixture content. Running it twice leaves the stores unchanged.
type Seeder struct {
	websites WebsiteStore
	registry RegistryStore
	logger   *slog.Logger
}

func New(websites WebsiteStore, registry RegistryStore, logger *slog.Logger) *Seeder {
	return &Seeder{websites: websites, registry: registry, logger: logger}
}

// ParseFixture decodes a fixture, rejecting unknown keys.
func ParseFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	return &f, nil
}

// SeedFile loads and applies the fixture at path.
func (s *Seeder) SeedFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed fixture: %w", err)
	}
	f, err := ParseFixture(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return s.Seed(ctx, f)
}

// Seed upserts every website, then replaces each configured registry.
func (s *Seeder) Seed(ctx context.Context, f *Fixture) error {
	now := time.Now().UTC()
	groups := 0
	for _, wf := range f.Websites {
		site, err := websitemodels.NewWebsite(id.NewWebsiteID(), wf.Slug, wf.Name, wf.Hosts, wf.DefaultLocale, wf.Locales, now)
		if err != nil {
			return fmt.Errorf("website %q: %w", wf.Slug, err)
		}
		for k, v := range wf.APIKeys {
			site.APIKeys[k] = v
		}
		if wf.Inactive {
			site.Status = websitemodels.StatusInactive
		}
		if err := s.websites.Upsert(ctx, site); err != nil {
			return fmt.Errorf("upsert website %q: %w", wf.Slug, err)
		}

		for locale, cats := range wf.Registries {
			if err := s.registry.ReplaceCategories(ctx, site.ID, locale, cats); err != nil {
				return fmt.Errorf("registry %s/%s: %w", wf.Slug, locale, err)
			}
			for _, c := range cats {
				groups += len(c.Groups)
			}
		}
	}
	s.logger.Info("seed fixture applied",
		"websites", len(f.Websites),
		"groups", groups,
	)
	return nil
}
