package models

import (
	"strings"
	"time"

	id "consentry/pkg/domain"
	dErrors "consentry/pkg/domain-errors"
	pstrings "consentry/pkg/platform/strings"
	"consentry/pkg/validation"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Website is one tenant of the consent service. Requests are routed to it by Host.
type Website struct {
	ID            id.WebsiteID      `json:"id"`
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	Hosts         []string          `json:"hosts"`
	DefaultLocale string            `json:"default_locale"`
	Locales       []string          `json:"locales"`
	APIKeys       map[string]string `json:"-"`
	Status        Status            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (w *Website) IsActive() bool {
	return w.Status == StatusActive
}

// ResolveLocale returns requested when the website offers it, else the default locale.
func (w *Website) ResolveLocale(requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested == "" {
		return w.DefaultLocale
	}
	for _, l := range w.Locales {
		if l == requested {
			return l
		}
	}
	return w.DefaultLocale
}

// Clone returns a deep copy so stores never hand out shared maps or slices.
func (w *Website) Clone() *Website {
	if w == nil {
		return nil
	}
	c := *w
	c.Hosts = append([]string(nil), w.Hosts...)
	c.Locales = append([]string(nil), w.Locales...)
	if w.APIKeys != nil {
		c.APIKeys = make(map[string]string, len(w.APIKeys))
		for k, v := range w.APIKeys {
			c.APIKeys[k] = v
		}
	}
	return &c
}

// NewWebsite normalizes hosts and locales and enforces the website invariants:
// a slug, at least one host, and a default locale contained in Locales.
func NewWebsite(websiteID id.WebsiteID, slug, name string, hosts []string, defaultLocale string, locales []string, now time.Time) (*Website, error) {
	slug = strings.TrimSpace(slug)
	if !validation.IsSlug(slug) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "website slug must be a lowercase slug")
	}
	if strings.TrimSpace(name) == "" {
		name = slug
	}
	hosts = pstrings.DedupeAndTrimLower(hosts)
	if len(hosts) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "website needs at least one host")
	}
	defaultLocale = strings.ToLower(strings.TrimSpace(defaultLocale))
	if defaultLocale == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "website default locale cannot be empty")
	}
	locales = pstrings.DedupeAndTrimLower(append([]string{defaultLocale}, locales...))
	return &Website{
		ID:            websiteID,
		Slug:          slug,
		Name:          name,
		Hosts:         hosts,
		DefaultLocale: defaultLocale,
		Locales:       locales,
		APIKeys:       map[string]string{},
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
