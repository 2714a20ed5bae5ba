package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks RegistryStore DecisionLog DecisionPurger TemplateSource

import (
	"context"
	htmltemplate "html/template"
	"time"

	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
)

// RegistryStore loads the category/group registry of a website and locale.
// An unconfigured locale yields an empty registry, not an error.
type RegistryStore interface {
	ListCategories(ctx context.Context, websiteID id.WebsiteID, locale string) (models.Categories, error)
}

// DecisionLog records proof of each consent mutation.
type DecisionLog interface {
	Emit(ctx context.Context, entry models.DecisionLogEntry) error
}

// DecisionPurger removes decision log entries older than cutoff.
type DecisionPurger interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TemplateSource resolves server-rendered views, most specific path first.
// A nil template with a nil error means none of the paths exist.
type TemplateSource interface {
	HTML(paths ...string) (*htmltemplate.Template, error)
}
