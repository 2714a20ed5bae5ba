package resolver

import (
	"bytes"
	"context"
	"log/slog"
	"path"

	"consentry/internal/consent/metrics"
	"consentry/internal/consent/models"
	websitemodels "consentry/internal/website/models"
)

// FragmentRequest identifies one eligible group at one injection point.
type FragmentRequest struct {
	Website *websitemodels.Website
	Point   models.Point
	Group   models.Group
	// Status is true when the visitor explicitly consented (cookie or pending
	// form value); false means the group runs anonymized.
	Status bool
}

// Strategy produces a fragment for a group or declines with ok=false.
type Strategy interface {
	Name() string
	Fragment(ctx context.Context, req FragmentRequest) (fragment string, ok bool)
}

// TemplateContext is the data a per-group script template is executed with.
type TemplateContext struct {
	Status  bool
	Slug    string
	Website *websitemodels.Website
	API     map[string]string
}

// TemplateStrategy renders <point>/<slug>.tmpl, preferring the copy under
// websites/<website-slug>/. Parse and execution errors are logged and the
// chain moves on.
type TemplateStrategy struct {
	templates *TemplateStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewTemplateStrategy(templates *TemplateStore, logger *slog.Logger, m *metrics.Metrics) *TemplateStrategy {
	return &TemplateStrategy{templates: templates, logger: logger, metrics: m}
}

func (TemplateStrategy) Name() string { return "template" }

func (s *TemplateStrategy) Fragment(ctx context.Context, req FragmentRequest) (string, bool) {
	if s.templates == nil {
		return "", false
	}
	tmpl, err := s.templates.Script(ScriptTemplatePaths(req.Website, req.Point, req.Group.Slug)...)
	if err != nil {
		s.metrics.IncTemplateError()
		s.logger.WarnContext(ctx, "script template failed to parse",
			"error", err,
			"group", req.Group.Slug,
			"point", string(req.Point),
		)
		return "", false
	}
	if tmpl == nil {
		return "", false
	}

	data := TemplateContext{Status: req.Status, Slug: req.Group.Slug, Website: req.Website}
	if req.Website != nil {
		data.API = req.Website.APIKeys
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.metrics.IncTemplateError()
		s.logger.WarnContext(ctx, "script template failed to execute",
			"error", err,
			"template", tmpl.Name(),
			"group", req.Group.Slug,
		)
		return "", false
	}
	return buf.String(), true
}

// ScriptTemplatePaths lists candidate template paths, most specific first.
func ScriptTemplatePaths(website *websitemodels.Website, point models.Point, slug string) []string {
	generic := path.Join(string(point), slug+".tmpl")
	if website == nil || website.Slug == "" {
		return []string{generic}
	}
	return []string{path.Join("websites", website.Slug, generic), generic}
}

// InlineFieldStrategy emits the group's script field when its placement flag
// matches the point: head scripts at "scripts", the rest at "body-prepend".
// "body-append" only ever receives templated fragments.
type InlineFieldStrategy struct{}

func (InlineFieldStrategy) Name() string { return "inline" }

func (InlineFieldStrategy) Fragment(_ context.Context, req FragmentRequest) (string, bool) {
	if req.Group.Script == "" {
		return "", false
	}
	switch req.Point {
	case models.PointScripts:
		return req.Group.Script, req.Group.ScriptInHead
	case models.PointBodyPrepend:
		return req.Group.Script, !req.Group.ScriptInHead
	default:
		return "", false
	}
}
