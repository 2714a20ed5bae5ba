// Package resolver decides which consent-gated script fragments are emitted at
// each injection point.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"consentry/internal/consent/metrics"
	"consentry/internal/consent/models"
	"consentry/internal/platform/tracer"
	websitemodels "consentry/internal/website/models"
)

// Input is everything one resolution depends on.
type Input struct {
	Website    *websitemodels.Website
	Point      models.Point
	Mapping    models.Mapping
	Categories models.Categories
	// Pending carries form values of a save that has not round-tripped through
	// the cookie yet. nil outside that flow.
	Pending models.Pending
}

// Resolver walks categories and groups in order and asks each strategy in
// turn for a fragment until one answers.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
}

type Option func(*Resolver)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New builds a resolver over an explicit strategy chain.
func New(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategies: strategies,
		logger:     slog.Default(),
		tracer:     tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefault chains the per-group template lookup before the inline script field.
func NewDefault(templates *TemplateStore, opts ...Option) *Resolver {
	r := New(nil, opts...)
	r.strategies = []Strategy{
		NewTemplateStrategy(templates, r.logger, r.metrics),
		InlineFieldStrategy{},
	}
	return r
}

// Eligible reports whether a group's scripts may run: explicit consent, a
// pending "on", or anonymized mode when the visitor declined or never decided.
func Eligible(g models.Group, mapping models.Mapping, pending models.Pending) bool {
	status, decided := mapping[g.Slug]
	switch {
	case decided && status:
		return true
	case decided && !status && g.Anonymize:
		return true
	case pending.On(g.Slug):
		return true
	case !decided && g.Anonymize:
		return true
	}
	return false
}

// Resolve returns the concatenated fragments for in.Point, or "" when nothing
// is eligible. Groups the website no longer offers (inactive) never emit.
// Identical fragments are emitted as often as they occur.
func (r *Resolver) Resolve(ctx context.Context, in Input) string {
	ctx, span := r.tracer.Start(ctx, tracer.SpanResolve,
		tracer.String(tracer.AttrPoint, string(in.Point)),
	)
	defer span.End(nil)
	if in.Website != nil {
		span.SetAttributes(tracer.String(tracer.AttrWebsite, in.Website.Slug))
	}

	var b strings.Builder
	emitted := 0
	for _, category := range in.Categories {
		for _, group := range category.Groups {
			if !group.Active || !Eligible(group, in.Mapping, in.Pending) {
				continue
			}
			req := FragmentRequest{
				Website: in.Website,
				Point:   in.Point,
				Group:   group,
				Status:  in.Mapping[group.Slug] || in.Pending.On(group.Slug),
			}
			for _, s := range r.strategies {
				fragment, ok := s.Fragment(ctx, req)
				if !ok {
					continue
				}
				b.WriteString(fragment)
				emitted++
				r.metrics.IncFragment(string(in.Point), s.Name())
				break
			}
		}
	}
	span.SetAttributes(tracer.Int(tracer.AttrFragments, emitted))
	return b.String()
}
