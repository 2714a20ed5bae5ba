// Package tracer is a small span abstraction so consent code can emit traces
// without importing OpenTelemetry everywhere.
//
// Implementations:
//   - NoopTracer: tests and deployments without a collector
//   - OTelTracer: OpenTelemetry adapter
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span. End must be called exactly once.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := tr.Start(ctx, tracer.SpanResolve,
//	    tracer.String(tracer.AttrWebsite, site.Slug),
//	    tracer.String(tracer.AttrPoint, string(point)),
//	)
//	defer span.End(nil)
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

func Bool(key string, value bool) Attribute { return Attribute{Key: key, Value: value} }

func Int(key string, value int) Attribute { return Attribute{Key: key, Value: int64(value)} }

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanRegistryLoad = "consent.registry.load"
	SpanResolve      = "consent.resolve"
	SpanMutation     = "consent.mutation"
	SpanDecisionLog  = "consent.decision_log.append"
)

// Attribute keys.
const (
	AttrWebsite   = "consent.website"
	AttrLocale    = "consent.locale"
	AttrPoint     = "consent.point"
	AttrAction    = "consent.action"
	AttrCacheHit  = "cache.hit"
	AttrFragments = "consent.fragments"
)
