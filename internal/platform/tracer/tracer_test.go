package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"consentry/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, tracer.SpanResolve, tracer.String(tracer.AttrPoint, "scripts"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Int(tracer.AttrFragments, 2))
	span.AddEvent("template.miss")
	span.End(errors.New("boom"))
}

func TestOTelTracerWithNoopProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))
	_, span := tr.Start(context.Background(), tracer.SpanMutation,
		tracer.String(tracer.AttrAction, "accept_all"),
		tracer.Bool(tracer.AttrCacheHit, true),
	)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Duration("elapsed", time.Millisecond))
	span.End(nil)
}

func TestAttributeConstructors(t *testing.T) {
	assert.Equal(t, int64(3), tracer.Int("n", 3).Value)
	assert.Equal(t, int64(150), tracer.Duration("latency", 150*time.Millisecond).Value)
	assert.Equal(t, true, tracer.Bool("hit", true).Value)
}
