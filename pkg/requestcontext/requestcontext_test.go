package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithClientMetadata(ctx, "203.0.113.7", "Mozilla/5.0")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "203.0.113.7", ClientIP(ctx))
	assert.Equal(t, "Mozilla/5.0", UserAgent(ctx))
}

func TestNow(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}
