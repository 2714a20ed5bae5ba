package redis

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentry/internal/platform/config"
)

func TestNewWithoutURLDisablesRedis(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{}, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestPoolMetricsObserveAddsDeltas(t *testing.T) {
	m := NewPoolMetrics(prometheus.NewRegistry())

	first := &redis.PoolStats{Hits: 10, Misses: 2, TotalConns: 4, IdleConns: 3}
	m.observe(nil, first)
	assert.Equal(t, 10.0, testutil.ToFloat64(m.hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.misses))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.totalConns))

	second := &redis.PoolStats{Hits: 15, Misses: 2, Timeouts: 1, StaleConns: 1, TotalConns: 2, IdleConns: 1}
	m.observe(first, second)
	assert.Equal(t, 15.0, testutil.ToFloat64(m.hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.timeouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleConns))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.totalConns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.idleConns))
}

func TestPoolMetricsIgnoreShrinkingTotals(t *testing.T) {
	m := NewPoolMetrics(prometheus.NewRegistry())
	m.observe(nil, &redis.PoolStats{Hits: 10})
	m.observe(&redis.PoolStats{Hits: 10}, &redis.PoolStats{Hits: 3})
	assert.Equal(t, 10.0, testutil.ToFloat64(m.hits))
}

func TestNilPoolMetricsIsNoop(t *testing.T) {
	var m *PoolMetrics
	assert.NotPanics(t, func() { m.observe(nil, &redis.PoolStats{Hits: 1}) })
}
