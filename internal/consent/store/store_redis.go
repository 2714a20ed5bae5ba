package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"consentry/internal/consent/metrics"
	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
	"consentry/pkg/platform/circuit"
)

const (
	redisRegistryKeyPrefix = "consentry:registry:"
	registryLoadTimeout    = 10 * time.Second
)

// RedisClient is the subset of *redis.Client the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedStore decorates a Store with a Redis read-through cache. Concurrent
// misses for the same registry share one backing load. Redis failures degrade
// to the backing store; repeated failures open a circuit that skips Redis
// until a probe succeeds.
type CachedStore struct {
	next    Store
	client  RedisClient
	ttl     time.Duration
	flight  singleflight.Group
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// CacheOption configures a CachedStore.
type CacheOption func(*CachedStore)

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) CacheOption {
	return func(c *CachedStore) {
		if b != nil {
			c.breaker = b
		}
	}
}

// NewRedisCache wraps next. metrics may be nil.
func NewRedisCache(next Store, client RedisClient, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger, opts ...CacheOption) *CachedStore {
	c := &CachedStore{
		next:    next,
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("registry_cache"),
		metrics: m,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedStore) ListCategories(ctx context.Context, websiteID id.WebsiteID, locale string) (models.Categories, error) {
	key := registryCacheKey(websiteID, locale)

	if !c.breaker.Allow() {
		c.metrics.RecordCacheLookup("bypass")
		return c.load(ctx, websiteID, locale, key, false)
	}

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		c.succeeded(ctx)
		var cats models.Categories
		if decodeErr := json.Unmarshal(data, &cats); decodeErr == nil {
			c.metrics.RecordCacheLookup("hit")
			return cats, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable registry cache entry", "key", key)
		c.metrics.RecordCacheLookup("error")
	case errors.Is(err, redis.Nil):
		c.succeeded(ctx)
		c.metrics.RecordCacheLookup("miss")
	default:
		c.failed(ctx, err)
		c.logger.WarnContext(ctx, "registry cache read failed", "error", err, "key", key)
		c.metrics.RecordCacheLookup("error")
		return c.load(ctx, websiteID, locale, key, false)
	}
	return c.load(ctx, websiteID, locale, key, true)
}

// load reads the backing store, filling the cache when fill is set. Callers on
// the same key share one load that outlives any single caller's ctx.
func (c *CachedStore) load(ctx context.Context, websiteID id.WebsiteID, locale, key string, fill bool) (models.Categories, error) {
	flightKey := key
	if !fill {
		flightKey += ":bypass"
	}
	ch := c.flight.DoChan(flightKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), registryLoadTimeout)
		defer cancel()

		start := time.Now()
		cats, err := c.next.ListCategories(loadCtx, websiteID, locale)
		c.metrics.ObserveRegistryLoad(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		if !fill {
			return cats, nil
		}
		payload, err := json.Marshal(cats)
		if err != nil {
			return nil, fmt.Errorf("encode registry cache: %w", err)
		}
		if err := c.client.Set(loadCtx, key, payload, c.ttl).Err(); err != nil {
			c.failed(loadCtx, err)
			c.logger.WarnContext(loadCtx, "registry cache write failed", "error", err, "key", key)
		}
		return cats, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(models.Categories).Clone(), nil
	}
}

// ReplaceCategories writes through and evicts the cached registry.
func (c *CachedStore) ReplaceCategories(ctx context.Context, websiteID id.WebsiteID, locale string, categories models.Categories) error {
	if err := c.next.ReplaceCategories(ctx, websiteID, locale, categories); err != nil {
		return err
	}
	if err := c.client.Del(ctx, registryCacheKey(websiteID, locale)).Err(); err != nil {
		return fmt.Errorf("evict registry cache: %w", err)
	}
	return nil
}

func (c *CachedStore) succeeded(ctx context.Context) {
	if c.breaker.RecordSuccess().Closed {
		c.logger.InfoContext(ctx, "registry cache circuit closed", "breaker", c.breaker.Name())
	}
}

func (c *CachedStore) failed(ctx context.Context, err error) {
	if c.breaker.RecordFailure().Opened {
		c.logger.WarnContext(ctx, "registry cache circuit opened", "breaker", c.breaker.Name(), "error", err)
	}
}

func registryCacheKey(websiteID id.WebsiteID, locale string) string {
	return redisRegistryKeyPrefix + websiteID.String() + ":" + locale
}
