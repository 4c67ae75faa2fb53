// Package cache is a redis-backed read cache for catalog projections. Cart
// and auth data are never cached; they are per-session and owned by the
// remote platform.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:"

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog cache hits by key class",
		},
		[]string{"class"},
	)
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Catalog cache misses by key class",
		},
		[]string{"class"},
	)
)

// ErrMiss is returned when the key is absent or the entry cannot be decoded.
var ErrMiss = errors.New("cache miss")

// Catalog caches serialized catalog projections with per-class TTLs.
type Catalog struct {
	client *redis.Client
}

// NewCatalog creates a redis-backed catalog cache.
func NewCatalog(client *redis.Client) *Catalog {
	return &Catalog{client: client}
}

// Get loads the entry for key into out. class labels the hit/miss metrics
// (e.g. "product", "collection", "featured").
func (c *Catalog) Get(ctx context.Context, class, key string, out any) error {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		cacheMisses.WithLabelValues(class).Inc()
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// A corrupt entry behaves like a miss; the caller refetches and
		// overwrites it.
		cacheMisses.WithLabelValues(class).Inc()
		return ErrMiss
	}

	cacheHits.WithLabelValues(class).Inc()
	return nil
}

// Set stores value under key for the given TTL.
func (c *Catalog) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
