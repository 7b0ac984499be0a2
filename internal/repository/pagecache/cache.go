// Package pagecache caches rendered query pages in a key-value store.
package pagecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/query/page"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
)

// DefaultPrefix namespaces every cache key.
const DefaultPrefix = "storefront:page:"

// store is the consumer interface for the page cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

type querier[T any] interface {
	Query(ctx context.Context, q *request.Query) (result.Page[T], error)
}

// Config controls key layout and expiry.
type Config struct {
	// Prefix defaults to DefaultPrefix.
	Prefix string
	// Surface separates the key spaces of different collections.
	Surface string
	// TTL of zero stores pages without expiry.
	TTL time.Duration
}

// Cached is a read-through cache in front of a querier. Cache failures are
// logged and bypassed; the inner querier stays authoritative.
type Cached[T any] struct {
	inner      querier[T]
	store      store
	cfg        Config
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New[T any](
	inner querier[T],
	s store,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cached[T] {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	return &Cached[T]{
		inner:      inner,
		store:      s,
		cfg:        cfg,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// entry is the stored form of a page.
type entry[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Index int `json:"index"`
	Count int `json:"count"`
	Size  int `json:"size"`
}

// Query returns a cached page or evaluates and stores it. Concurrent misses
// on the same key share one evaluation.
func (c *Cached[T]) Query(ctx context.Context, q *request.Query) (result.Page[T], error) {
	key := c.key(q)

	if p, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return p, nil
	}
	c.incCache("miss")

	// The shared evaluation outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		p, err := c.inner.Query(shared, q)
		if err != nil {
			return nil, err
		}
		c.putToCache(shared, key, p)
		return p, nil
	})
	if err != nil {
		return result.Page[T]{}, fmt.Errorf("query %s: %w", c.cfg.Surface, err)
	}
	return v.(result.Page[T]), nil
}

// Purge deletes every cached page of this surface and returns how many
// keys were removed.
func (c *Cached[T]) Purge(ctx context.Context) (int, error) {
	keys, err := c.store.Scan(ctx, c.cfg.Prefix+c.cfg.Surface+":*")
	if err != nil {
		return 0, fmt.Errorf("scan %s pages: %w", c.cfg.Surface, err)
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("delete %s pages: %w", c.cfg.Surface, err)
	}
	return len(keys), nil
}

func (c *Cached[T]) key(q *request.Query) string {
	return c.cfg.Prefix + c.cfg.Surface + ":" + q.CacheKey()
}

func (c *Cached[T]) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cached[T]) getFromCache(ctx context.Context, key string) (result.Page[T], bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached page", zap.String("key", key), zap.Error(err))
		}
		return result.Page[T]{}, false
	}
	if len(data) == 0 {
		return result.Page[T]{}, false
	}

	var e entry[T]
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached page", zap.String("key", key), zap.Error(err))
		return result.Page[T]{}, false
	}
	if e.Count < 1 || e.Size < 1 {
		c.logger.Warn("Discarding malformed cached page", zap.String("key", key))
		return result.Page[T]{}, false
	}

	meta := page.Meta{Index: e.Index, Count: e.Count, Size: e.Size, Total: e.Total}
	return result.NewPage(e.Items, meta), true
}

func (c *Cached[T]) putToCache(ctx context.Context, key string, p result.Page[T]) {
	e := entry[T]{
		Items: p.Items(),
		Total: p.TotalMatched(),
		Index: p.PageIndex(),
		Count: p.PageCount(),
		Size:  p.PageSize(),
	}
	data, err := json.Marshal(e)
	if err != nil {
		c.logger.Warn("Failed to encode page", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.cfg.TTL); err != nil {
		c.logger.Warn("Failed to cache page", zap.String("key", key), zap.Error(err))
	}
}
