// Package cache memoizes ranked search results in Redis for the lifetime of
// one ingestion run.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/searcher/ranker"
	pkgredis "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/resilience"
)

const keyPrefix = "feedsearch:"

// Store is satisfied by *redis.Client.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// QueryCache keys results by run and normalized term, so results of one run
// are never served to another. Store failures degrade to a miss; repeated
// failures trip a breaker and the store is bypassed until it recovers.
type QueryCache struct {
	store   Store
	prefix  string
	ttl     time.Duration
	breaker *resilience.Breaker
	group   singleflight.Group
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(store Store, runID string, ttl time.Duration) *QueryCache {
	return &QueryCache{
		store:   store,
		prefix:  keyPrefix + runID + ":",
		ttl:     ttl,
		breaker: resilience.NewBreaker("search-cache", resilience.BreakerConfig{FailureThreshold: 3}),
		logger:  slog.Default().With("component", "query-cache", "run_id", runID),
	}
}

func (c *QueryCache) Get(ctx context.Context, term string) ([]ranker.Result, bool) {
	key := c.key(term)
	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.store.Get(ctx, key)
		if pkgredis.IsNilError(err) {
			return nil
		}
		return err
	})
	if err != nil {
		c.logger.Debug("cache get failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	if data == nil {
		c.misses.Add(1)
		return nil, false
	}
	var results []ranker.Result
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return results, true
}

func (c *QueryCache) Set(ctx context.Context, term string, results []ranker.Result) {
	key := c.key(term)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.store.Set(ctx, key, data, c.ttl)
	})
	if err != nil {
		c.logger.Debug("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached results for term, or computes and stores
// them. Concurrent misses for the same term share one computation. The
// bool reports a cache hit.
func (c *QueryCache) GetOrCompute(ctx context.Context, term string, compute func() []ranker.Result) ([]ranker.Result, bool) {
	if results, ok := c.Get(ctx, term); ok {
		return results, true
	}
	val, _, shared := c.group.Do(term, func() (any, error) {
		results := compute()
		c.Set(ctx, term, results)
		return results, nil
	})
	results := val.([]ranker.Result)
	if shared {
		return slices.Clone(results), false
	}
	return results, false
}

// Invalidate deletes every entry written by this run.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.DeletePrefix(ctx, c.prefix)
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	hits, misses := c.stats()
	c.logger.Info("cache invalidated", "keys_deleted", deleted, "hits", hits, "misses", misses)
	return nil
}

// Available reports whether the store is currently being used.
func (c *QueryCache) Available() bool {
	return c.breaker.State() != resilience.StateOpen
}

func (c *QueryCache) stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) key(term string) string {
	return c.prefix + term
}
