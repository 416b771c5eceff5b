// Package searcher answers single-term queries over the articles of one
// completed ingestion run.
package searcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/article"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/metrics"
)

// Result is one ranked search hit.
type Result = ranker.Result

// Options wires optional collaborators. Any field may be nil.
type Options struct {
	Cache   *cache.QueryCache
	Metrics *metrics.Metrics
	Tracker analytics.Tracker
	RunID   string
}

type Engine struct {
	articles []*article.Article
	opts     Options
}

// NewEngine serves queries over snapshot, which must not change afterwards.
func NewEngine(snapshot []*article.Article, opts Options) *Engine {
	if opts.Tracker == nil {
		opts.Tracker = analytics.Nop{}
	}
	return &Engine{articles: snapshot, opts: opts}
}

// ArticleCount returns the number of searchable articles.
func (e *Engine) ArticleCount() int {
	return len(e.articles)
}

// Search normalizes query to its first word and returns the matching
// articles ranked by occurrences of that word. A query without any word
// yields no results. The error is non-nil only when ctx is done.
func (e *Engine) Search(ctx context.Context, query string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	term := tokenizer.NormalizeQuery(query)

	var results []Result
	cacheStatus := "disabled"
	cacheHit := false
	compute := func() []Result {
		return ranker.Rank(e.articles, term)
	}
	switch {
	case term == "":
		results = []Result{}
	case e.opts.Cache != nil:
		results, cacheHit = e.opts.Cache.GetOrCompute(ctx, term, compute)
		e.opts.Metrics.CacheLookup(cacheHit)
		cacheStatus = "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
	default:
		results = compute()
	}

	elapsed := time.Since(start)
	resultType := "hit"
	eventType := analytics.EventSearch
	if len(results) == 0 {
		resultType = "zero"
		eventType = analytics.EventZeroResult
	}
	e.opts.Metrics.SearchServed(resultType, cacheStatus, elapsed.Seconds(), len(results))

	logger.FromContext(ctx).Debug("search completed",
		slog.String("query", query),
		slog.String("term", term),
		slog.Int("results", len(results)),
		slog.Bool("cache_hit", cacheHit),
		slog.Duration("latency", elapsed),
	)
	e.opts.Tracker.Track(term, analytics.SearchEvent{
		Type:      eventType,
		RunID:     e.opts.RunID,
		Query:     query,
		Term:      term,
		Results:   len(results),
		LatencyUs: elapsed.Microseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
	})
	return results, nil
}
