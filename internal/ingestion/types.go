// Package ingestion fetches every configured feed and its articles through
// one shared worker pool and collects the results in a deduplicating
// repository.
package ingestion

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/feed"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/metrics"
)

// ContentFetcher returns the full textual content at an article address.
type ContentFetcher interface {
	Fetch(ctx context.Context, address string) (string, error)
}

// Options configures an Orchestrator. Zero timeouts disable the per-call
// deadline. Metrics and Tracker may be nil.
type Options struct {
	FeedTimeout    time.Duration
	ArticleTimeout time.Duration
	FeedAttempts   int
	RunID          string
	Metrics        *metrics.Metrics
	Tracker        analytics.Tracker
}

// Article task outcomes, used as the metrics status label.
const (
	statusAdded      = "added"
	statusDuplicate  = "duplicate"
	statusBadAddress = "bad_address"
	statusFetchError = "fetch_error"
	statusDropped    = "dropped"
)

// Feed task outcomes.
const (
	feedOK         = "ok"
	feedFetchError = "fetch_error"
	feedParseError = "parse_error"
	feedInvalid    = "invalid"
	feedDropped    = "dropped"
)

// entryText returns the first text of tag on e, or "" when absent.
func entryText(e feed.Entry, tag string) string {
	s, _ := e.FirstText(tag)
	return s
}
