// Package metrics defines the Prometheus metric collectors used by the
// ingestion pipeline and the search engine, and exposes an HTTP handler for
// scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	FeedsTotal          *prometheus.CounterVec
	FeedEntriesTotal    prometheus.Counter
	ArticlesTotal       *prometheus.CounterVec
	ArticlesPending     prometheus.Gauge
	ArticleFetchLatency prometheus.Histogram
	PoolRunning         prometheus.Gauge
	PoolQueued          prometheus.Gauge
	IngestDuration      prometheus.Histogram
	RepositorySize      prometheus.Gauge
	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       *prometheus.HistogramVec
	SearchResultsCount  prometheus.Histogram
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
}

// New creates all collectors and registers them with reg. A nil reg uses
// the default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		FeedsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feeds_processed_total",
				Help: "Feeds processed by outcome (ok, fetch_error, parse_error, invalid).",
			},
			[]string{"status"},
		),
		FeedEntriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "feed_entries_total",
				Help: "Entries found across all parsed feeds.",
			},
		),
		ArticlesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "articles_processed_total",
				Help: "Article tasks by outcome (added, duplicate, bad_address, fetch_error, dropped).",
			},
			[]string{"status"},
		),
		ArticlesPending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "articles_pending",
				Help: "Article tasks submitted but not yet finished.",
			},
		),
		ArticleFetchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "article_fetch_duration_seconds",
				Help:    "Article content fetch latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
		),
		PoolRunning: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "worker_pool_running",
				Help: "Tasks currently holding a worker pool slot.",
			},
		),
		PoolQueued: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "worker_pool_queued",
				Help: "Tasks waiting for a worker pool slot.",
			},
		),
		IngestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingest_duration_seconds",
				Help:    "Wall time of a full ingestion run.",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		RepositorySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "repository_articles",
				Help: "Unique articles held by the repository.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, empty_query).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_cache_hits_total",
				Help: "Total number of search cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_cache_misses_total",
				Help: "Total number of search cache misses.",
			},
		),
	}

	reg.MustRegister(
		m.FeedsTotal,
		m.FeedEntriesTotal,
		m.ArticlesTotal,
		m.ArticlesPending,
		m.ArticleFetchLatency,
		m.PoolRunning,
		m.PoolQueued,
		m.IngestDuration,
		m.RepositorySize,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// FeedProcessed counts one feed outcome.
func (m *Metrics) FeedProcessed(status string, entries int) {
	if m == nil {
		return
	}
	m.FeedsTotal.WithLabelValues(status).Inc()
	m.FeedEntriesTotal.Add(float64(entries))
}

// ArticleProcessed counts one article task outcome.
func (m *Metrics) ArticleProcessed(status string) {
	if m == nil {
		return
	}
	m.ArticlesTotal.WithLabelValues(status).Inc()
}

// SetPending records the number of unfinished article tasks.
func (m *Metrics) SetPending(n int64) {
	if m == nil {
		return
	}
	m.ArticlesPending.Set(float64(n))
}

// ObserveFetch records an article fetch latency in seconds.
func (m *Metrics) ObserveFetch(seconds float64) {
	if m == nil {
		return
	}
	m.ArticleFetchLatency.Observe(seconds)
}

// SetPool records worker pool occupancy.
func (m *Metrics) SetPool(running, queued int64) {
	if m == nil {
		return
	}
	m.PoolRunning.Set(float64(running))
	m.PoolQueued.Set(float64(queued))
}

// IngestFinished records the duration of a run and the final repository size.
func (m *Metrics) IngestFinished(seconds float64, articles int) {
	if m == nil {
		return
	}
	m.IngestDuration.Observe(seconds)
	m.RepositorySize.Set(float64(articles))
}

// SearchServed records one search query.
func (m *Metrics) SearchServed(resultType, cacheStatus string, seconds float64, results int) {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	m.SearchLatency.WithLabelValues(cacheStatus).Observe(seconds)
	m.SearchResultsCount.Observe(float64(results))
}

// CacheLookup counts a search cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.Inc()
		return
	}
	m.CacheMissesTotal.Inc()
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
