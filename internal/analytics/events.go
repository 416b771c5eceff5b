package analytics

import "time"

type EventType string

const (
	EventArticleIndexed EventType = "article_indexed"
	EventSearch         EventType = "search"
	EventZeroResult     EventType = "zero_result"
)

// ArticleEvent is emitted once per article added to the repository.
type ArticleEvent struct {
	Type          EventType `json:"type"`
	RunID         string    `json:"run_id"`
	Feed          string    `json:"feed"`
	Title         string    `json:"title"`
	Address       string    `json:"address"`
	PublishedDate string    `json:"published_date,omitempty"`
	DistinctTerms int       `json:"distinct_terms"`
	TokenCount    int       `json:"token_count"`
	FetchMs       int64     `json:"fetch_ms"`
	Timestamp     time.Time `json:"timestamp"`
}

// SearchEvent is emitted once per query served.
type SearchEvent struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Query     string    `json:"query"`
	Term      string    `json:"term"`
	Results   int       `json:"results"`
	LatencyUs int64     `json:"latency_us"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}
