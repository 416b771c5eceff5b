package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/article"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/feed"
	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/resilience"
)

// articleTask fetches one entry's content and inserts the resulting article
// unless an equal one is already stored. done is called exactly once.
type articleTask struct {
	shared *run
	feed   string
	entry  feed.Entry
	done   func()
}

func (t *articleTask) run(ctx context.Context, _ func()) {
	status := t.process(ctx)
	t.finish(status)
}

func (t *articleTask) drop() {
	t.finish(statusDropped)
}

func (t *articleTask) finish(status string) {
	r := t.shared
	r.opts.Metrics.ArticleProcessed(status)
	r.opts.Metrics.SetPending(r.pending.Add(-1))
	t.done()
}

func (t *articleTask) process(ctx context.Context) string {
	r := t.shared
	fields := article.Fields{
		Title:         entryText(t.entry, feed.TagTitle),
		Description:   entryText(t.entry, feed.TagDescription),
		Address:       entryText(t.entry, feed.TagLink),
		PublishedDate: entryText(t.entry, feed.TagPubDate),
	}
	log := r.logger.With("feed", t.feed, "url", fields.Address)

	if _, err := article.ParseAddress(fields.Address); err != nil {
		log.Warn("article skipped", "title", fields.Title, "error", err)
		return statusBadAddress
	}

	start := time.Now()
	var content string
	err := resilience.WithTimeout(ctx, r.opts.ArticleTimeout, "article fetch", func(ctx context.Context) error {
		var err error
		content, err = r.fetcher.Fetch(ctx, fields.Address)
		return err
	})
	elapsed := time.Since(start)
	r.opts.Metrics.ObserveFetch(elapsed.Seconds())
	if err != nil {
		err = fmt.Errorf("%w: %v", apperrors.ErrArticleFetch, err)
		log.Warn("article skipped", "error", err)
		return statusFetchError
	}

	a, err := article.New(fields, content)
	if err != nil {
		log.Warn("article skipped", "error", err)
		return statusBadAddress
	}
	if !r.repo.InsertIfAbsent(a) {
		log.Debug("duplicate article", "title", a.Title)
		return statusDuplicate
	}
	log.Debug("article added", "title", a.Title, "distinct_terms", a.DistinctTerms())
	r.opts.Tracker.Track(a.Host(), analytics.ArticleEvent{
		Type:          analytics.EventArticleIndexed,
		RunID:         r.opts.RunID,
		Feed:          t.feed,
		Title:         a.Title,
		Address:       a.Address,
		PublishedDate: a.PublishedDate,
		DistinctTerms: a.DistinctTerms(),
		TokenCount:    a.TokenCount(),
		FetchMs:       elapsed.Milliseconds(),
		Timestamp:     time.Now(),
	})
	return statusAdded
}
