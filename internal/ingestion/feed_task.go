package ingestion

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/feed"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/ingestion/pool"
	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/resilience"
)

// feedTask parses one feed, submits an articleTask per entry and waits for
// all of them. done is called exactly once, on every path.
type feedTask struct {
	shared  *run
	address string
	done    func()
}

func (t *feedTask) run(ctx context.Context, release func()) {
	defer t.done()
	r := t.shared
	log := r.logger.With("feed", t.address)

	entries, err := t.parse(ctx)
	if err != nil {
		status := feedFetchError
		if errors.Is(err, apperrors.ErrFeedParse) {
			status = feedParseError
		}
		r.opts.Metrics.FeedProcessed(status, 0)
		log.Warn("feed skipped", "error", err)
		return
	}
	r.opts.Metrics.FeedProcessed(feedOK, len(entries))
	log.Info("feed parsed", "entries", len(entries))

	var articles sync.WaitGroup
	articles.Add(len(entries))
	for i, entry := range entries {
		at := &articleTask{
			shared: r,
			feed:   t.address,
			entry:  entry,
			done:   articles.Done,
		}
		r.pending.Add(1)
		r.opts.Metrics.SetPending(r.pending.Load())
		r.pool.Submit(pool.Task{
			Name: t.address + "#" + strconv.Itoa(i),
			Run:  at.run,
			Drop: at.drop,
		})
	}
	release()
	articles.Wait()
	log.Debug("feed complete", "entries", len(entries))
}

func (t *feedTask) drop() {
	t.shared.opts.Metrics.FeedProcessed(feedDropped, 0)
	t.done()
}

// parse fetches and parses the feed, retrying fetch failures up to
// FeedAttempts times. Parse failures are not retried.
func (t *feedTask) parse(ctx context.Context) ([]feed.Entry, error) {
	r := t.shared
	var entries []feed.Entry
	cfg := resilience.RetryConfig{
		MaxAttempts: r.opts.FeedAttempts,
		Retryable: func(err error) bool {
			return errors.Is(err, apperrors.ErrFeedFetch) && ctx.Err() == nil
		},
	}
	err := resilience.Retry(ctx, "feed "+t.address, cfg, func(ctx context.Context) error {
		return resilience.WithTimeout(ctx, r.opts.FeedTimeout, "feed fetch", func(ctx context.Context) error {
			var err error
			entries, err = r.parser.Parse(ctx, t.address)
			return err
		})
	})
	return entries, err
}
