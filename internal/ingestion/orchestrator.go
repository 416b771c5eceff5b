package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/article"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/feed"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/ingestion/pool"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/ingestion/validator"
	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/logger"
)

const progressInterval = 500 * time.Millisecond

type Orchestrator struct {
	parser  feed.Parser
	fetcher ContentFetcher
	opts    Options
}

func New(parser feed.Parser, fetcher ContentFetcher, opts Options) *Orchestrator {
	if opts.Tracker == nil {
		opts.Tracker = analytics.Nop{}
	}
	if opts.FeedAttempts <= 0 {
		opts.FeedAttempts = 1
	}
	return &Orchestrator{
		parser:  parser,
		fetcher: fetcher,
		opts:    opts,
	}
}

// run is the state shared by every task of one Ingest call.
type run struct {
	*Orchestrator
	pool    *pool.Pool
	repo    *article.Repository
	pending atomic.Int64
	logger  *slog.Logger
}

// Ingest fetches every feed in feedAddresses and returns the deduplicated
// articles in insertion order. concurrencyLimit bounds the number of tasks
// executing at once; <= 0 means no bound. Per-feed and per-article failures
// are logged and skipped. Cancelling ctx stops the pool and returns
// ErrAborted with no articles.
func (o *Orchestrator) Ingest(ctx context.Context, feedAddresses []string, concurrencyLimit int) ([]*article.Article, error) {
	start := time.Now()
	r := &run{
		Orchestrator: o,
		pool:         pool.New(concurrencyLimit),
		repo:         article.NewRepository(),
		logger:       logger.FromContext(ctx).With("component", "ingestion"),
	}
	defer r.pool.Stop()

	var feeds sync.WaitGroup
	submitted := 0
	for _, addr := range feedAddresses {
		if err := validator.FeedAddress(addr); err != nil {
			r.logger.Warn("skipping invalid feed address", "feed", addr, "error", err)
			o.opts.Metrics.FeedProcessed(feedInvalid, 0)
			continue
		}
		feeds.Add(1)
		submitted++
		t := &feedTask{shared: r, address: addr, done: feeds.Done}
		r.pool.Submit(pool.Task{Name: "feed " + addr, Run: t.run, Drop: t.drop})
	}
	r.logger.Info("ingestion started",
		"feeds", submitted,
		"concurrency_limit", r.pool.Limit(),
	)

	done := make(chan struct{})
	go func() {
		feeds.Wait()
		close(done)
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			r.pool.Wait()
			r.reportProgress()
			articles := r.repo.Snapshot()
			elapsed := time.Since(start)
			o.opts.Metrics.IngestFinished(elapsed.Seconds(), len(articles))
			r.logger.Info("ingestion complete",
				"articles", len(articles),
				"duration", elapsed,
			)
			return articles, nil
		case <-ctx.Done():
			r.pool.Stop()
			r.logger.Warn("ingestion aborted", "error", ctx.Err())
			return nil, fmt.Errorf("%w: %v", apperrors.ErrAborted, ctx.Err())
		case <-ticker.C:
			r.reportProgress()
		}
	}
}

func (r *run) reportProgress() {
	running, queued := r.pool.Running(), r.pool.Queued()
	r.opts.Metrics.SetPool(running, queued)
	r.opts.Metrics.SetPending(r.pending.Load())
	r.logger.Debug("ingestion progress",
		"articles_pending", r.pending.Load(),
		"articles_added", r.repo.Size(),
		"running", running,
		"queued", queued,
	)
}
