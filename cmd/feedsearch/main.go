// Command feedsearch indexes the articles of a list of syndication feeds and
// then answers single-word queries from stdin.
//
// Usage:
//
//	feedsearch [-config configs/feedsearch.yaml] FEEDFILE [WORKERS]
//
// WORKERS bounds the number of concurrent fetches; a missing, non-numeric or
// non-positive value means no bound. With source.kind set to postgres the
// feed list is read from the feeds table and FEEDFILE may be omitted.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/feed"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/fetcher"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/feed-search/internal/source"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/feed-search/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] FEEDFILE [WORKERS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitUsage)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, flag.Args(), os.Stdin, os.Stdout)
	stop()
	if err != nil {
		slog.Error("feedsearch failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	if len(args) > 0 {
		cfg.Source.Path = args[0]
	}
	if cfg.Source.Kind == "file" && cfg.Source.Path == "" {
		flag.Usage()
		return apperrors.New(apperrors.ErrInvalidInput, apperrors.ExitUsage,
			"no input file; give the name of a file containing a list of feed addresses")
	}
	workers := cfg.Ingest.ConcurrencyLimit
	if len(args) > 1 {
		var notice string
		workers, notice = parseWorkers(args[1])
		fmt.Fprintln(out, notice)
	}

	runID := strconv.FormatInt(time.Now().UnixNano(), 36)
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx)

	var m *metrics.Metrics
	checker := health.NewChecker()
	var indexed atomic.Bool
	checker.Register("ingestion", func(context.Context) health.ComponentHealth {
		if !indexed.Load() {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "indexing"}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if cfg.Metrics.Enabled {
		m = metrics.New(nil)
		shutdown := metrics.StartServer(cfg.Metrics.Port, checker.ReadyHandler())
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(sctx)
		}()
	}

	var (
		addrs       []string
		redisClient *pkgredis.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src, closeSrc, err := openSource(gctx, cfg)
		if err != nil {
			return err
		}
		defer closeSrc()
		addrs, err = src.Load(gctx)
		return err
	})
	if cfg.Search.CacheEnabled {
		g.Go(func() error {
			c, err := pkgredis.NewClient(gctx, cfg.Redis)
			if err != nil {
				log.Warn("redis unavailable, search caching disabled", "error", err)
				return nil
			}
			redisClient = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return err
	}

	articleTracker, searchTracker := analytics.Tracker(analytics.Nop{}), analytics.Tracker(analytics.Nop{})
	if cfg.Kafka.Enabled {
		articleCollector, closeArticles := startCollector(ctx, cfg.Kafka, cfg.Kafka.Topics.ArticleIndexed)
		defer closeArticles()
		searchCollector, closeSearches := startCollector(ctx, cfg.Kafka, cfg.Kafka.Topics.SearchEvents)
		defer closeSearches()
		articleTracker, searchTracker = articleCollector, searchCollector
	}

	client := fetcher.New(fetcher.Options{
		Timeout:      max(cfg.Ingest.FeedTimeout, cfg.Ingest.ArticleTimeout),
		UserAgent:    cfg.Ingest.UserAgent,
		MaxBytes:     cfg.Ingest.MaxContentBytes,
		HostInterval: cfg.Ingest.HostInterval,
	})
	parser, err := feed.NewParser(cfg.Parser.Kind, client)
	if err != nil {
		return apperrors.New(err, apperrors.ExitUsage, "check parser.kind")
	}
	orch := ingestion.New(parser, client, ingestion.Options{
		FeedTimeout:    cfg.Ingest.FeedTimeout,
		ArticleTimeout: cfg.Ingest.ArticleTimeout,
		FeedAttempts:   cfg.Ingest.FeedAttempts,
		RunID:          runID,
		Metrics:        m,
		Tracker:        articleTracker,
	})

	fmt.Fprintln(out, "Welcome to the feed searcher!")
	fmt.Fprintln(out, "Indexing article database...")
	articles, err := orch.Ingest(ctx, addrs, workers)
	if err != nil {
		return err
	}
	indexed.Store(true)

	opts := searcher.Options{Metrics: m, Tracker: searchTracker, RunID: runID}
	if redisClient != nil {
		defer redisClient.Close()
		qc := cache.New(redisClient, runID, cfg.Redis.CacheTTL)
		defer func() {
			ictx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := qc.Invalidate(ictx); err != nil {
				log.Warn("failed to clear search cache", "error", err)
			}
		}()
		opts.Cache = qc
		checker.Register("redis", func(context.Context) health.ComponentHealth {
			if !qc.Available() {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: "circuit open, cache bypassed"}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}
	engine := searcher.NewEngine(articles, opts)

	sh := &shell{
		engine:       engine,
		in:           in,
		out:          out,
		displayLimit: cfg.Search.DisplayLimit,
	}
	return sh.run(ctx)
}

// parseWorkers interprets the WORKERS argument. Anything but a positive
// integer means no bound.
func parseWorkers(arg string) (int, string) {
	n, err := strconv.Atoi(arg)
	switch {
	case err != nil:
		return 0, "Invalid worker limit entered. Using no limit."
	case n <= 0:
		return 0, "Worker limit is not positive. Using no limit."
	default:
		return n, fmt.Sprintf("Using at most %d workers", n)
	}
}

func openSource(ctx context.Context, cfg *config.Config) (source.Source, func(), error) {
	switch cfg.Source.Kind {
	case "file":
		return source.NewFileSource(cfg.Source.Path), func() {}, nil
	case "postgres":
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrSourceRead, err)
		}
		return source.NewPostgresSource(db), func() { db.Close() }, nil
	default:
		return nil, nil, apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitUsage,
			"unknown source kind %q", cfg.Source.Kind)
	}
}

func startCollector(ctx context.Context, cfg config.KafkaConfig, topic string) (*analytics.Collector, func()) {
	producer := kafka.NewProducer(cfg, topic)
	collector := analytics.NewCollector(producer, 10000, 100)
	collector.Start(ctx)
	return collector, func() {
		collector.Close()
		if err := producer.Close(); err != nil {
			slog.Warn("closing kafka producer", "topic", topic, "error", err)
		}
	}
}
