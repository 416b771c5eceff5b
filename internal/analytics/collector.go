// Package analytics ships pipeline and search events to Kafka without
// blocking the caller. Events are buffered and published in batches.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/kafka"
)

// Publisher is the subset of kafka.Producer the collector needs.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

// Tracker accepts events for asynchronous delivery.
type Tracker interface {
	Track(key string, event any)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Track(string, any) {}

type Collector struct {
	publisher Publisher
	eventCh   chan kafka.Event
	batchSize int
	logger    *slog.Logger
	done      chan struct{}
}

func NewCollector(publisher Publisher, bufferSize, batchSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Collector{
		publisher: publisher,
		eventCh:   make(chan kafka.Event, bufferSize),
		batchSize: batchSize,
		logger:    slog.Default().With("component", "analytics-collector"),
		done:      make(chan struct{}),
	}
}

// Start launches the delivery loop. It exits when ctx is cancelled or the
// collector is closed, publishing whatever is still buffered.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				batch := c.fill([]kafka.Event{event})
				c.publish(ctx, batch)
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started",
		"buffer_size", cap(c.eventCh),
		"batch_size", c.batchSize,
	)
}

// Track enqueues an event, dropping it when the buffer is full.
func (c *Collector) Track(key string, event any) {
	select {
	case c.eventCh <- kafka.Event{Key: key, Value: event}:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for buffered ones to be published.
// Track must not be called after Close.
func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

// fill appends already-buffered events to batch without blocking.
func (c *Collector) fill(batch []kafka.Event) []kafka.Event {
	for len(batch) < c.batchSize {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return batch
			}
			batch = append(batch, event)
		default:
			return batch
		}
	}
	return batch
}

func (c *Collector) publish(ctx context.Context, batch []kafka.Event) {
	if len(batch) == 0 {
		return
	}
	if err := c.publisher.PublishBatch(ctx, batch); err != nil {
		c.logger.Error("failed to publish analytics events", "count", len(batch), "error", err)
	}
}

func (c *Collector) drainRemaining() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		batch := c.fill(nil)
		if len(batch) == 0 {
			return
		}
		c.publish(ctx, batch)
	}
}
