package analytics

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adithya-Monish-Kumar-K/feed-search/pkg/kafka"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]kafka.Event
}

func (r *recordingPublisher) PublishBatch(_ context.Context, events []kafka.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]kafka.Event, len(events))
	copy(cp, events)
	r.batches = append(r.batches, cp)
	return nil
}

func (r *recordingPublisher) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func TestCollectorDeliversAllOnClose(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 100, 10)
	c.Start(context.Background())
	for i := 0; i < 25; i++ {
		c.Track("x.com", ArticleEvent{Type: EventArticleIndexed, Title: "t"})
	}
	c.Close()

	assert.Equal(t, 25, pub.total())
	for _, b := range pub.batches {
		assert.LessOrEqual(t, len(b), 10)
	}
}

func TestCollectorDrainsOnCancel(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 100, 5)
	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 7; i++ {
		c.Track("q", SearchEvent{Type: EventSearch, Query: "cat"})
	}
	cancel()
	c.Start(ctx)
	<-c.done

	assert.Equal(t, 7, pub.total())
}

func TestCollectorDropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewCollector(pub, 2, 10)
	c.Track("a", 1)
	c.Track("b", 2)
	c.Track("c", 3)
	assert.Len(t, c.eventCh, 2)
}

func TestNopTracker(t *testing.T) {
	var tr Tracker = Nop{}
	tr.Track("k", "v")
}
