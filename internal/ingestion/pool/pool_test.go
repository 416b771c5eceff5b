package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolBoundsConcurrency(t *testing.T) {
	p := New(3)
	var current, peak atomic.Int64
	for i := 0; i < 20; i++ {
		p.Submit(Task{Run: func(ctx context.Context, release func()) {
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}})
	}
	p.Wait()
	assert.LessOrEqual(t, peak.Load(), int64(3))
	assert.Equal(t, int64(0), p.Running())
	assert.Equal(t, int64(0), p.Queued())
}

func TestPoolUnbounded(t *testing.T) {
	p := New(0)
	const n = 50
	var started sync.WaitGroup
	started.Add(n)
	gate := make(chan struct{})
	for i := 0; i < n; i++ {
		p.Submit(Task{Run: func(ctx context.Context, release func()) {
			started.Done()
			<-gate
		}})
	}
	done := make(chan struct{})
	go func() {
		started.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("unbounded pool did not start every task")
	}
	close(gate)
	p.Wait()
	assert.Equal(t, 0, p.Limit())
}

func TestPoolNestedWaitWithSingleSlot(t *testing.T) {
	p := New(1)
	var children atomic.Int64
	parentDone := make(chan struct{})

	p.Submit(Task{Run: func(ctx context.Context, release func()) {
		defer close(parentDone)
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			p.Submit(Task{Run: func(ctx context.Context, release func()) {
				defer wg.Done()
				children.Add(1)
			}})
		}
		release()
		wg.Wait()
	}})

	select {
	case <-parentDone:
	case <-time.After(5 * time.Second):
		t.Fatal("nested wait deadlocked")
	}
	p.Wait()
	assert.Equal(t, int64(5), children.Load())
}

func TestPoolStopDropsQueuedTasks(t *testing.T) {
	p := New(1)
	block := make(chan struct{})
	running := make(chan struct{})
	p.Submit(Task{Run: func(ctx context.Context, release func()) {
		close(running)
		<-block
	}})
	<-running

	var ran, dropped atomic.Int64
	for i := 0; i < 10; i++ {
		p.Submit(Task{
			Run:  func(ctx context.Context, release func()) { ran.Add(1) },
			Drop: func() { dropped.Add(1) },
		})
	}
	p.Stop()
	close(block)
	p.Wait()

	assert.Equal(t, int64(0), p.Queued())
	assert.Equal(t, int64(0), ran.Load())
	assert.Equal(t, int64(10), dropped.Load())
}

func TestPoolReleaseIsIdempotent(t *testing.T) {
	p := New(1)
	p.Submit(Task{Run: func(ctx context.Context, release func()) {
		release()
		release()
	}})
	p.Wait()

	var ran atomic.Bool
	p.Submit(Task{Run: func(ctx context.Context, release func()) { ran.Store(true) }})
	p.Wait()
	assert.True(t, ran.Load())
	assert.Equal(t, int64(0), p.Running())
}
