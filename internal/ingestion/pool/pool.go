// Package pool provides the worker pool shared by feed and article tasks.
//
// The limit bounds how many tasks execute at once. A task that is about to
// block on work it submitted itself calls release to give up its slot, so
// nested waits cannot starve the pool. A limit <= 0 means no bound.
package pool

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Task is one unit of work. Run receives the pool context, which is
// cancelled by Stop, and a release func that frees the execution slot early.
// Drop, if set, is called instead of Run when the pool is stopped before the
// task starts.
type Task struct {
	Name string
	Run  func(ctx context.Context, release func())
	Drop func()
}

type Pool struct {
	limit   int
	sem     *semaphore.Weighted
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Int64
	queued  atomic.Int64
	logger  *slog.Logger
}

func New(limit int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		limit:  limit,
		ctx:    ctx,
		cancel: cancel,
		logger: slog.Default().With("component", "worker-pool"),
	}
	if limit > 0 {
		p.sem = semaphore.NewWeighted(int64(limit))
	}
	return p
}

// Submit queues t. It never blocks.
func (p *Pool) Submit(t Task) {
	p.wg.Add(1)
	p.queued.Add(1)
	go func() {
		defer p.wg.Done()
		if !p.acquire() {
			p.queued.Add(-1)
			p.logger.Debug("task dropped", "task", t.Name)
			if t.Drop != nil {
				t.Drop()
			}
			return
		}
		p.queued.Add(-1)
		p.running.Add(1)
		var once sync.Once
		release := func() {
			once.Do(func() {
				p.running.Add(-1)
				if p.sem != nil {
					p.sem.Release(1)
				}
			})
		}
		defer release()
		t.Run(p.ctx, release)
	}()
}

func (p *Pool) acquire() bool {
	if p.sem != nil {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return false
		}
	}
	if p.ctx.Err() != nil {
		if p.sem != nil {
			p.sem.Release(1)
		}
		return false
	}
	return true
}

// Stop cancels the pool context. Queued tasks are dropped and running tasks
// observe a cancelled context.
func (p *Pool) Stop() {
	p.cancel()
}

// Wait blocks until every submitted task has run or been dropped.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Limit returns the configured bound, or 0 when unbounded.
func (p *Pool) Limit() int {
	if p.limit < 0 {
		return 0
	}
	return p.limit
}

// Running returns the number of tasks currently holding a slot.
func (p *Pool) Running() int64 {
	return p.running.Load()
}

// Queued returns the number of submitted tasks waiting for a slot.
func (p *Pool) Queued() int64 {
	return p.queued.Load()
}
