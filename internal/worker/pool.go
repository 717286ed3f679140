package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("worker pool closed")

type task struct {
	ctx  context.Context
	fn   func() error
	done chan error
}

// Pool runs CPU-bound jobs on a fixed number of goroutines.
type Pool struct {
	tasks  chan task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	logger *zap.Logger
}

func New(workers int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		tasks:  make(chan task, workers*2),
		logger: logger,
	}
	for i := range workers {
		p.wg.Add(1)
		go p.worker(i)
	}
	logger.Debug("worker pool started", zap.Int("workers", workers))
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for t := range p.tasks {
		if err := t.ctx.Err(); err != nil {
			t.done <- err
			continue
		}
		t.done <- p.run(id, t.fn)
	}
}

func (p *Pool) run(id int, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked", zap.Int("worker", id), zap.Any("panic", r))
			err = errors.New("job panicked")
		}
	}()
	return fn()
}

// Do queues fn and waits for it. When ctx ends first Do returns ctx.Err();
// a job not yet started is then skipped, a running one finishes unobserved.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	t := task{ctx: ctx, fn: fn, done: make(chan error, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	select {
	case p.tasks <- t:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued ones to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}
