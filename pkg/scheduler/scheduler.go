package scheduler

import (
	"context"
	"sync"
)

// Work is a unit of work run by a scheduler worker.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future receives the single result of a submitted Work.
type Future[T any] struct {
	c      chan Result[T]
	cancel context.CancelFunc
}

// C delivers exactly one result.
func (f *Future[T]) C() <-chan Result[T] {
	return f.c
}

// Stop cancels the work context. A running work is expected to return.
func (f *Future[T]) Stop() {
	f.cancel()
}

// Wait blocks until the result is available or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case r := <-f.c:
		return r.Data, r.Err
	case <-ctx.Done():
		var none T
		return none, ctx.Err()
	}
}

type workRequest[T any] struct {
	fn     Work[T]
	c      chan Result[T]
	ctx    context.Context
	cancel context.CancelFunc
}

// Scheduler runs work on a fixed pool of workers.
type Scheduler[T any] struct {
	work       chan workRequest[T]
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

func NewScheduler[T any](nbWorkers int) *Scheduler[T] {
	if nbWorkers < 1 {
		nbWorkers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler[T]{
		work:       make(chan workRequest[T]),
		mainCtx:    ctx,
		mainCancel: cancel,
	}

	s.wg.Add(nbWorkers)
	for range nbWorkers {
		go s.worker()
	}
	return s
}

// AddWork queues w and returns its future. Work added after Close resolves
// with context.Canceled.
func (s *Scheduler[T]) AddWork(w Work[T]) *Future[T] {
	c := make(chan Result[T], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)
	r := workRequest[T]{fn: w, c: c, ctx: ctx, cancel: cancel}

	go func() {
		select {
		case s.work <- r:
		case <-ctx.Done():
			cancel()
			c <- Result[T]{Err: ctx.Err()}
		}
	}()

	return &Future[T]{c: c, cancel: cancel}
}

// Close cancels queued and running work and waits for the workers to exit.
func (s *Scheduler[T]) Close() {
	s.closeOnce.Do(func() {
		s.mainCancel()
		s.wg.Wait()
	})
}

func (s *Scheduler[T]) worker() {
	defer s.wg.Done()
	for {
		select {
		case r := <-s.work:
			v, err := r.fn(r.ctx)
			r.cancel()
			r.c <- Result[T]{Data: v, Err: err}
		case <-s.mainCtx.Done():
			return
		}
	}
}
