package engine

import "context"

// Future is a deferred result: it settles exactly once with a value or an
// error. Embedded-backend operations resolve it at construction time; the
// wrapper exists so call sites stay backend-agnostic.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Resolved returns a future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: v}
	close(f.done)
	return f
}

// Failed returns a future already settled with err.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Async runs fn in its own goroutine and returns a future that settles with
// fn's outcome.
func Async[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.val, f.err = fn()
		close(f.done)
	}()
	return f
}

// Await blocks until the future settles or ctx is done, whichever happens
// first. Abandoning a future is safe; the producing operation still settles
// it.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done exposes the settlement signal for select-based composition.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
