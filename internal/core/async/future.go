// Package async provides the single-assignment result type used by every
// emulated network call.
package async

import (
	"context"
	"sync"
	"time"

	"github.com/trackly/project-tracker/internal/core/domain"
)

// Future resolves exactly once, either with a success envelope or with an
// error. Abandoning a wait does not cancel the work behind it.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	resp domain.APIResponse[T]
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a Future that already holds resp.
func Resolved[T any](resp domain.APIResponse[T]) *Future[T] {
	f := newFuture[T]()
	f.settle(resp, nil)
	return f
}

// Rejected returns a Future that already holds err.
func Rejected[T any](err error) *Future[T] {
	f := newFuture[T]()
	f.settle(domain.APIResponse[T]{}, err)
	return f
}

// After settles the Future once delay has elapsed. A non-positive delay
// settles immediately.
func After[T any](delay time.Duration, resp domain.APIResponse[T], err error) *Future[T] {
	f := newFuture[T]()
	if delay <= 0 {
		f.settle(resp, err)
		return f
	}
	time.AfterFunc(delay, func() { f.settle(resp, err) })
	return f
}

func (f *Future[T]) settle(resp domain.APIResponse[T], err error) {
	f.once.Do(func() {
		if err == nil {
			f.resp = resp
		}
		f.err = err
		close(f.done)
	})
}

// Done is closed when the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future settles or ctx ends. In the latter case the
// context error is returned and the result is still delivered to later waiters.
func (f *Future[T]) Await(ctx context.Context) (domain.APIResponse[T], error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return domain.APIResponse[T]{}, ctx.Err()
	}
}

// Then registers continuations. Exactly one of onSuccess or onError runs, on
// its own goroutine, after the Future settles. Either may be nil.
func (f *Future[T]) Then(onSuccess func(domain.APIResponse[T]), onError func(error)) {
	go func() {
		<-f.done
		if f.err != nil {
			if onError != nil {
				onError(f.err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(f.resp)
		}
	}()
}
