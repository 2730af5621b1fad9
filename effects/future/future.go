// Package future provides a single-assignment deferred value.
//
// A Future settles exactly once, with a value or an error, and can be
// awaited any number of times from any goroutine. It is the deferred
// input and output of async effect methods, and bridges the result
// channels of resumable effects.
package future

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/on-the-ground/effect_ive_connect/effects/internal/handlers"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNilFuture     = errors.New("future was never created")
	ErrResultDropped = errors.New("result channel closed without a result")
)

// Future is a deferred value of type T. The zero Future is invalid.
type Future[T any] struct {
	s *state[T]
}

type state[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

func newState[T any]() *state[T] {
	return &state[T]{done: make(chan struct{})}
}

func (s *state[T]) settle(val T, err error) {
	s.once.Do(func() {
		s.val, s.err = val, err
		close(s.done)
	})
}

// Resolve returns a future already settled with val.
func Resolve[T any](val T) Future[T] {
	s := newState[T]()
	s.settle(val, nil)
	return Future[T]{s: s}
}

// Reject returns a future already settled with err.
func Reject[T any](err error) Future[T] {
	s := newState[T]()
	var zero T
	s.settle(zero, err)
	return Future[T]{s: s}
}

// Go runs fn in its own goroutine and settles with its result.
// If ctx is already done, fn is not started and the future settles with ctx.Err().
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) Future[T] {
	s := newState[T]()
	if err := ctx.Err(); err != nil {
		var zero T
		s.settle(zero, err)
		return Future[T]{s: s}
	}
	go func() {
		s.settle(fn(ctx))
	}()
	return Future[T]{s: s}
}

// From settles with the first result received on ch.
func From[T any](ch <-chan handlers.ResumableResult[T]) Future[T] {
	s := newState[T]()
	go func() {
		res, ok := <-ch
		if !ok {
			var zero T
			s.settle(zero, ErrResultDropped)
			return
		}
		s.settle(res.Value, res.Err)
	}()
	return Future[T]{s: s}
}

// Then maps the value of f once it settles. Errors pass through unchanged.
func Then[T, U any](f Future[T], fn func(T) U) Future[U] {
	return ThenErr(f, func(v T) (U, error) {
		return fn(v), nil
	})
}

// ThenErr is Then for mappings that can fail.
func ThenErr[T, U any](f Future[T], fn func(T) (U, error)) Future[U] {
	if f.s == nil {
		return Reject[U](ErrNilFuture)
	}
	s := newState[U]()
	apply := func() {
		if f.s.err != nil {
			var zero U
			s.settle(zero, f.s.err)
			return
		}
		s.settle(fn(f.s.val))
	}
	select {
	case <-f.s.done:
		apply()
	default:
		go func() {
			<-f.s.done
			apply()
		}()
	}
	return Future[U]{s: s}
}

// Await blocks until f settles or ctx is done.
func (f Future[T]) Await(ctx context.Context) (T, error) {
	var zero T
	if f.s == nil {
		return zero, ErrNilFuture
	}
	select {
	case <-f.s.done:
		return f.s.val, f.s.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Done is closed once f settles. A zero Future is never done.
func (f Future[T]) Done() <-chan struct{} {
	if f.s == nil {
		return nil
	}
	return f.s.done
}

// Settled reports whether f has a value or an error.
func (f Future[T]) Settled() bool {
	if f.s == nil {
		return false
	}
	select {
	case <-f.s.done:
		return true
	default:
		return false
	}
}

// ElemType describes T. It lets shape classification recognise any
// Future instantiation without knowing T statically.
func (Future[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// All awaits every future and returns their values in order.
// The first error cancels the wait for the rest.
func All[T any](ctx context.Context, fs ...Future[T]) ([]T, error) {
	vals := make([]T, len(fs))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fs {
		g.Go(func() error {
			v, err := f.Await(gctx)
			if err != nil {
				return err
			}
			vals[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vals, nil
}
