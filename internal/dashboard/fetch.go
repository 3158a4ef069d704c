package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one fetch: a value or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// OK reports whether the fetch succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Or returns the value on success and fallback otherwise.
func (r Result[T]) Or(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}

// Pair holds two values that are only meaningful together.
type Pair[A, B any] struct {
	First  A
	Second B
}

// FetchPair runs fa and fb concurrently and returns both outcomes. Each runs
// to completion; a failure of one does not cancel the other.
func FetchPair[A, B any](ctx context.Context, fa func(context.Context) (A, error), fb func(context.Context) (B, error)) (Result[A], Result[B]) {
	var ra Result[A]
	var rb Result[B]

	var g errgroup.Group
	g.Go(func() error {
		v, err := fa(ctx)
		ra = Result[A]{Value: v, Err: err}
		return err
	})
	g.Go(func() error {
		v, err := fb(ctx)
		rb = Result[B]{Value: v, Err: err}
		return err
	})
	_ = g.Wait()

	return ra, rb
}

// BothOr returns the two values when both fetches succeeded, and the complete
// fallback pair otherwise. The boolean reports whether the real values were used.
func BothOr[A, B any](a Result[A], b Result[B], fallback Pair[A, B]) (Pair[A, B], bool) {
	if a.OK() && b.OK() {
		return Pair[A, B]{First: a.Value, Second: b.Value}, true
	}
	return fallback, false
}

// FirstErr returns the first error among the pair's results.
func FirstErr[A, B any](a Result[A], b Result[B]) error {
	if a.Err != nil {
		return a.Err
	}
	return b.Err
}
