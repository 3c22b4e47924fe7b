// Package batch runs a flow-expression axiom concurrently over many
// independent contexts. A single axiom instance is not safe to re-enter
// or run from two goroutines at once (see the root package's driver
// doc comment), so batch never shares one: newAxiom is called once per
// item, giving every goroutine its own tree.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/flowexpr/fex"
)

// Result is one item's outcome.
type Result[T any] struct {
	Context T
	Passed  bool
}

type config struct {
	maxConcurrency int
}

// Option configures a Run.
type Option func(*config)

// WithConcurrency bounds how many axiom instances run at once. The
// default is 10.
func WithConcurrency(n int) Option {
	return func(c *config) { c.maxConcurrency = n }
}

// Run builds a fresh axiom via newAxiom for each context in ctxs and
// runs them concurrently, bounded by the configured concurrency. It
// never returns an error itself — fex.Run reports pass/fail per item,
// not an error — but takes a context.Context so a caller can cancel the
// whole batch early; canceling stops scheduling new items but lets
// in-flight ones finish.
func Run[T any](ctx context.Context, newAxiom func() fex.Node[T], ctxs []T, opts ...Option) []Result[T] {
	cfg := &config{maxConcurrency: 10}
	for _, opt := range opts {
		opt(cfg)
	}

	results := make([]Result[T], len(ctxs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.maxConcurrency)

	for i, c := range ctxs {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			axiom := newAxiom()
			results[i] = Result[T]{Context: c, Passed: fex.Run(axiom, c)}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// MapReduce runs newAxiom against every context, maps each one that
// passed through mapper, and folds the mapped values with reduce.
func MapReduce[T, R any](ctx context.Context, newAxiom func() fex.Node[T], ctxs []T, mapper func(T) R, reduce func([]R) (any, error), opts ...Option) (any, error) {
	results := Run(ctx, newAxiom, ctxs, opts...)
	mapped := make([]R, 0, len(results))
	for _, r := range results {
		if r.Passed {
			mapped = append(mapped, mapper(r.Context))
		}
	}
	return reduce(mapped)
}

// ForEach runs newAxiom against every context and calls fn for each one
// that passed, returning the count that passed.
func ForEach[T any](ctx context.Context, newAxiom func() fex.Node[T], ctxs []T, fn func(T), opts ...Option) int {
	results := Run(ctx, newAxiom, ctxs, opts...)
	n := 0
	for _, r := range results {
		if r.Passed {
			fn(r.Context)
			n++
		}
	}
	return n
}

// Filter runs newAxiom against every context and returns the contexts
// for which it passed, in input order.
func Filter[T any](ctx context.Context, newAxiom func() fex.Node[T], ctxs []T, opts ...Option) []T {
	results := Run(ctx, newAxiom, ctxs, opts...)
	kept := make([]T, 0, len(results))
	for _, r := range results {
		if r.Passed {
			kept = append(kept, r.Context)
		}
	}
	return kept
}
