// Package middleware decorates the Predicate a fex Operator or Assert
// evaluates with cross-cutting concerns — logging, metrics, timing,
// value validation/transformation — without touching the grammar that
// calls fex.Builder.Op/Assert.
package middleware

import "github.com/flowexpr/fex"

// Middleware wraps a predicate with additional behavior.
type Middleware[T any] func(fex.Predicate[T]) fex.Predicate[T]

// Chain combines middlewares into one, applied outermost-first: the
// first middleware in the list sees the call before any of the others.
func Chain[T any](middlewares ...Middleware[T]) Middleware[T] {
	return func(pred fex.Predicate[T]) fex.Predicate[T] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			pred = middlewares[i](pred)
		}
		return pred
	}
}

// Apply decorates pred with middlewares in order.
func Apply[T any](pred fex.Predicate[T], middlewares ...Middleware[T]) fex.Predicate[T] {
	return Chain(middlewares...)(pred)
}
