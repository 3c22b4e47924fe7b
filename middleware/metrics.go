package middleware

import (
	"time"

	"github.com/flowexpr/fex"
)

// Collector receives per-evaluation metrics. Production code typically
// backs this with a Prometheus or OpenTelemetry counter/histogram pair;
// fex stays agnostic of which.
type Collector interface {
	RecordEvaluation(predicate string, passed bool, duration time.Duration)
}

// Metrics wraps pred to report every evaluation to collector.
func Metrics[T any](collector Collector, describe string) Middleware[T] {
	return func(pred fex.Predicate[T]) fex.Predicate[T] {
		return func(ctx T, slot *fex.ValueSlot) bool {
			start := time.Now()
			result := pred(ctx, slot)
			collector.RecordEvaluation(describe, result, time.Since(start))
			return result
		}
	}
}
