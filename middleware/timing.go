package middleware

import (
	"time"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/store"
)

// timingStats is the value Timing stores under its key and Average reads.
type timingStats struct {
	total time.Duration
	count int64
}

// Timing wraps pred to accumulate its total duration and evaluation count
// in scratch under key.
func Timing[T any](scratch store.Scratch, key string) Middleware[T] {
	acc := store.NewTyped[timingStats](scratch, key)

	return func(pred fex.Predicate[T]) fex.Predicate[T] {
		return func(ctx T, slot *fex.ValueSlot) bool {
			start := time.Now()
			result := pred(ctx, slot)
			elapsed := time.Since(start)

			s, ok, _ := acc.Get()
			if !ok {
				s = timingStats{}
			}
			s.total += elapsed
			s.count++
			acc.Set(s)

			return result
		}
	}
}

// Average reports the running average duration recorded under key, or
// zero if Timing has not recorded anything yet.
func Average(scratch store.Scratch, key string) time.Duration {
	s, ok, _ := store.NewTyped[timingStats](scratch, key).Get()
	if !ok || s.count == 0 {
		return 0
	}
	return s.total / time.Duration(s.count)
}
