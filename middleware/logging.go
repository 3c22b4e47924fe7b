package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/flowexpr/fex"
)

// Logging wraps pred with structured logging of each evaluation: a debug
// line before, an info line with the outcome and duration after.
// describe labels the predicate in the log output, since operator names
// are not part of fex's runtime model.
func Logging[T any](logger *zap.Logger, describe string) Middleware[T] {
	return func(pred fex.Predicate[T]) fex.Predicate[T] {
		return func(ctx T, slot *fex.ValueSlot) bool {
			logger.Debug("operator evaluating", zap.String("predicate", describe))
			start := time.Now()

			result := pred(ctx, slot)

			logger.Info("operator evaluated",
				zap.String("predicate", describe),
				zap.Bool("passed", result),
				zap.Duration("duration", time.Since(start)),
				zap.Bool("has_value", slot.HasValue()),
			)
			return result
		}
	}
}
