package middleware

import "github.com/flowexpr/fex"

// Validate wraps pred to additionally require check(ctx) once pred
// passes, since an Operator has no separate input/output stage to
// validate independently.
func Validate[T any](check func(ctx T) error, onInvalid func(ctx T, err error)) Middleware[T] {
	return func(pred fex.Predicate[T]) fex.Predicate[T] {
		return func(ctx T, slot *fex.ValueSlot) bool {
			if !pred(ctx, slot) {
				return false
			}
			if err := check(ctx); err != nil {
				if onInvalid != nil {
					onInvalid(ctx, err)
				}
				return false
			}
			return true
		}
	}
}

// TransformValue wraps pred to rewrite the value it leaves in the slot
// on success (e.g. normalizing a captured digit string before it reaches
// ActValue).
func TransformValue[T any](transform func(v any) any) Middleware[T] {
	return func(pred fex.Predicate[T]) fex.Predicate[T] {
		return func(ctx T, slot *fex.ValueSlot) bool {
			if !pred(ctx, slot) {
				return false
			}
			if slot.HasValue() {
				slot.Set(true, transform(slot.Value()))
			}
			return true
		}
	}
}

// Recover wraps pred so a panic inside it — the realistic failure mode of
// a script/wasm-backed predicate (script.ExecutePredicate, a wasm plugin
// operator) — is
// reported via onPanic and turned into a plain failed evaluation instead
// of unwinding through the fex tree.
func Recover[T any](onPanic func(ctx T, recovered any)) Middleware[T] {
	return func(pred fex.Predicate[T]) fex.Predicate[T] {
		return func(ctx T, slot *fex.ValueSlot) (result bool) {
			defer func() {
				if r := recover(); r != nil {
					if onPanic != nil {
						onPanic(ctx, r)
					}
					result = false
				}
			}()
			return pred(ctx, slot)
		}
	}
}
