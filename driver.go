package fex

// Run drives axiom against ctx and reports whether it succeeded. Any
// observable side effect — captured values, diagnostics logged by a
// fail-action — happens inside the callbacks the caller supplied while
// building axiom; Run itself is a thin wrapper.
//
// An axiom must not be re-entered from within a callback it fires, and a
// single axiom instance must not be run concurrently from more than one
// goroutine: PreOp state is per-axiom, not per-call. Build a separate instance per concurrent run (see the
// batch package) instead of sharing one.
func Run[T any](axiom Node[T], ctx T) bool {
	if axiom == nil {
		return false
	}
	return axiom.run(ctx)
}
