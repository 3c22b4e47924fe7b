package fex

// sharedState is the configuration a Factory seeds once and every Builder
// derived from it (including the ones created for nested composites)
// reads and mutates in common: the reference registry, the tracer, the
// global pre-op, and the default-skip convenience callback. It is never
// shared across two different Factory instances.
type sharedState[T any] struct {
	refs        *ReferenceRegistry[T]
	tracer      Tracer[T]
	tracingOn   bool
	globalPreOp *PreOp[T]
	defaultSkip func(ctx T)
}

// Builder assembles one subtree by appending children to host. Factory
// methods create a Builder rooted at a new top-level node; composite
// builder methods (Seq, Opt, OneOf, ...) create a nested Builder rooted at
// the new composite for the duration of the caller-supplied closure, then
// restore the caller's Builder as current.
type Builder[T any] struct {
	host         containerNode[T]
	shared       *sharedState[T]
	lastAdded    Node[T]
	lastOperator *operatorNode[T]
	lastFail     failBindable[T]
}

// BuildFunc is the closure shape every composite builder method takes: it
// receives a Builder scoped to the new composite's children.
type BuildFunc[T any] func(b *Builder[T])

func newBuilder[T any](host containerNode[T], shared *sharedState[T]) *Builder[T] {
	return &Builder[T]{host: host, shared: shared}
}

// addComposite builds n's children via build (if non-nil) in a nested
// Builder scope, appends n to the current host, and updates the
// last-added/last-operator/last-fail tracking the way every composite
// builder method needs to.
func (b *Builder[T]) addComposite(n containerNode[T], build BuildFunc[T]) *Builder[T] {
	if build != nil {
		build(newBuilder(n, b.shared))
	}
	b.host.addChild(n)
	b.lastAdded = n
	b.lastOperator = nil
	if fb, ok := n.(failBindable[T]); ok {
		b.lastFail = fb
	} else {
		b.lastFail = nil
	}
	return b
}

// Seq appends a Sequence node whose children are built by build.
func (b *Builder[T]) Seq(build BuildFunc[T]) *Builder[T] {
	return b.addComposite(&sequenceNode[T]{}, build)
}

// Opt appends an Optional node whose children are built by build.
func (b *Builder[T]) Opt(build BuildFunc[T]) *Builder[T] {
	return b.addComposite(newOptionalNode[T](), build)
}

// OneOf appends a OneOf node whose alternatives are built by build —
// each top-level child added inside build is a distinct alternative.
func (b *Builder[T]) OneOf(build BuildFunc[T]) *Builder[T] {
	return b.addComposite(&oneOfNode[T]{}, build)
}

// OptOneOf appends an Optional wrapping a OneOf: the whole alternation is
// skippable, but once an alternative inside it commits, that alternative
// must complete normally.
func (b *Builder[T]) OptOneOf(build BuildFunc[T]) *Builder[T] {
	oneOf := &oneOfNode[T]{}
	if build != nil {
		build(newBuilder[T](oneOf, b.shared))
	}
	opt := newOptionalNode[T]()
	opt.addChild(oneOf)
	b.host.addChild(opt)
	b.lastAdded = opt
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// NotOneOf appends a NotOneOf node: it succeeds iff none of the
// alternatives built by build would succeed.
func (b *Builder[T]) NotOneOf(build BuildFunc[T]) *Builder[T] {
	return b.addComposite(&notOneOfNode[T]{}, build)
}

// BreakOn is an alias for NotOneOf, named for its common use as a
// termination guard inside a Repeat.
func (b *Builder[T]) BreakOn(build BuildFunc[T]) *Builder[T] {
	return b.NotOneOf(build)
}

// Rep appends a Repeat node with the given bounds. max == -1 means
// unbounded.
func (b *Builder[T]) Rep(min, max int, build BuildFunc[T]) *Builder[T] {
	seq := &sequenceNode[T]{}
	if build != nil {
		build(newBuilder[T](seq, b.shared))
	}
	r := newRepeatNode[T](min, max, seq)
	b.host.addChild(r)
	b.lastAdded = r
	b.lastOperator = nil
	b.lastFail = r
	return b
}

// RepN appends a Repeat node with min == max == n.
func (b *Builder[T]) RepN(n int, build BuildFunc[T]) *Builder[T] {
	return b.Rep(n, n, build)
}

// RepZeroN appends an unbounded Repeat with min == 0.
func (b *Builder[T]) RepZeroN(build BuildFunc[T]) *Builder[T] {
	return b.Rep(0, -1, build)
}

// RepOneN appends an unbounded Repeat with min == 1.
func (b *Builder[T]) RepOneN(build BuildFunc[T]) *Builder[T] {
	return b.Rep(1, -1, build)
}

// RepOneOf appends a Repeat whose body is a OneOf rather than a Sequence,
// so each repetition picks one of several alternative shapes.
func (b *Builder[T]) RepOneOf(min, max int, build BuildFunc[T]) *Builder[T] {
	oneOf := &oneOfNode[T]{}
	if build != nil {
		build(newBuilder[T](oneOf, b.shared))
	}
	r := newRepeatNode[T](min, max, oneOf)
	b.host.addChild(r)
	b.lastAdded = r
	b.lastOperator = nil
	b.lastFail = r
	return b
}

// Op appends an Operator evaluating pred. The operator is created with
// whatever global pre-op is currently configured; see GlobalPreOp.
func (b *Builder[T]) Op(pred Predicate[T]) *Builder[T] {
	op := &operatorNode[T]{predicate: pred, preOp: b.shared.globalPreOp}
	b.host.addChild(op)
	b.lastAdded = op
	b.lastOperator = op
	b.lastFail = op
	return b
}

// OpFunc appends an Operator from a predicate that ignores the value
// slot — sugar for the common case of a pure pass/fail test.
func (b *Builder[T]) OpFunc(pred func(ctx T) bool) *Builder[T] {
	return b.Op(func(ctx T, _ *ValueSlot) bool { return pred(ctx) })
}

// ValidOp appends an Operator that always succeeds after running act —
// useful for an unconditional side effect that still goes through the
// pre-op pipeline, unlike Act.
func (b *Builder[T]) ValidOp(act func(ctx T)) *Builder[T] {
	return b.Op(func(ctx T, _ *ValueSlot) bool {
		act(ctx)
		return true
	})
}

// Assert appends an Assert node: like Op, but its failure is always a
// hard error, never a lookahead decline, and it never has a pre-op. fail
// may be nil.
func (b *Builder[T]) Assert(pred Predicate[T], fail func(ctx T)) *Builder[T] {
	a := &assertNode[T]{predicate: pred, onFail: fail}
	b.host.addChild(a)
	b.lastAdded = a
	b.lastOperator = nil
	b.lastFail = a
	return b
}

// Act appends an Action node. It always runs fn and always succeeds, and
// never commits a sequence by itself.
func (b *Builder[T]) Act(fn func(ctx T)) *Builder[T] {
	n := &actionNode[T]{fn: fn}
	b.host.addChild(n)
	b.lastAdded = n
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// DefaultAct (alias ValidAct) appends a committing Action: its checkRun
// reports passed, so it can be the node that commits a sequence — the
// shape a menu loop's "always do this, then decide" step needs.
func (b *Builder[T]) DefaultAct(fn func(ctx T)) *Builder[T] {
	n := &actionNode[T]{fn: fn, committing: true}
	b.host.addChild(n)
	b.lastAdded = n
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// ValidAct is an alias for DefaultAct.
func (b *Builder[T]) ValidAct(fn func(ctx T)) *Builder[T] {
	return b.DefaultAct(fn)
}

// RepAct appends a RepAction node that runs fn n times.
func (b *Builder[T]) RepAct(n int, fn func(ctx T, index int)) *Builder[T] {
	node := &repActionNode[T]{n: n, fn: fn}
	b.host.addChild(node)
	b.lastAdded = node
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// Fail appends a Fail node: it always runs fn, then always fails.
func (b *Builder[T]) Fail(fn func(ctx T)) *Builder[T] {
	node := &failNode[T]{fn: fn}
	b.host.addChild(node)
	b.lastAdded = node
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// OnFail attaches fn as the fail-action of the most recently added node,
// if that node is one of the kinds a fail-action can target (Operator,
// Assert, Repeat, OneOf, NotOneOf). Otherwise the call is silently
// ignored, matching the source behavior.
func (b *Builder[T]) OnFail(fn func(ctx T)) *Builder[T] {
	if b.lastFail != nil {
		b.lastFail.setOnFail(fn)
	}
	return b
}

// RefName registers the node currently being built (the Builder's host)
// under name, so a later Ref(name) anywhere in the tree can find it once
// it is complete. Registering the same name twice silently rebinds it;
// see ReferenceRegistry.Record.
func (b *Builder[T]) RefName(name string) *Builder[T] {
	b.shared.refs.Record(name, b.host)
	return b
}

// Ref appends a forward reference to the production registered under
// name. The reference resolves at execution time, so Ref may be called
// before the corresponding RefName.
func (b *Builder[T]) Ref(name string) *Builder[T] {
	n := b.shared.refs.Link(name)
	b.host.addChild(n)
	b.lastAdded = n
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// OptSelf appends an Optional child that recurses into the current host,
// letting a production reference itself without a RefName/Ref pair.
func (b *Builder[T]) OptSelf() *Builder[T] {
	opt := newOptionalNode[T]()
	opt.addChild(&selfRefNode[T]{target: b.host})
	b.host.addChild(opt)
	b.lastAdded = opt
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// Fex splices already-built node handles in as children of the current
// host, in the order given.
func (b *Builder[T]) Fex(nodes ...Node[T]) *Builder[T] {
	for _, n := range nodes {
		b.host.addChild(n)
		b.lastAdded = n
	}
	b.lastOperator = nil
	b.lastFail = nil
	return b
}

// ActValue binds handler as the value-action of the most recently added
// Operator, type-asserting the transported value to V. A value of the
// wrong type is silently dropped rather than panicking, since the
// operator's predicate and the value-action are written by the same
// caller and a mismatch is a programmer error best caught by a test, not
// a runtime panic deep inside a parse.
func ActValue[T, V any](b *Builder[T], handler func(v V)) *Builder[T] {
	if b.lastOperator == nil {
		return b
	}
	b.lastOperator.valueAction = func(v any) {
		if typed, ok := v.(V); ok {
			handler(typed)
		}
	}
	return b
}

// GlobalPreOp sets the PreOp every subsequently created Operator is given
// by default. Passing nil clears it.
func (b *Builder[T]) GlobalPreOp(act func(ctx T)) *Builder[T] {
	if act == nil {
		b.shared.globalPreOp = nil
		return b
	}
	b.shared.globalPreOp = NewPreOp(act)
	return b
}

// PreOp replaces the most recently added Operator's pre-op with a fresh
// one wrapping act. It has no effect if there is no current Operator.
func (b *Builder[T]) PreOp(act func(ctx T)) *Builder[T] {
	if b.lastOperator == nil {
		return b
	}
	b.lastOperator.preOp = NewPreOp(act)
	return b
}

// GlobalSkip records fn as the default skip action (used by Skip) and
// also installs it as the current global pre-op.
func (b *Builder[T]) GlobalSkip(fn func(ctx T)) *Builder[T] {
	b.shared.defaultSkip = fn
	return b.GlobalPreOp(fn)
}

// Skip replaces the most recently added Operator's pre-op with the
// registered default-skip action. It has no effect if no default skip has
// been set, or if there is no current Operator.
func (b *Builder[T]) Skip() *Builder[T] {
	if b.shared.defaultSkip == nil || b.lastOperator == nil {
		return b
	}
	return b.PreOp(b.shared.defaultSkip)
}

// Trace appends an Action that, when tracing is enabled, sends
// fmtFn(ctx)'s result to the configured Tracer at level. It is a no-op if
// no Tracer is configured.
func (b *Builder[T]) Trace(fmtFn func(ctx T) string, level int) *Builder[T] {
	return b.Act(func(ctx T) {
		if b.shared.tracer == nil || !b.shared.tracingOn {
			return
		}
		b.shared.tracer.Trace(ctx, level, fmtFn(ctx))
	})
}

// TraceOp binds a trace-action to the most recently added Operator: on
// every evaluation, if tracing is enabled, it reports fmtFn(ctx) and the
// operator's pass/fail result to the configured Tracer.
func (b *Builder[T]) TraceOp(fmtFn func(ctx T) string, level int) *Builder[T] {
	if b.lastOperator == nil {
		return b
	}
	b.lastOperator.traceAction = func(ctx T, _ *ValueSlot, result bool) {
		if b.shared.tracer == nil || !b.shared.tracingOn {
			return
		}
		b.shared.tracer.TraceResult(ctx, level, fmtFn(ctx), result)
	}
	return b
}

// TraceOpWithValue is like TraceOp, but fmtFn also receives the
// transported value (nil if the operator did not fill its value slot).
func (b *Builder[T]) TraceOpWithValue(fmtFn func(ctx T, value any) string, level int) *Builder[T] {
	if b.lastOperator == nil {
		return b
	}
	b.lastOperator.traceAction = func(ctx T, slot *ValueSlot, result bool) {
		if b.shared.tracer == nil || !b.shared.tracingOn {
			return
		}
		b.shared.tracer.TraceResult(ctx, level, fmtFn(ctx, slot.Value()), result)
	}
	return b
}

// TraceOn enables or disables every trace binding created by Trace,
// TraceOp, and TraceOpWithValue, without removing them.
func (b *Builder[T]) TraceOn(enabled bool) *Builder[T] {
	b.shared.tracingOn = enabled
	return b
}
