package fex

// Factory owns a single set of build-time state — the reference registry
// and the tracer — and exposes the top-level constructors for the
// composite node kinds. Each constructor returns a handle to the node it
// built so the caller can use it as an axiom (pass it to Run), splice it
// into another expression with Fex, or name it with RefName for later
// forward reference.
//
// Two factories never share state; each owns its own ReferenceRegistry,
// so the same production name in two factories never collides.
type Factory[T any] struct {
	shared *sharedState[T]
}

// NewFactory creates a Factory. tracer may be nil, in which case trace
// bindings created through the builder are simply inert.
func NewFactory[T any](tracer Tracer[T]) *Factory[T] {
	return &Factory[T]{
		shared: &sharedState[T]{
			refs:      newReferenceRegistry[T](),
			tracer:    tracer,
			tracingOn: tracer != nil,
		},
	}
}

func (f *Factory[T]) builder(host containerNode[T]) *Builder[T] {
	return newBuilder(host, f.shared)
}

// Seq builds a top-level Sequence node.
func (f *Factory[T]) Seq(build BuildFunc[T]) Node[T] {
	n := &sequenceNode[T]{}
	if build != nil {
		build(f.builder(n))
	}
	return n
}

// Opt builds a top-level Optional node.
func (f *Factory[T]) Opt(build BuildFunc[T]) Node[T] {
	n := newOptionalNode[T]()
	if build != nil {
		build(f.builder(n))
	}
	return n
}

// OneOf builds a top-level OneOf node.
func (f *Factory[T]) OneOf(build BuildFunc[T]) Node[T] {
	n := &oneOfNode[T]{}
	if build != nil {
		build(f.builder(n))
	}
	return n
}

// OptOneOf builds a top-level Optional wrapping a OneOf.
func (f *Factory[T]) OptOneOf(build BuildFunc[T]) Node[T] {
	oneOf := &oneOfNode[T]{}
	if build != nil {
		build(f.builder(oneOf))
	}
	opt := newOptionalNode[T]()
	opt.addChild(oneOf)
	return opt
}

// NotOneOf builds a top-level NotOneOf node.
func (f *Factory[T]) NotOneOf(build BuildFunc[T]) Node[T] {
	n := &notOneOfNode[T]{}
	if build != nil {
		build(f.builder(n))
	}
	return n
}

// BreakOn is an alias for NotOneOf.
func (f *Factory[T]) BreakOn(build BuildFunc[T]) Node[T] {
	return f.NotOneOf(build)
}

// Rep builds a top-level Repeat node with the given bounds. max == -1
// means unbounded.
func (f *Factory[T]) Rep(min, max int, build BuildFunc[T]) Node[T] {
	seq := &sequenceNode[T]{}
	if build != nil {
		build(f.builder(seq))
	}
	return newRepeatNode[T](min, max, seq)
}

// RepN builds a top-level Repeat node with min == max == n.
func (f *Factory[T]) RepN(n int, build BuildFunc[T]) Node[T] {
	return f.Rep(n, n, build)
}

// RepZeroN builds a top-level unbounded Repeat with min == 0.
func (f *Factory[T]) RepZeroN(build BuildFunc[T]) Node[T] {
	return f.Rep(0, -1, build)
}

// RepOneN builds a top-level unbounded Repeat with min == 1.
func (f *Factory[T]) RepOneN(build BuildFunc[T]) Node[T] {
	return f.Rep(1, -1, build)
}

// RepOneOf builds a top-level Repeat whose body is a OneOf.
func (f *Factory[T]) RepOneOf(min, max int, build BuildFunc[T]) Node[T] {
	oneOf := &oneOfNode[T]{}
	if build != nil {
		build(f.builder(oneOf))
	}
	return newRepeatNode[T](min, max, oneOf)
}

// Refs returns the factory's reference registry, for callers that want to
// Record or Link productions outside of a builder closure (rarely
// needed; RefName/Ref on a Builder cover the common case).
func (f *Factory[T]) Refs() *ReferenceRegistry[T] {
	return f.shared.refs
}
