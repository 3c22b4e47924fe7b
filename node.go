package fex

// runResult is the three-valued outcome of a lookahead evaluation. It is
// the keystone of the design: it lets a OneOf pick an alternative on the
// basis of its very first step while still treating a later failure as a
// real, hard error.
type runResult int

const (
	// passed means the node succeeded end-to-end.
	passed runResult = iota
	// failFirst means the first meaningful step declined; the enclosing
	// container may treat this as "not this alternative" without error.
	failFirst
	// failRemainder means a committing step passed but a later step
	// failed; this propagates as a hard failure.
	failRemainder
)

// Node is the sealed variant of flow-expression tree nodes. The interface
// is implemented only by the node kinds defined in this package (the
// unexported methods keep it closed to outside implementations), which is
// the idiomatic Go stand-in for a sealed sum type: Sequence, Optional,
// OneOf, NotOneOf, Repeat, Operator, Assert, Action, RepAction, Fail, and
// named reference.
//
// A Node is constructed once by a Builder and then retained for the
// lifetime of the axiom that owns it; it is not mutated after the axiom is
// finalized, except for the one-shot state carried by an attached PreOp.
type Node[T any] interface {
	// run executes the node against ctx. A bound fail-action may fire on
	// a hard failure.
	run(ctx T) bool

	// checkRun is the lookahead variant used by containers to decide
	// between "not this alternative" (failFirst) and "this alternative
	// broke" (failRemainder) without double-reporting a diagnostic.
	checkRun(ctx T) runResult

	// optional reports whether the node may be silently absent from a
	// Sequence without being the node that commits the sequence.
	optional() bool
}

// containerNode is the subset of Node kinds that accept children appended
// during a nested build.
type containerNode[T any] interface {
	Node[T]
	addChild(child Node[T])
}

// failBindable is implemented by the node kinds that OnFail is allowed to
// target: Operator, Assert, Repeat, OneOf, and NotOneOf. Sequence and
// Optional are deliberately excluded — a hard failure inside either one
// is always reported by whichever committing leaf or container actually
// broke, so attaching a second diagnostic at the wrapper would just
// duplicate it.
type failBindable[T any] interface {
	setOnFail(fn func(ctx T))
}
