// Package compose splices independently built fex axioms together: as
// siblings in a new sequence, or as a single predicate embeddable inside
// a larger grammar via Builder.Op.
package compose

import (
	"fmt"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/store"
)

// AsPredicate adapts axiom into a fex.Predicate, so a whole grammar built
// by one Factory can be used as a single Operator leaf inside another
// grammar (e.g. Builder.Op(compose.AsPredicate(numberAxiom))), letting
// one axiom stand in for a single operator in a larger one.
func AsPredicate[T any](axiom fex.Node[T]) fex.Predicate[T] {
	return func(ctx T, _ *fex.ValueSlot) bool {
		return fex.Run(axiom, ctx)
	}
}

// WithScratch wraps axiom so its result (true/false) is additionally
// recorded under key in scratch, isolating a composed sub-axiom's outcome
// behind an explicit store key rather than threading it through the
// caller's input/output directly.
func WithScratch[T any](axiom fex.Node[T], scratch store.Scratch, key string) fex.Predicate[T] {
	pred := AsPredicate(axiom)
	return func(ctx T, slot *fex.ValueSlot) bool {
		result := pred(ctx, slot)
		scratch.Set(key, result)
		return result
	}
}

// Builder accumulates independently built axioms and splices them,
// in the order added, into a single Sequence. A fex sequence is a fixed
// positional list of children, not a graph with named successors to
// route between, so there is no by-name Connect step to reproduce here.
type Builder[T any] struct {
	name   string
	axioms []fex.Node[T]
}

// NewBuilder creates an empty, named composition builder.
func NewBuilder[T any](name string) *Builder[T] {
	return &Builder[T]{name: name}
}

// Add appends axiom as the next child of the eventual sequence.
func (b *Builder[T]) Add(axiom fex.Node[T]) *Builder[T] {
	b.axioms = append(b.axioms, axiom)
	return b
}

// Build splices every added axiom into one Sequence, in order.
func (b *Builder[T]) Build() (fex.Node[T], error) {
	if len(b.axioms) == 0 {
		return nil, fmt.Errorf("compose: builder %q has no axioms to build", b.name)
	}
	f := fex.NewFactory[T](nil)
	axioms := b.axioms
	return f.Seq(func(bb *fex.Builder[T]) {
		bb.Fex(axioms...)
	}), nil
}
