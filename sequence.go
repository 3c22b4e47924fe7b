package fex

// sequenceNode requires every child to succeed, in order. It has no
// fail-action of its own: a hard failure inside a sequence is always
// reported by whichever child actually broke, so sequenceNode only
// propagates.
type sequenceNode[T any] struct {
	children []Node[T]
}

func (s *sequenceNode[T]) addChild(child Node[T]) {
	s.children = append(s.children, child)
}

// run executes children in order and stops at the first failure. This is
// the non-lookahead path: it never skips an optional child, because by
// the time run is called the sequence has already committed.
func (s *sequenceNode[T]) run(ctx T) bool {
	for _, c := range s.children {
		if !c.run(ctx) {
			return false
		}
	}
	return true
}

// checkRun walks children from the front looking for the one that commits
// the sequence. Optional children that decline (failFirst) are skipped;
// a non-optional decline or a hard break anywhere ends the walk
// immediately. Once a child reports passed, every remaining child must
// succeed via run — a failure there is a commit-then-break, which is
// always failRemainder.
func (s *sequenceNode[T]) checkRun(ctx T) runResult {
	commitIdx := -1
	for i, c := range s.children {
		switch c.checkRun(ctx) {
		case passed:
			commitIdx = i
		case failFirst:
			if c.optional() {
				continue
			}
			return failFirst
		case failRemainder:
			return failRemainder
		}
		break
	}
	if commitIdx < 0 {
		return failFirst
	}
	for i := commitIdx + 1; i < len(s.children); i++ {
		if !s.children[i].run(ctx) {
			return failRemainder
		}
	}
	return passed
}

func (s *sequenceNode[T]) optional() bool { return false }

// newBody collapses a single child to itself and wraps two or more
// children in a sequence, avoiding a pointless wrapper around a
// one-operator Repeat body.
func newBody[T any](children []Node[T]) Node[T] {
	if len(children) == 1 {
		return children[0]
	}
	seq := &sequenceNode[T]{}
	seq.children = append(seq.children, children...)
	return seq
}
