package fex

import "testing"

// TestOperatorTransportsValueOnSuccess covers testable property 6: a
// value written into the slot reaches the bound value-action only when
// the predicate succeeds.
func TestOperatorTransportsValueOnSuccess(t *testing.T) {
	var got string
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Op(digit())
		ActValue(b, func(v string) { got = v })
	})

	if !Run(axiom, newScanner("9")) {
		t.Fatalf("expected digit to match")
	}
	if got != "9" {
		t.Fatalf("got %q, want 9", got)
	}
}

func TestOperatorValueActionNotCalledOnFailure(t *testing.T) {
	called := false
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Op(digit())
		ActValue(b, func(string) { called = true })
	})

	if Run(axiom, newScanner("x")) {
		t.Fatalf("expected non-digit to fail")
	}
	if called {
		t.Fatalf("value-action must not run on a failed predicate")
	}
}

// TestOperatorPreOpRunsBeforePredicate grounds the pipeline order in
// spec.md §4.1.6: pre-op, then predicate, then (on success) reset and
// value-action.
func TestOperatorPreOpRunsBeforePredicate(t *testing.T) {
	var order []string
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Op(func(s *scanner, slot *ValueSlot) bool {
			order = append(order, "predicate")
			return ch('a')(s, slot)
		})
		b.PreOp(func(*scanner) { order = append(order, "preop") })
	})

	if !Run(axiom, newScanner("a")) {
		t.Fatalf("expected match")
	}
	if len(order) != 2 || order[0] != "preop" || order[1] != "predicate" {
		t.Fatalf("got order %v, want [preop predicate]", order)
	}
}

// TestOperatorFailActionSuppressedDuringLookahead covers testable
// property 7: an Operator's fail-action must not fire while it is only
// being consulted as a lookahead candidate inside a OneOf.
func TestOperatorFailActionSuppressedDuringLookahead(t *testing.T) {
	fired := false
	f := NewFactory[*scanner](nil)
	axiom := f.OneOf(func(b *Builder[*scanner]) {
		b.Op(ch('a'))
		b.OnFail(func(*scanner) { fired = true })
		b.Op(ch('b'))
	})

	if !Run(axiom, newScanner("b")) {
		t.Fatalf("expected second alternative to match")
	}
	if fired {
		t.Fatalf("first alternative's fail-action must not fire during lookahead")
	}
}

func TestOperatorFailActionFiresOnDirectFailure(t *testing.T) {
	fired := false
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Op(ch('a'))
		b.OnFail(func(*scanner) { fired = true })
	})

	if Run(axiom, newScanner("z")) {
		t.Fatalf("expected mismatch to fail")
	}
	if !fired {
		t.Fatalf("expected fail-action to fire on a direct (non-lookahead) failure")
	}
}
