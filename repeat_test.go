package fex

import "testing"

// TestRepeatRespectsMinimum covers testable property 4: a Repeat with
// min > 0 fails if fewer than min repetitions are available.
func TestRepeatRespectsMinimum(t *testing.T) {
	f := NewFactory[*scanner](nil)
	axiom := f.RepN(3, func(b *Builder[*scanner]) {
		b.Op(digit())
	})

	if !Run(axiom, newScanner("123")) {
		t.Fatalf("expected exactly 3 digits to satisfy RepN(3)")
	}
	if Run(axiom, newScanner("12")) {
		t.Fatalf("expected 2 digits to fail RepN(3)")
	}
}

func TestRepeatStopsAtMaximum(t *testing.T) {
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Rep(0, 2, func(b *Builder[*scanner]) {
			b.Op(digit())
		})
		b.Op(ch('x'))
	})

	s := newScanner("12x")
	if !Run(axiom, s) {
		t.Fatalf("expected 12x to satisfy Rep(0,2) then 'x'")
	}

	// only the first two digits are consumed by the repeat; the third
	// digit is left for 'x' to fail against, proving the cap held.
	if Run(axiom, newScanner("123x")) {
		t.Fatalf("expected Rep(0,2) to stop after two digits, leaving '3' for 'x' to fail against")
	}
}

func TestRepeatZeroMinAlwaysSucceedsWhenBodyNeverMatches(t *testing.T) {
	f := NewFactory[*scanner](nil)
	axiom := f.RepZeroN(func(b *Builder[*scanner]) {
		b.Op(digit())
	})

	s := newScanner("abc")
	if !Run(axiom, s) {
		t.Fatalf("expected RepZeroN to succeed with zero repetitions")
	}
	if s.pos != 0 {
		t.Fatalf("expected no input consumed, pos=%d", s.pos)
	}
}

// TestRepeatUnboundedConsumesAllAvailable exercises the -1 maxExtra
// sentinel driving the tail phase to run until the body declines.
func TestRepeatUnboundedConsumesAllAvailable(t *testing.T) {
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.RepOneN(func(b *Builder[*scanner]) {
			b.Op(digit())
		})
		b.Op(isEos())
	})

	if !Run(axiom, newScanner("123456")) {
		t.Fatalf("expected RepOneN to consume every digit down to eos")
	}
	if Run(axiom, newScanner("")) {
		t.Fatalf("expected RepOneN(min=1) to fail on empty input")
	}
}

// TestRepeatCommitThenBreakIsHardFailure covers the case where a
// mandatory repetition matches its first step but then breaks partway.
func TestRepeatCommitThenBreakIsHardFailure(t *testing.T) {
	f := NewFactory[*scanner](nil)
	axiom := f.Opt(func(b *Builder[*scanner]) {
		b.RepN(2, func(b *Builder[*scanner]) {
			b.Op(ch('('))
			b.Op(ch(')'))
		})
	})

	if Run(axiom, newScanner("()(x")) {
		t.Fatalf("expected second repetition's commit-then-break to fail even inside Optional")
	}
}
