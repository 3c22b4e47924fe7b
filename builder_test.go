package fex

import "testing"

func TestValidOpAlwaysSucceedsAfterSideEffect(t *testing.T) {
	var ran bool
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.ValidOp(func(*scanner) { ran = true })
	})

	if !Run(axiom, newScanner("")) {
		t.Fatalf("expected ValidOp to always succeed")
	}
	if !ran {
		t.Fatalf("expected the side effect to run")
	}
}

func TestDefaultActCommitsSequence(t *testing.T) {
	var menu, dispatch int
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.DefaultAct(func(*scanner) { menu++ })
		b.Op(isEos())
		b.Act(func(*scanner) { dispatch++ })
	})

	if !Run(axiom, newScanner("")) {
		t.Fatalf("expected DefaultAct + eos to succeed")
	}
	if menu != 1 || dispatch != 1 {
		t.Fatalf("got menu=%d dispatch=%d", menu, dispatch)
	}

	// Inside an Optional the sequence is evaluated by lookahead: DefaultAct
	// commits it, so the later mismatch is a hard failure, not a skip.
	opt := f.Opt(func(b *Builder[*scanner]) {
		b.DefaultAct(func(*scanner) { menu++ })
		b.Op(ch('x'))
	})
	if Run(opt, newScanner("y")) {
		t.Fatalf("expected DefaultAct to commit the sequence, making the later mismatch a hard failure")
	}
}

func TestRepActRunsFixedCountWithIndex(t *testing.T) {
	var seen []int
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.RepAct(3, func(_ *scanner, i int) { seen = append(seen, i) })
	})

	if !Run(axiom, newScanner("")) {
		t.Fatalf("expected RepAct to always succeed")
	}
	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Fatalf("got %v, want [0 1 2]", seen)
	}
}

func TestFailNodeAlwaysFailsAfterCallback(t *testing.T) {
	var ran bool
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Fail(func(*scanner) { ran = true })
	})

	if Run(axiom, newScanner("")) {
		t.Fatalf("expected Fail node to always fail")
	}
	if !ran {
		t.Fatalf("expected the Fail callback to run")
	}
}

// TestOnFailIgnoredOnSequenceAndOptional covers DESIGN.md's Open
// Question decision 4: OnFail targets only the node kinds that
// implement failBindable, and is silently ignored otherwise.
func TestOnFailIgnoredOnSequenceAndOptional(t *testing.T) {
	fired := false
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Opt(func(b *Builder[*scanner]) {
			b.Op(ch('('))
			b.Op(ch(')'))
		})
		b.OnFail(func(*scanner) { fired = true }) // targets the Optional; must be a no-op
		b.Op(ch('x'))
	})

	if Run(axiom, newScanner("(zx")) {
		t.Fatalf("expected commit-then-break to fail")
	}
	if fired {
		t.Fatalf("OnFail must be silently ignored when the last-added node is Optional")
	}

	seqFired := false
	axiom = f.Seq(func(b *Builder[*scanner]) {
		b.Seq(func(b *Builder[*scanner]) {
			b.Op(ch('('))
			b.Op(ch(')'))
		})
		b.OnFail(func(*scanner) { seqFired = true }) // targets the Sequence; must be a no-op
	})

	if Run(axiom, newScanner("(z")) {
		t.Fatalf("expected the inner Sequence to fail")
	}
	if seqFired {
		t.Fatalf("OnFail must be silently ignored when the last-added node is a Sequence")
	}
}

func TestActValueNoOpWithoutPrecedingOperator(t *testing.T) {
	f := NewFactory[*scanner](nil)
	// ActValue immediately after a non-Operator node (Act) must not panic
	// and must simply have no effect.
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Act(func(*scanner) {})
		ActValue(b, func(string) {})
		b.Op(ch('a'))
	})

	if !Run(axiom, newScanner("a")) {
		t.Fatalf("expected the sequence to still match")
	}
}

func TestActValueWrongTypeIsDropped(t *testing.T) {
	called := false
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.Op(digit()) // produces a string value
		ActValue(b, func(int) { called = true })
	})

	if !Run(axiom, newScanner("5")) {
		t.Fatalf("expected digit to match")
	}
	if called {
		t.Fatalf("a mismatched value type must be silently dropped, not delivered")
	}
}

func TestOptOneOfIsSkippableButCommitsOnMatch(t *testing.T) {
	f := NewFactory[*scanner](nil)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.OptOneOf(func(b *Builder[*scanner]) {
			b.Op(ch('+'))
			b.Op(ch('-'))
		})
		b.Op(digit())
	})

	if !Run(axiom, newScanner("5")) {
		t.Fatalf("expected OptOneOf to be skippable")
	}
	if !Run(axiom, newScanner("-5")) {
		t.Fatalf("expected OptOneOf to match one of its alternatives")
	}
	if Run(axiom, newScanner("*5")) {
		t.Fatalf("expected an unmatched non-optional leading char to fail")
	}
}

func TestTraceOffSuppressesTracer(t *testing.T) {
	var calls int
	tracer := TracerFunc[*scanner]{TraceFn: func(_ *scanner, _ int, _ string) { calls++ }}

	f := NewFactory[*scanner](tracer)
	axiom := f.Seq(func(b *Builder[*scanner]) {
		b.TraceOn(false)
		b.Trace(func(*scanner) string { return "hi" }, 0)
	})

	Run(axiom, newScanner(""))
	if calls != 0 {
		t.Fatalf("expected tracer suppressed by TraceOn(false), got %d calls", calls)
	}

	axiom2 := f.Seq(func(b *Builder[*scanner]) {
		b.TraceOn(true)
		b.Trace(func(*scanner) string { return "hi" }, 0)
	})
	Run(axiom2, newScanner(""))
	if calls != 1 {
		t.Fatalf("expected exactly one trace call once enabled, got %d", calls)
	}
}
