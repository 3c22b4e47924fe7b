package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/store"
)

type countingCollector struct {
	calls int
	last  bool
}

func (c *countingCollector) RecordEvaluation(_ string, passed bool, _ time.Duration) {
	c.calls++
	c.last = passed
}

func alwaysTrue(_ int, slot *fex.ValueSlot) bool {
	slot.Set(true, "raw")
	return true
}

func alwaysFalse(_ int, _ *fex.ValueSlot) bool { return false }

func TestChainAppliesOutermostFirst(t *testing.T) {
	var order []string
	mark := func(name string) Middleware[int] {
		return func(pred fex.Predicate[int]) fex.Predicate[int] {
			return func(ctx int, slot *fex.ValueSlot) bool {
				order = append(order, name)
				return pred(ctx, slot)
			}
		}
	}

	wrapped := Apply[int](alwaysTrue, mark("outer"), mark("inner"))
	wrapped(0, &fex.ValueSlot{})

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("got order %v, want [outer inner]", order)
	}
}

func TestMetricsRecordsPassAndDuration(t *testing.T) {
	c := &countingCollector{}
	wrapped := Metrics[int](c, "always-true")

	wrapped(alwaysTrue)(0, &fex.ValueSlot{})
	if c.calls != 1 || !c.last {
		t.Fatalf("got calls=%d last=%v", c.calls, c.last)
	}

	wrapped(alwaysFalse)(0, &fex.ValueSlot{})
	if c.calls != 2 || c.last {
		t.Fatalf("got calls=%d last=%v", c.calls, c.last)
	}
}

func TestTimingAccumulatesAverage(t *testing.T) {
	s := store.NewScratch()
	wrapped := Timing[int](s, "op")(alwaysTrue)

	wrapped(0, &fex.ValueSlot{})
	wrapped(0, &fex.ValueSlot{})

	if Average(s, "op") < 0 {
		t.Fatalf("expected a non-negative average")
	}
	st, ok, err := store.NewTyped[timingStats](s, "op").Get()
	if err != nil || !ok || st.count != 2 {
		t.Fatalf("got stats=%+v ok=%v err=%v, want count 2", st, ok, err)
	}
}

func TestValidateRejectsWhenCheckFails(t *testing.T) {
	var gotErr error
	wrapped := Validate[int](
		func(int) error { return errors.New("nope") },
		func(_ int, err error) { gotErr = err },
	)(alwaysTrue)

	if wrapped(0, &fex.ValueSlot{}) {
		t.Fatalf("expected Validate to reject once check fails")
	}
	if gotErr == nil {
		t.Fatalf("expected onInvalid to be called")
	}
}

func TestValidateSkipsCheckWhenPredicateFails(t *testing.T) {
	called := false
	wrapped := Validate[int](
		func(int) error { called = true; return nil },
		nil,
	)(alwaysFalse)

	if wrapped(0, &fex.ValueSlot{}) {
		t.Fatalf("expected failure to propagate")
	}
	if called {
		t.Fatalf("expected check not to run when the predicate itself fails")
	}
}

func TestTransformValueRewritesSlotOnSuccess(t *testing.T) {
	wrapped := TransformValue[int](func(v any) any { return v.(string) + "!" })(alwaysTrue)

	slot := &fex.ValueSlot{}
	if !wrapped(0, slot) {
		t.Fatalf("expected success")
	}
	if slot.Value() != "raw!" {
		t.Fatalf("got %v", slot.Value())
	}
}

func TestRecoverTurnsPanicIntoFailure(t *testing.T) {
	var recovered any
	panics := func(_ int, _ *fex.ValueSlot) bool { panic("boom") }
	wrapped := Recover[int](func(_ int, r any) { recovered = r })(panics)

	if wrapped(0, &fex.ValueSlot{}) {
		t.Fatalf("expected a panicking predicate to report failure")
	}
	if recovered != "boom" {
		t.Fatalf("got recovered=%v", recovered)
	}
}
