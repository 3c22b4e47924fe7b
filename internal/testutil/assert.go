// Package testutil provides small assertion and fixture helpers shared
// across this module's package tests.
package testutil

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/flowexpr/fex"
)

// Assert bundles the small set of assertions this module's tests reach
// for repeatedly.
type Assert struct {
	t *testing.T
}

// NewAssert creates an assertion helper bound to t.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

func (a *Assert) Equal(expected, actual any, msgAndArgs ...any) {
	a.t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		a.fail(fmt.Sprintf("expected: %v\nactual: %v", expected, actual), msgAndArgs...)
	}
}

func (a *Assert) True(value bool, msgAndArgs ...any) {
	a.t.Helper()
	if !value {
		a.fail("expected true, got false", msgAndArgs...)
	}
}

func (a *Assert) False(value bool, msgAndArgs ...any) {
	a.t.Helper()
	if value {
		a.fail("expected false, got true", msgAndArgs...)
	}
}

func (a *Assert) NoError(err error, msgAndArgs ...any) {
	a.t.Helper()
	if err != nil {
		a.fail(fmt.Sprintf("expected no error, got: %v", err), msgAndArgs...)
	}
}

func (a *Assert) Error(err error, msgAndArgs ...any) {
	a.t.Helper()
	if err == nil {
		a.fail("expected an error, got nil", msgAndArgs...)
	}
}

func (a *Assert) Panics(fn func(), msgAndArgs ...any) {
	a.t.Helper()
	defer func() {
		if r := recover(); r == nil {
			a.fail("expected a panic, function completed normally", msgAndArgs...)
		}
	}()
	fn()
}

func (a *Assert) InDelta(expected, actual, delta float64, msgAndArgs ...any) {
	a.t.Helper()
	diff := expected - actual
	if diff < 0 {
		diff = -diff
	}
	if diff > delta {
		a.fail(fmt.Sprintf("expected %f ± %f, got %f", expected, delta, actual), msgAndArgs...)
	}
}

// AxiomPasses runs axiom against ctx and fails the test if it reports
// failure. A fex axiom has no separate result value to return: success
// is the assertion, and any captured output lives in ctx itself.
func AxiomPasses[T any](t *testing.T, axiom fex.Node[T], ctx T) {
	t.Helper()
	if !fex.Run(axiom, ctx) {
		t.Fatalf("expected axiom to pass against %+v", ctx)
	}
}

// AxiomFails runs axiom against ctx and fails the test if it reports
// success.
func AxiomFails[T any](t *testing.T, axiom fex.Node[T], ctx T) {
	t.Helper()
	if fex.Run(axiom, ctx) {
		t.Fatalf("expected axiom to fail against %+v", ctx)
	}
}

func (a *Assert) fail(message string, msgAndArgs ...any) {
	a.t.Helper()
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok && len(msgAndArgs) > 1 {
			message = fmt.Sprintf(format, msgAndArgs[1:]...) + "\n" + message
		} else if len(msgAndArgs) == 1 {
			message = fmt.Sprintf("%v\n%s", msgAndArgs[0], message)
		}
	}
	a.t.Fatal(message)
}

// Eventually polls condition until it returns true or timeout elapses.
func (a *Assert) Eventually(condition func() bool, timeout time.Duration, msgAndArgs ...any) {
	a.t.Helper()
	deadline := time.Now().Add(timeout)
	interval := timeout / 100
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	a.fail("condition did not become true within timeout", msgAndArgs...)
}
