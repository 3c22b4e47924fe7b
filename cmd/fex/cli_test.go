package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowexpr/fex"
)

func TestExpandPathLeavesOrdinaryPathsAlone(t *testing.T) {
	got, err := expandPath("./flow.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "./flow.yaml" {
		t.Fatalf("got %q, want unchanged path", got)
	}
}

func TestExpandPathExpandsHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got, err := expandPath("~/scripts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(home, "scripts") {
		t.Fatalf("got %q, want %q", got, filepath.Join(home, "scripts"))
	}
}

func TestTextContextScansAndReportsEnd(t *testing.T) {
	ctx := newTextContext("ab")
	b, ok := ctx.Peek()
	if !ok || b != 'a' {
		t.Fatalf("got %q, %v, want 'a', true", b, ok)
	}
	ctx.Advance()
	ctx.Advance()
	if !ctx.AtEnd() {
		t.Fatalf("expected AtEnd after consuming input")
	}
	if _, ok := ctx.Peek(); ok {
		t.Fatalf("expected Peek to report false at end")
	}
}

func TestDigitOperatorMatchesOneDigit(t *testing.T) {
	b, err := digitBuilder{}.Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := newTextContext("7x")
	slot := &fex.ValueSlot{}
	if !b(ctx, slot) {
		t.Fatalf("expected digit to match")
	}
	if slot.Value() != "7" {
		t.Fatalf("got %v, want \"7\"", slot.Value())
	}
	if ctx.Remaining() != "x" {
		t.Fatalf("got remaining %q, want \"x\"", ctx.Remaining())
	}
}

func TestLiteralOperatorRequiresExactText(t *testing.T) {
	build, err := literalBuilder{}.Build(map[string]interface{}{"text": "if"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := newTextContext("ifx")
	if !build(ctx, &fex.ValueSlot{}) {
		t.Fatalf("expected literal \"if\" to match prefix")
	}
	if ctx.Remaining() != "x" {
		t.Fatalf("got remaining %q, want \"x\"", ctx.Remaining())
	}

	ctx2 := newTextContext("else")
	if build(ctx2, &fex.ValueSlot{}) {
		t.Fatalf("expected literal \"if\" to fail against \"else\"")
	}
}

func TestLiteralOperatorRejectsEmptyConfig(t *testing.T) {
	if _, err := (literalBuilder{}).Build(nil); err == nil {
		t.Fatalf("expected an error for a missing \"text\" field")
	}
}

func TestEOSOperatorOnlyPassesAtEnd(t *testing.T) {
	build, _ := eosBuilder{}.Build(nil)
	ctx := newTextContext("")
	if !build(ctx, &fex.ValueSlot{}) {
		t.Fatalf("expected eos to pass on empty input")
	}
	ctx2 := newTextContext("x")
	if build(ctx2, &fex.ValueSlot{}) {
		t.Fatalf("expected eos to fail on non-empty input")
	}
}

func TestRunFlowMatchesOneOrMoreDigitsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "digits.yaml")
	doc := `name: digits
root:
  type: rep
  min: 1
  unbounded: true
  children:
    - type: op
      operator: digit
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := runFlow(path, []string{"123"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunFlowRunsMultipleInputsConcurrently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "digits.yaml")
	doc := `name: digits
root:
  type: rep
  min: 1
  unbounded: true
  children:
    - type: op
      operator: digit
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := runFlow(path, []string{"123", "456"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runFlow(path, []string{"123", "x"}); err == nil {
		t.Fatalf("expected an error when one of several inputs fails")
	}
}

func TestRunFlowReportsFailureOnNoMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "digits.yaml")
	doc := `name: digits
root:
  type: op
  operator: digit
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := runFlow(path, []string{"x"}); err == nil {
		t.Fatalf("expected an error for a non-matching input")
	}
}

func TestValidateFlowRejectsUnknownOperator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := `name: bad
root:
  type: op
  operator: nonexistent
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	err := validateFlow(path)
	if err == nil || !strings.Contains(err.Error(), "nonexistent") {
		t.Fatalf("got %v, want an unknown-operator error", err)
	}
}

func TestBuiltinCatalogListsTextOperators(t *testing.T) {
	operators, _ := builtinCatalog()
	types := make(map[string]bool, len(operators))
	for _, m := range operators {
		types[m.Type] = true
	}
	for _, want := range []string{"digit", "letter", "literal", "eos", "const", "jsonpath"} {
		if !types[want] {
			t.Fatalf("expected operator catalog to include %q, got %v", want, types)
		}
	}
}
