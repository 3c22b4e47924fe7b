package main

import (
	"fmt"
	"strings"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/registry"
	"github.com/flowexpr/fex/script"
)

// newRegistry builds the catalog the CLI resolves a YAML document's
// operator/action names against: the ambient registry.Const and
// registry.JSONPath builtins, a handful of text-scanning operators
// (digit, letter, literal, eos) grounded on the same scanning discipline
// as internal/testutil.Cursor, and the "script" operator/action types
// backed by scripts.
func newRegistry(scripts *script.Manager) *registry.Registry[*textContext] {
	r := registry.NewRegistry[*textContext]()
	registry.Const[*textContext](r)
	registry.JSONPath[*textContext](r)
	r.RegisterOperator(digitBuilder{})
	r.RegisterOperator(letterBuilder{})
	r.RegisterOperator(literalBuilder{})
	r.RegisterOperator(eosBuilder{})
	script.Operator[*textContext](r, scripts)
	script.Action[*textContext](r, scripts)
	return r
}

type digitBuilder struct{}

func (digitBuilder) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "digit",
		Category:    "text",
		Description: "Matches one ASCII digit, capturing it as a single-character string.",
		Since:       "1.0.0",
	}
}

func (digitBuilder) Build(map[string]interface{}) (fex.Predicate[*textContext], error) {
	return func(ctx *textContext, slot *fex.ValueSlot) bool {
		b, ok := ctx.Peek()
		if !ok || b < '0' || b > '9' {
			return false
		}
		ctx.Advance()
		return slot.Set(true, string(b))
	}, nil
}

type letterBuilder struct{}

func (letterBuilder) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "letter",
		Category:    "text",
		Description: "Matches one ASCII letter, capturing it as a single-character string.",
		Since:       "1.0.0",
	}
}

func (letterBuilder) Build(map[string]interface{}) (fex.Predicate[*textContext], error) {
	return func(ctx *textContext, slot *fex.ValueSlot) bool {
		b, ok := ctx.Peek()
		if !ok || !((b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')) {
			return false
		}
		ctx.Advance()
		return slot.Set(true, string(b))
	}, nil
}

type literalBuilder struct{}

func (literalBuilder) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "literal",
		Category:    "text",
		Description: "Matches a fixed literal string at the cursor.",
		ConfigSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"text"},
			"properties": map[string]interface{}{
				"text": map[string]interface{}{"type": "string"},
			},
		},
		Examples: []registry.Example{
			{Name: "Match a keyword", Description: "Require the literal \"if\"", Config: map[string]interface{}{"text": "if"}},
		},
		Since: "1.0.0",
	}
}

func (literalBuilder) Build(config map[string]interface{}) (fex.Predicate[*textContext], error) {
	text, _ := config["text"].(string)
	if text == "" {
		return nil, fmt.Errorf("literal: \"text\" must be a non-empty string")
	}
	return func(ctx *textContext, slot *fex.ValueSlot) bool {
		if !strings.HasPrefix(ctx.Remaining(), text) {
			return false
		}
		for i := 0; i < len(text); i++ {
			ctx.Advance()
		}
		return slot.Set(true, text)
	}, nil
}

type eosBuilder struct{}

func (eosBuilder) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "eos",
		Category:    "text",
		Description: "Passes only when the cursor has consumed the whole input.",
		Since:       "1.0.0",
	}
}

func (eosBuilder) Build(map[string]interface{}) (fex.Predicate[*textContext], error) {
	return func(ctx *textContext, _ *fex.ValueSlot) bool {
		return ctx.AtEnd()
	}, nil
}
