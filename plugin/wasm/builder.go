package wasm

import (
	"context"
	"encoding/json"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/plugin"
	"github.com/flowexpr/fex/registry"
)

// Input is implemented by a context type that can hand a plugin a plain
// Go value to marshal as its operator input — the WASM analogue of
// script.Input.
type Input interface {
	PluginInput() any
}

// OperatorBuilder implements registry.OperatorBuilder[T] by calling a
// loaded plugin's single "eval" RPC for one of the operator types it
// exports.
type OperatorBuilder[T Input] struct {
	ctx      context.Context
	plugin   plugin.Plugin
	operator plugin.OperatorDefinition
}

// NewOperatorBuilder creates a builder for one operator type p exports.
// ctx bounds every Call made through the resulting predicate — a plugin
// call has no other natural place to source a context.Context from,
// since fex.Predicate carries only the caller's T.
func NewOperatorBuilder[T Input](ctx context.Context, p plugin.Plugin, operator plugin.OperatorDefinition) *OperatorBuilder[T] {
	return &OperatorBuilder[T]{ctx: ctx, plugin: p, operator: operator}
}

// Register builds and registers an OperatorBuilder for every operator p
// exports.
func Register[T Input](r *registry.Registry[T], ctx context.Context, p plugin.Plugin) {
	for _, def := range p.Metadata().Operators {
		r.RegisterOperator(NewOperatorBuilder[T](ctx, p, def))
	}
}

// Metadata returns the operator's registry metadata, translated from the
// plugin manifest.
func (b *OperatorBuilder[T]) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:         b.operator.Type,
		Category:     b.operator.Category,
		Description:  b.operator.Description,
		ConfigSchema: b.operator.ConfigSchema,
		Examples:     convertExamples(b.operator.Examples),
		Since:        b.plugin.Metadata().Version,
	}
}

// Build returns a predicate that marshals ctx's plugin input, sends it
// to the plugin's "eval" function alongside config, and interprets the
// response as a pass/fail/value outcome. Any transport or plugin-side
// error is reported as a failed predicate.
func (b *OperatorBuilder[T]) Build(config map[string]interface{}) (fex.Predicate[T], error) {
	return func(ctx T, slot *fex.ValueSlot) bool {
		inputJSON, err := json.Marshal(ctx.PluginInput())
		if err != nil {
			return false
		}

		reqJSON, err := json.Marshal(plugin.EvalRequest{
			Operator: b.operator.Type,
			Config:   config,
			Input:    inputJSON,
		})
		if err != nil {
			return false
		}

		respJSON, err := b.plugin.Call(b.ctx, "eval", reqJSON)
		if err != nil {
			return false
		}

		var resp plugin.EvalResponse
		if err := json.Unmarshal(respJSON, &resp); err != nil || !resp.Success || !resp.Pass {
			return false
		}

		if len(resp.Value) == 0 {
			return true
		}
		var value any
		if err := json.Unmarshal(resp.Value, &value); err != nil {
			return true
		}
		return slot.Set(true, value)
	}, nil
}

func convertExamples(examples []plugin.Example) []registry.Example {
	out := make([]registry.Example, len(examples))
	for i, ex := range examples {
		out[i] = registry.Example{Name: ex.Name, Description: ex.Description, Config: ex.Config}
	}
	return out
}

