package script

import (
	"fmt"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/registry"
)

// operatorBuilder implements registry.OperatorBuilder by looking a named
// script up in a Manager and running it as a predicate.
type operatorBuilder[T Input] struct {
	manager *Manager
}

// Operator registers the "script" operator type into r, resolving a
// config's "script" name against m.
func Operator[T Input](r *registry.Registry[T], m *Manager) {
	r.RegisterOperator(operatorBuilder[T]{manager: m})
}

func (operatorBuilder[T]) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "script",
		Category:    "scripting",
		Description: "Runs a named Lua script's exec(input) function as a predicate.",
		ConfigSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"script"},
			"properties": map[string]interface{}{
				"script": map[string]interface{}{
					"type":        "string",
					"description": "Name of a script discovered or registered with the Manager.",
				},
			},
		},
		Since: "1.0.0",
	}
}

func (b operatorBuilder[T]) Build(config map[string]interface{}) (fex.Predicate[T], error) {
	name, _ := config["script"].(string)
	s, ok := b.manager.GetScript(name)
	if !ok {
		return nil, fmt.Errorf("script: unknown script %q", name)
	}
	content := s.Content
	return func(ctx T, slot *fex.ValueSlot) bool {
		return ExecutePredicate(content, ctx, slot)
	}, nil
}

// actionBuilder implements registry.ActionBuilder the same way, for
// fire-and-forget scripted side effects.
type actionBuilder[T Input] struct {
	manager *Manager
}

// Action registers the "script" action type into r.
func Action[T Input](r *registry.Registry[T], m *Manager) {
	r.RegisterAction(actionBuilder[T]{manager: m})
}

func (actionBuilder[T]) Metadata() registry.Metadata {
	return registry.Metadata{
		Type:        "script",
		Category:    "scripting",
		Description: "Runs a named Lua script's exec(input) function for its side effects.",
		ConfigSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"script"},
			"properties": map[string]interface{}{
				"script": map[string]interface{}{"type": "string"},
			},
		},
		Since: "1.0.0",
	}
}

func (b actionBuilder[T]) Build(config map[string]interface{}) (func(ctx T), error) {
	name, _ := config["script"].(string)
	s, ok := b.manager.GetScript(name)
	if !ok {
		return nil, fmt.Errorf("script: unknown script %q", name)
	}
	content := s.Content
	return func(ctx T) {
		_ = ExecuteAction(content, ctx)
	}, nil
}
