package registry

import (
	"fmt"

	"github.com/flowexpr/fex"
)

// OperatorBuilder produces a fex.Predicate from validated configuration.
type OperatorBuilder[T any] interface {
	Metadata() Metadata
	Build(config map[string]interface{}) (fex.Predicate[T], error)
}

// ActionBuilder produces a context callback from validated configuration.
type ActionBuilder[T any] interface {
	Metadata() Metadata
	Build(config map[string]interface{}) (func(ctx T), error)
}

// Registry is the catalog a declarative document resolves named
// operator/action references against, split into operator and action
// halves since fex distinguishes the two at the builder level
// (Builder.Op vs Builder.Act).
type Registry[T any] struct {
	operators map[string]OperatorBuilder[T]
	actions   map[string]ActionBuilder[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		operators: make(map[string]OperatorBuilder[T]),
		actions:   make(map[string]ActionBuilder[T]),
	}
}

// RegisterOperator adds an operator builder under its own Metadata.Type.
func (r *Registry[T]) RegisterOperator(b OperatorBuilder[T]) {
	r.operators[b.Metadata().Type] = b
}

// RegisterAction adds an action builder under its own Metadata.Type.
func (r *Registry[T]) RegisterAction(b ActionBuilder[T]) {
	r.actions[b.Metadata().Type] = b
}

// Operator validates config against the named operator's schema and
// builds it.
func (r *Registry[T]) Operator(name string, config map[string]interface{}) (fex.Predicate[T], error) {
	b, ok := r.operators[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown operator type %q", name)
	}
	if err := ValidateConfig(b.Metadata(), config); err != nil {
		return nil, err
	}
	return b.Build(config)
}

// Action validates config against the named action's schema and builds
// it.
func (r *Registry[T]) Action(name string, config map[string]interface{}) (func(ctx T), error) {
	b, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown action type %q", name)
	}
	if err := ValidateConfig(b.Metadata(), config); err != nil {
		return nil, err
	}
	return b.Build(config)
}

// OperatorTypes lists the metadata of every registered operator, for a
// `list-operators` CLI command or similar introspection.
func (r *Registry[T]) OperatorTypes() []Metadata {
	out := make([]Metadata, 0, len(r.operators))
	for _, b := range r.operators {
		out = append(out, b.Metadata())
	}
	return out
}

// ActionTypes lists the metadata of every registered action.
func (r *Registry[T]) ActionTypes() []Metadata {
	out := make([]Metadata, 0, len(r.actions))
	for _, b := range r.actions {
		out = append(out, b.Metadata())
	}
	return out
}
