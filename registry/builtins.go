package registry

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/store"
)

// ScratchSource is implemented by a context type that exposes a
// store.Scratch, the shared location a value-action stashes a captured
// structured value in for a later declarative step to pull a field out
// of — a literal config can't close over a Go variable the way a
// hand-written ActValue handler can, so the jsonpath builtin below reads
// its input back out of Scratch by key instead.
type ScratchSource interface {
	Scratch() store.Scratch
}

// jsonPathBuilder implements the "jsonpath" operator type: it reads a
// previously stored structured value (typically left behind by an
// ActValue callback decoding a literal) from ctx.Scratch() and narrows it
// with a JSONPath expression, reporting failure if the path resolves to
// nothing.
type jsonPathBuilder[T ScratchSource] struct{}

// JSONPath registers the "jsonpath" operator builder into r. T must
// expose a Scratch store (ScratchSource) for the builtin to read from.
func JSONPath[T ScratchSource](r *Registry[T]) {
	r.RegisterOperator(jsonPathBuilder[T]{})
}

func (jsonPathBuilder[T]) Metadata() Metadata {
	return Metadata{
		Type:        "jsonpath",
		Category:    "data",
		Description: "Extracts a field from a structured value previously captured into Scratch, via a JSONPath expression.",
		ConfigSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"source_key", "path"},
			"properties": map[string]interface{}{
				"source_key": map[string]interface{}{
					"type":        "string",
					"description": "Scratch key the structured value was stored under.",
				},
				"path": map[string]interface{}{
					"type":        "string",
					"description": "JSONPath expression, e.g. \"$.items[0].name\".",
				},
			},
		},
		Examples: []Example{
			{
				Name:        "Pick a field",
				Description: "Extract the \"name\" field of a decoded object",
				Config:      map[string]interface{}{"source_key": "decoded", "path": "$.name"},
			},
		},
		Since: "1.0.0",
	}
}

func (jsonPathBuilder[T]) Build(config map[string]interface{}) (fex.Predicate[T], error) {
	sourceKey, _ := config["source_key"].(string)
	path, _ := config["path"].(string)

	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("registry: jsonpath: invalid path %q: %w", path, err)
	}

	return func(ctx T, slot *fex.ValueSlot) bool {
		value, ok := ctx.Scratch().Get(sourceKey)
		if !ok {
			return false
		}
		results := expr.Get(value)
		if len(results) == 0 {
			return false
		}
		return slot.Set(true, results[0])
	}, nil
}

// constBuilder implements the "const" operator type: it always reports
// the configured result, optionally carrying a fixed value — useful as a
// declarative stub or as the unconditional branch of a OneOf built from
// YAML.
type constBuilder[T any] struct{}

// Const registers the "const" operator builder into r. Unlike JSONPath,
// it has no requirements on T.
func Const[T any](r *Registry[T]) {
	r.RegisterOperator(constBuilder[T]{})
}

func (constBuilder[T]) Metadata() Metadata {
	return Metadata{
		Type:        "const",
		Category:    "core",
		Description: "Always reports a fixed pass/fail result, optionally carrying a fixed value.",
		ConfigSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"result"},
			"properties": map[string]interface{}{
				"result": map[string]interface{}{"type": "boolean"},
				"value":  map[string]interface{}{},
			},
		},
		Since: "1.0.0",
	}
}

func (constBuilder[T]) Build(config map[string]interface{}) (fex.Predicate[T], error) {
	result, _ := config["result"].(bool)
	value := config["value"]

	return func(_ T, slot *fex.ValueSlot) bool {
		if result && value != nil {
			slot.Set(true, value)
		}
		return result
	}, nil
}
