// Package plugin provides the core interfaces and types for loading
// externally compiled operator implementations — currently WebAssembly
// modules run in-process (plugin/wasm) — into a fex registry.Registry.
package plugin

import (
	"context"
	"encoding/json"
	"time"
)

// Plugin is a loaded plugin instance.
type Plugin interface {
	// Metadata returns the plugin's metadata.
	Metadata() Metadata

	// Call invokes a function exported by the plugin.
	Call(ctx context.Context, function string, input []byte) ([]byte, error)

	// Close releases plugin resources.
	Close(ctx context.Context) error
}

// Metadata describes a plugin and the operators/actions it exports.
type Metadata struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
	Author      string `json:"author" yaml:"author"`
	License     string `json:"license,omitempty" yaml:"license,omitempty"`

	Runtime    string `json:"runtime" yaml:"runtime"` // "wasm"
	Binary     string `json:"binary" yaml:"binary"`
	EntryPoint string `json:"entryPoint,omitempty" yaml:"entryPoint,omitempty"`

	Operators []OperatorDefinition `json:"operators" yaml:"operators"`

	Permissions  Permissions  `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Requirements Requirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// OperatorDefinition describes one operator type a plugin exports.
type OperatorDefinition struct {
	Type         string                 `json:"type" yaml:"type"`
	Category     string                 `json:"category" yaml:"category"`
	Description  string                 `json:"description" yaml:"description"`
	ConfigSchema map[string]interface{} `json:"configSchema,omitempty" yaml:"configSchema,omitempty"`
	Examples     []Example              `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Example shows how to configure an operator.
type Example struct {
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// Permissions defines what the plugin is allowed to access.
type Permissions struct {
	Network    []string      `json:"network,omitempty" yaml:"network,omitempty"`
	Env        []string      `json:"env,omitempty" yaml:"env,omitempty"`
	Filesystem []string      `json:"filesystem,omitempty" yaml:"filesystem,omitempty"`
	Memory     string        `json:"memory,omitempty" yaml:"memory,omitempty"`
	CPU        string        `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Timeout    time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Requirements specifies plugin dependencies.
type Requirements struct {
	Fex    string `json:"fex,omitempty" yaml:"fex,omitempty"`
	Memory string `json:"memory,omitempty" yaml:"memory,omitempty"`
}

// EvalRequest is sent to a plugin's "eval" function: run the named
// operator's predicate over Input under Config, once, and report a
// pass/fail/value outcome — the plugin analogue of a fex.Predicate call.
type EvalRequest struct {
	Operator string                 `json:"operator"`
	Config   map[string]interface{} `json:"config,omitempty"`
	Input    json.RawMessage        `json:"input,omitempty"`
}

// EvalResponse is returned from a plugin's "eval" function.
type EvalResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Pass    bool            `json:"pass"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// Loader discovers and loads plugins.
type Loader interface {
	Discover(paths ...string) ([]Metadata, error)
	Load(ctx context.Context, path string) (Plugin, error)
	LoadFromMetadata(ctx context.Context, metadata Metadata) (Plugin, error)
}

// Registry manages loaded plugins.
type Registry interface {
	Register(plugin Plugin) error
	Get(name string) (Plugin, bool)
	List() []Plugin
	Close(ctx context.Context) error
}
