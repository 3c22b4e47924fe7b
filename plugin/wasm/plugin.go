// Package wasm loads WebAssembly plugins via wazero and exposes their
// exported operators through registry.Registry.
package wasm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	goyaml "github.com/goccy/go-yaml"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/flowexpr/fex/plugin"
)

// wasmPlugin implements plugin.Plugin over a wazero module instance.
type wasmPlugin struct {
	metadata plugin.Metadata
	runtime  wazero.Runtime
	module   api.Module
	callFunc api.Function

	mu sync.Mutex
}

// NewPlugin compiles and instantiates a WASM module from wasmBytes under
// the permissions declared in metadata.
func NewPlugin(ctx context.Context, wasmBytes []byte, metadata plugin.Metadata) (plugin.Plugin, error) {
	runtimeConfig := wazero.NewRuntimeConfig()

	if metadata.Permissions.Memory != "" {
		limit, err := parseMemoryLimit(metadata.Permissions.Memory)
		if err != nil {
			return nil, fmt.Errorf("wasm: invalid memory limit: %w", err)
		}
		runtimeConfig = runtimeConfig.WithMemoryLimitPages(uint32(limit / 65536))
	}

	r := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasm: compile module: %w", err)
	}

	moduleConfig := wazero.NewModuleConfig().
		WithName(metadata.Name).
		WithStartFunctions()

	for _, envVar := range metadata.Permissions.Env {
		if value := os.Getenv(envVar); value != "" {
			moduleConfig = moduleConfig.WithEnv(envVar, value)
		}
	}

	for _, path := range metadata.Permissions.Filesystem {
		if stat, err := os.Stat(path); err == nil && stat.IsDir() {
			moduleConfig = moduleConfig.WithFS(os.DirFS(path))
			break // wazero only supports one FS mount at a time
		}
	}

	module, err := r.InstantiateModule(ctx, compiled, moduleConfig)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasm: instantiate module: %w", err)
	}

	callFunc := module.ExportedFunction("__fex_call")
	if callFunc == nil {
		_ = module.Close(ctx)
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasm: plugin does not export __fex_call")
	}
	if module.ExportedMemory("memory") == nil {
		_ = module.Close(ctx)
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasm: plugin does not export memory")
	}
	if module.ExportedFunction("__fex_alloc") == nil {
		_ = module.Close(ctx)
		_ = r.Close(ctx)
		return nil, fmt.Errorf("wasm: plugin does not export __fex_alloc")
	}

	return &wasmPlugin{
		metadata: metadata,
		runtime:  r,
		module:   module,
		callFunc: callFunc,
	}, nil
}

// Metadata returns the plugin's metadata.
func (p *wasmPlugin) Metadata() plugin.Metadata {
	return p.metadata
}

// Call invokes the module's __fex_call export, passing input through the
// plugin's linear memory via its __fex_alloc/__fex_free exports. function
// is not looked up in the module; it only labels returned errors.
func (p *wasmPlugin) Call(ctx context.Context, function string, input []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.metadata.Permissions.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.metadata.Permissions.Timeout)
		defer cancel()
	}

	memory := p.module.ExportedMemory("memory")
	allocFunc := p.module.ExportedFunction("__fex_alloc")
	freeFunc := p.module.ExportedFunction("__fex_free")

	inputLen := uint32(len(input))
	results, err := allocFunc.Call(ctx, uint64(inputLen))
	if err != nil {
		return nil, fmt.Errorf("wasm: allocate input: %w", err)
	}
	inputPtr := uint32(results[0])

	if !memory.Write(inputPtr, input) {
		return nil, fmt.Errorf("wasm: write input to memory")
	}

	results, err = p.callFunc.Call(ctx, uint64(inputPtr), uint64(inputLen))
	if err != nil {
		return nil, fmt.Errorf("wasm: call %s: %w", function, err)
	}
	if freeFunc != nil {
		_, _ = freeFunc.Call(ctx, uint64(inputPtr), uint64(inputLen))
	}

	resultPtr, resultLen := uint32(results[0]), uint32(results[1])
	if resultLen == 0 {
		return nil, nil
	}

	output, ok := memory.Read(resultPtr, resultLen)
	if !ok {
		return nil, fmt.Errorf("wasm: read output from memory")
	}
	result := make([]byte, len(output))
	copy(result, output)

	if freeFunc != nil {
		_, _ = freeFunc.Call(ctx, uint64(resultPtr), uint64(resultLen))
	}

	return result, nil
}

// Close releases the plugin's module and runtime.
func (p *wasmPlugin) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.module != nil {
		_ = p.module.Close(ctx)
	}
	if p.runtime != nil {
		return p.runtime.Close(ctx)
	}
	return nil
}

// LoadPlugin reads a manifest (manifest.yaml, falling back to
// manifest.json) next to path and loads the WASM binary it names.
func LoadPlugin(ctx context.Context, path string) (plugin.Plugin, error) {
	dir := filepath.Dir(path)

	manifestPath := filepath.Join(dir, "manifest.yaml")
	// #nosec G304 - caller-controlled plugin directory.
	manifestData, err := os.ReadFile(manifestPath)
	isJSON := false
	if err != nil {
		manifestPath = filepath.Join(dir, "manifest.json")
		manifestData, err = os.ReadFile(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("wasm: read manifest: %w", err)
		}
		isJSON = true
	}

	var metadata plugin.Metadata
	if isJSON {
		err = json.Unmarshal(manifestData, &metadata)
	} else {
		err = goyaml.Unmarshal(manifestData, &metadata)
	}
	if err != nil {
		return nil, fmt.Errorf("wasm: parse manifest: %w", err)
	}

	wasmPath := filepath.Join(dir, metadata.Binary)
	// #nosec G304 - path comes from a manifest the caller chose to load.
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, fmt.Errorf("wasm: read binary: %w", err)
	}

	return NewPlugin(ctx, wasmBytes, metadata)
}

// parseMemoryLimit parses a limit string like "100MB" or "1GB".
func parseMemoryLimit(limit string) (uint64, error) {
	var value uint64
	var unit string
	if _, err := fmt.Sscanf(limit, "%d%s", &value, &unit); err != nil {
		return 0, err
	}
	switch unit {
	case "KB":
		return value * 1024, nil
	case "MB":
		return value * 1024 * 1024, nil
	case "GB":
		return value * 1024 * 1024 * 1024, nil
	default:
		return 0, fmt.Errorf("wasm: unsupported memory unit %q", unit)
	}
}
