// Package script discovers and runs Lua-scripted operators and actions,
// letting a flow expression call out to a small sandboxed script instead
// of a compiled Go predicate for one step of the tree.
package script

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/Shopify/go-lua"
)

// Manager discovers Lua scripts under a directory and validates them.
type Manager struct {
	scriptsDir string
	scripts    map[string]*Script
	verbose    bool
}

// Script is one discovered Lua source file.
type Script struct {
	Name        string
	Path        string
	Category    string
	Description string
	Version     string
	Content     string
}

// NewManager creates a Manager rooted at scriptsDir. An empty scriptsDir
// defaults to ~/.fex/scripts.
func NewManager(scriptsDir string, verbose bool) *Manager {
	if scriptsDir == "" {
		home, _ := os.UserHomeDir()
		scriptsDir = filepath.Join(home, ".fex", "scripts")
	}
	return &Manager{
		scriptsDir: scriptsDir,
		scripts:    make(map[string]*Script),
		verbose:    verbose,
	}
}

// Discover walks scriptsDir and loads every *.lua file it finds.
func (m *Manager) Discover() error {
	if err := os.MkdirAll(m.scriptsDir, 0o750); err != nil {
		return fmt.Errorf("script: create scripts directory: %w", err)
	}

	return filepath.WalkDir(m.scriptsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".lua") {
			return nil
		}

		s, err := m.LoadScript(path)
		if err != nil {
			if m.verbose {
				fmt.Printf("script: skipping %s: %v\n", path, err)
			}
			return nil
		}
		m.scripts[s.Name] = s
		return nil
	})
}

// LoadScript reads path and extracts its leading "-- @key: value" header
// comments as metadata.
func (m *Manager) LoadScript(path string) (*Script, error) {
	// #nosec G304 - path comes from a directory walk the caller configured.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s := &Script{Path: path, Content: string(content)}
	for _, line := range strings.Split(s.Content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			break
		}
		switch {
		case strings.HasPrefix(line, "-- @name:"):
			s.Name = strings.TrimSpace(strings.TrimPrefix(line, "-- @name:"))
		case strings.HasPrefix(line, "-- @category:"):
			s.Category = strings.TrimSpace(strings.TrimPrefix(line, "-- @category:"))
		case strings.HasPrefix(line, "-- @description:"):
			s.Description = strings.TrimSpace(strings.TrimPrefix(line, "-- @description:"))
		case strings.HasPrefix(line, "-- @version:"):
			s.Version = strings.TrimSpace(strings.TrimPrefix(line, "-- @version:"))
		}
	}

	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if s.Category == "" {
		s.Category = "script"
	}
	return s, nil
}

// GetScript returns a previously discovered or registered script by name.
func (m *Manager) GetScript(name string) (*Script, bool) {
	s, ok := m.scripts[name]
	return s, ok
}

// Register adds a script directly, bypassing filesystem discovery —
// useful for embedding a script as a Go string literal.
func (m *Manager) Register(s *Script) {
	m.scripts[s.Name] = s
}

// ListScripts returns every discovered or registered script.
func (m *Manager) ListScripts() []*Script {
	out := make([]*Script, 0, len(m.scripts))
	for _, s := range m.scripts {
		out = append(out, s)
	}
	return out
}

// ValidateScript loads and executes path once, checking it defines the
// required top-level "exec" function, without treating the result as a
// predicate outcome.
func (m *Manager) ValidateScript(path string) error {
	// #nosec G304 - path comes from a directory walk the caller configured.
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: read: %w", err)
	}

	l := lua.NewState()
	if err := lua.LoadString(l, string(content)); err != nil {
		return fmt.Errorf("script: validation: %w", err)
	}
	l.Pop(1)

	if err := lua.DoString(l, string(content)); err != nil {
		return fmt.Errorf("script: execution: %w", err)
	}

	l.Global("exec")
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeFunction {
		return fmt.Errorf("script: required function 'exec' not found")
	}
	return nil
}
