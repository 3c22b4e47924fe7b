package main

import "github.com/flowexpr/fex/store"

// textContext is the context every CLI-run axiom drives: a text cursor
// over the input string, with an attached scratch store so declarative
// documents can capture and later narrow structured values (see
// registry.JSONPath). It implements registry.ScratchSource,
// script.Input, and wasm.Input, so builtin, scripted, and plugin
// operators all resolve against the same type.
type textContext struct {
	src     string
	pos     int
	scratch store.Scratch
}

func newTextContext(src string) *textContext {
	return &textContext{src: src, scratch: store.NewScratch()}
}

// Peek reports the byte at the cursor, or false at end of input.
func (c *textContext) Peek() (byte, bool) {
	if c.pos >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos], true
}

// Advance moves the cursor forward one byte.
func (c *textContext) Advance() { c.pos++ }

// Remaining returns the unconsumed suffix of the input.
func (c *textContext) Remaining() string { return c.src[c.pos:] }

// AtEnd reports whether the cursor has consumed the whole input.
func (c *textContext) AtEnd() bool { return c.pos >= len(c.src) }

func (c *textContext) Scratch() store.Scratch { return c.scratch }

// ScriptInput hands a Lua script the unconsumed input as its exec(input)
// argument.
func (c *textContext) ScriptInput() any { return c.Remaining() }

// PluginInput hands a WASM plugin the unconsumed input as its eval
// input.
func (c *textContext) PluginInput() any { return c.Remaining() }
