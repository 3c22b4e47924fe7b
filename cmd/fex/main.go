// Command fex builds and runs flow-expression axioms declared in YAML,
// inspects the registered operator/action catalog, and manages Lua
// scripts and WASM plugins, all run against a small built-in
// text-scanning context (see context.go).
package main

import (
	"fmt"
	"os"
)

// Version information set by ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
	goVersion = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
