package yaml

import (
	"fmt"
	"os"

	goyaml "github.com/goccy/go-yaml"
)

// ParseString parses a single flow Definition out of a YAML document.
func ParseString(s string) (*Definition, error) {
	var def Definition
	if err := goyaml.Unmarshal([]byte(s), &def); err != nil {
		return nil, fmt.Errorf("yaml: parse: %w", err)
	}
	return &def, nil
}

// ParseFile reads and parses a flow Definition from filename.
func ParseFile(filename string) (*Definition, error) {
	// #nosec G304 - callers pass a caller-controlled definition path.
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("yaml: open file: %w", err)
	}
	var def Definition
	if err := goyaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("yaml: parse %s: %w", filename, err)
	}
	return &def, nil
}

// Marshal renders a Definition back to YAML.
func Marshal(def *Definition) ([]byte, error) {
	data, err := goyaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("yaml: marshal: %w", err)
	}
	return data, nil
}

// Example shows what a minimal flow-expression document looks like: a
// production named "number" matching one-or-more digits, assuming a
// registry with a caller-supplied "digit" operator registered for its own
// context type; the registry package's own builtins (const, jsonpath) do
// not include one.
func Example() string {
	return `name: digits
description: Matches one or more decimal digits.
version: "1.0.0"
root:
  type: rep
  name: number
  min: 1
  unbounded: true
  children:
    - type: op
      operator: digit
`
}
