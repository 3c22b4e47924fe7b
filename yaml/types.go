// Package yaml loads flow-expression axioms from a declarative YAML
// document, resolving named operators and actions against a
// registry.Registry so a grammar can be authored without writing Go.
package yaml

import "fmt"

// NodeSpec describes one node of a flow-expression tree. Composite
// kinds ("seq", "opt", "oneof", "optoneof", "notoneof", "rep") nest
// further NodeSpecs in Children; leaf kinds ("op", "assert", "act",
// "defaultact", "repact", "fail", "ref", "self") terminate a branch.
//
// A Name on a composite node registers it (via Builder.RefName) so a
// "ref" node elsewhere in the document can forward-reference it. For
// "rep" the name binds the repeated body (one repetition) and for
// "optoneof" the inner OneOf, not the wrapping node. A Name
// on a leaf node implicitly wraps that single node in a named Sequence,
// since fex only allows naming the container currently being built —
// see DESIGN.md.
type NodeSpec struct {
	Type      string                 `yaml:"type"`
	Name      string                 `yaml:"name,omitempty"`
	Ref       string                 `yaml:"ref,omitempty"`
	Operator  string                 `yaml:"operator,omitempty"`
	Action    string                 `yaml:"action,omitempty"`
	Config    map[string]interface{} `yaml:"config,omitempty"`
	Children  []NodeSpec             `yaml:"children,omitempty"`
	Min       int                    `yaml:"min,omitempty"`
	Max       int                    `yaml:"max,omitempty"`
	Unbounded bool                   `yaml:"unbounded,omitempty"`
	OnFail    *NodeSpec              `yaml:"on_fail,omitempty"`
}

// Definition is a complete named flow-expression document.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	Root        NodeSpec `yaml:"root"`
}

var leafTypes = map[string]bool{
	"op": true, "assert": true, "act": true, "defaultact": true,
	"validact": true, "repact": true, "fail": true, "ref": true, "self": true,
}

var compositeTypes = map[string]bool{
	"seq": true, "opt": true, "oneof": true, "optoneof": true,
	"notoneof": true, "rep": true,
}

func isLeafType(t string) bool { return leafTypes[t] }

// Validate checks the document for structural errors a Loader cannot
// recover from at build time (unknown node types, missing operator/
// action names) without needing a Registry.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("yaml: name is required")
	}
	return d.Root.validate("root")
}

func (s *NodeSpec) validate(path string) error {
	switch {
	case compositeTypes[s.Type]:
		for i := range s.Children {
			if err := s.Children[i].validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
				return err
			}
		}
	case s.Type == "op" || s.Type == "assert":
		if s.Operator == "" {
			return fmt.Errorf("yaml: %s: %q requires \"operator\"", path, s.Type)
		}
	case s.Type == "act" || s.Type == "defaultact" || s.Type == "validact" || s.Type == "repact":
		if s.Action == "" {
			return fmt.Errorf("yaml: %s: %q requires \"action\"", path, s.Type)
		}
	case s.Type == "ref":
		if s.Ref == "" {
			return fmt.Errorf("yaml: %s: \"ref\" requires \"ref\" target name", path)
		}
	case s.Type == "fail" || s.Type == "self":
		// no required fields
	default:
		return fmt.Errorf("yaml: %s: unknown node type %q", path, s.Type)
	}
	if s.OnFail != nil {
		if s.OnFail.Action == "" {
			return fmt.Errorf("yaml: %s.on_fail: requires \"action\"", path)
		}
	}
	return nil
}
