package yaml

import (
	"fmt"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/registry"
)

// Loader builds a fex.Node[T] axiom from a Definition, resolving every
// "operator"/"action" name in the document against a registry.Registry[T].
type Loader[T any] struct {
	registry *registry.Registry[T]
	tracer   fex.Tracer[T]
}

// NewLoader creates a Loader resolving operator/action names against r.
func NewLoader[T any](r *registry.Registry[T]) *Loader[T] {
	return &Loader[T]{registry: r}
}

// WithTracer attaches a tracer to every Factory the loader builds with.
// Each "op" node reports its operator name and pass/fail result to it.
func (l *Loader[T]) WithTracer(tracer fex.Tracer[T]) *Loader[T] {
	l.tracer = tracer
	return l
}

// LoadString parses and builds a document in one step.
func (l *Loader[T]) LoadString(s string) (fex.Node[T], error) {
	def, err := ParseString(s)
	if err != nil {
		return nil, err
	}
	return l.LoadDefinition(def)
}

// LoadFile parses and builds a document read from filename.
func (l *Loader[T]) LoadFile(filename string) (fex.Node[T], error) {
	def, err := ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return l.LoadDefinition(def)
}

// LoadDefinition builds a parsed Definition into an axiom.
func (l *Loader[T]) LoadDefinition(def *Definition) (fex.Node[T], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	factory := fex.NewFactory[T](l.tracer)
	var buildErr error
	axiom := factory.Seq(func(b *fex.Builder[T]) {
		buildErr = l.appendSpec(b, &def.Root)
	})
	if buildErr != nil {
		return nil, fmt.Errorf("yaml: building %q: %w", def.Name, buildErr)
	}
	return axiom, nil
}

func (l *Loader[T]) appendSpec(b *fex.Builder[T], spec *NodeSpec) error {
	if spec.Name != "" && isLeafType(spec.Type) {
		inner := *spec
		inner.Name = ""
		var buildErr error
		b.Seq(func(bb *fex.Builder[T]) {
			bb.RefName(spec.Name)
			buildErr = l.appendSpec(bb, &inner)
		})
		return buildErr
	}

	switch spec.Type {
	case "seq", "opt", "oneof", "optoneof", "notoneof", "rep":
		return l.appendComposite(b, spec)
	case "op":
		return l.appendOp(b, spec)
	case "assert":
		return l.appendAssert(b, spec)
	case "act":
		return l.appendAct(b, spec, false)
	case "defaultact", "validact":
		return l.appendAct(b, spec, true)
	case "repact":
		return l.appendRepAct(b, spec)
	case "fail":
		return l.appendFail(b, spec)
	case "ref":
		b.Ref(spec.Ref)
		return nil
	case "self":
		b.OptSelf()
		return nil
	default:
		return fmt.Errorf("unknown node type %q", spec.Type)
	}
}

func (l *Loader[T]) appendComposite(b *fex.Builder[T], spec *NodeSpec) error {
	var buildErr error
	build := func(bb *fex.Builder[T]) {
		if spec.Name != "" {
			bb.RefName(spec.Name)
		}
		for i := range spec.Children {
			if err := l.appendSpec(bb, &spec.Children[i]); err != nil && buildErr == nil {
				buildErr = err
			}
		}
	}

	switch spec.Type {
	case "seq":
		b.Seq(build)
	case "opt":
		b.Opt(build)
	case "oneof":
		b.OneOf(build)
	case "optoneof":
		b.OptOneOf(build)
	case "notoneof":
		b.NotOneOf(build)
	case "rep":
		max := spec.Max
		if spec.Unbounded {
			max = -1
		}
		b.Rep(spec.Min, max, build)
	}
	if buildErr != nil {
		return buildErr
	}

	if spec.OnFail != nil {
		fn, err := l.registry.Action(spec.OnFail.Action, spec.OnFail.Config)
		if err != nil {
			return err
		}
		b.OnFail(fn)
	}
	return nil
}

func (l *Loader[T]) appendOp(b *fex.Builder[T], spec *NodeSpec) error {
	pred, err := l.registry.Operator(spec.Operator, spec.Config)
	if err != nil {
		return fmt.Errorf("operator %q: %w", spec.Operator, err)
	}
	b.Op(pred)
	name := spec.Operator
	b.TraceOp(func(T) string { return name }, 0)
	if spec.OnFail != nil {
		fn, err := l.registry.Action(spec.OnFail.Action, spec.OnFail.Config)
		if err != nil {
			return err
		}
		b.OnFail(fn)
	}
	return nil
}

func (l *Loader[T]) appendAssert(b *fex.Builder[T], spec *NodeSpec) error {
	pred, err := l.registry.Operator(spec.Operator, spec.Config)
	if err != nil {
		return fmt.Errorf("assert operator %q: %w", spec.Operator, err)
	}
	var failFn func(ctx T)
	if spec.OnFail != nil {
		failFn, err = l.registry.Action(spec.OnFail.Action, spec.OnFail.Config)
		if err != nil {
			return err
		}
	}
	b.Assert(pred, failFn)
	return nil
}

func (l *Loader[T]) appendAct(b *fex.Builder[T], spec *NodeSpec, committing bool) error {
	fn, err := l.registry.Action(spec.Action, spec.Config)
	if err != nil {
		return fmt.Errorf("action %q: %w", spec.Action, err)
	}
	if committing {
		b.DefaultAct(fn)
	} else {
		b.Act(fn)
	}
	return nil
}

func (l *Loader[T]) appendRepAct(b *fex.Builder[T], spec *NodeSpec) error {
	fn, err := l.registry.Action(spec.Action, spec.Config)
	if err != nil {
		return fmt.Errorf("action %q: %w", spec.Action, err)
	}
	b.RepAct(spec.Min, func(ctx T, _ int) { fn(ctx) })
	return nil
}

func (l *Loader[T]) appendFail(b *fex.Builder[T], spec *NodeSpec) error {
	fn := func(ctx T) {}
	if spec.Action != "" {
		var err error
		fn, err = l.registry.Action(spec.Action, spec.Config)
		if err != nil {
			return fmt.Errorf("action %q: %w", spec.Action, err)
		}
	}
	b.Fail(fn)
	return nil
}
