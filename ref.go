package fex

import "strings"

// refCell is a shared, mutable binding slot. Nodes reference each other
// through a *refCell rather than directly, which is what makes forward
// references — and the cycles recursive grammars need (expr ↔ factor ↔
// primary ↔ expr) — safe to build before every production is defined.
type refCell[T any] struct {
	node Node[T]
}

// ReferenceRegistry maps a lowercased production name to a shared
// refCell. It is owned by a single Factory; two factories never share a
// registry.
type ReferenceRegistry[T any] struct {
	cells map[string]*refCell[T]
}

func newReferenceRegistry[T any]() *ReferenceRegistry[T] {
	return &ReferenceRegistry[T]{cells: make(map[string]*refCell[T])}
}

func (r *ReferenceRegistry[T]) cell(name string) *refCell[T] {
	key := strings.ToLower(name)
	c, ok := r.cells[key]
	if !ok {
		c = &refCell[T]{}
		r.cells[key] = c
	}
	return c
}

// Record binds name (case-insensitively) to node, the production currently
// being built. A second call with the same name silently overwrites the
// earlier binding — this mirrors the source behavior and is preserved
// deliberately, but it means redefining a production name is never
// reported as an error. Any NamedRef already placed in the tree observes
// whatever the cell is bound to at execution time, not at link time.
func (r *ReferenceRegistry[T]) Record(name string, node Node[T]) {
	r.cell(name).node = node
}

// Link returns a Node that indirects through name's cell, creating the
// cell if it has not been Recorded yet. Linking before recording is safe;
// running the reference while its name is still unrecorded makes it fail
// (run reports false, lookahead reports failFirst).
func (r *ReferenceRegistry[T]) Link(name string) Node[T] {
	return &namedRefNode[T]{cell: r.cell(name), name: name}
}

// namedRefNode indirects through a shared refCell, resolved at execution
// time rather than at build time.
type namedRefNode[T any] struct {
	cell *refCell[T]
	name string
}

func (n *namedRefNode[T]) run(ctx T) bool {
	if n.cell.node == nil {
		return false
	}
	return n.cell.node.run(ctx)
}

func (n *namedRefNode[T]) checkRun(ctx T) runResult {
	if n.cell.node == nil {
		return failFirst
	}
	return n.cell.node.checkRun(ctx)
}

func (n *namedRefNode[T]) optional() bool {
	if n.cell.node == nil {
		return false
	}
	return n.cell.node.optional()
}

// selfRefNode indirects through a container pointer captured at build
// time rather than through a registry lookup. It backs Builder.OptSelf,
// which lets a production recurse into itself without needing a name.
type selfRefNode[T any] struct {
	target Node[T]
}

func (n *selfRefNode[T]) run(ctx T) bool            { return n.target.run(ctx) }
func (n *selfRefNode[T]) checkRun(ctx T) runResult  { return n.target.checkRun(ctx) }
func (n *selfRefNode[T]) optional() bool            { return n.target.optional() }
