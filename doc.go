// Package fex builds and runs "flow expressions": declaratively constructed,
// tree-shaped programs that drive a user-supplied context through a
// controlled flow of operations, decisions, repetitions, and side effects.
//
// The canonical use is recursive-descent parsing, where the context is a
// text scanner and the flow expression describes a grammar, but the engine
// itself has no opinion about what a context is. The same machinery can
// drive a menu loop, a REPL, or any other rule-based flow chart.
//
// A flow expression is assembled with a Factory and its fluent Builder,
// then executed against a context with Run. Node kinds — Sequence,
// Optional, OneOf, NotOneOf, Repeat, Operator, Assert, Action, RepAction,
// Fail, and named references — compose into a tree; Run drives the tree to
// completion or failure.
package fex
