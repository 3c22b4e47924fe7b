package fex

// NopTracer discards every trace message and result. It is useful as an
// explicit placeholder when a Factory needs a non-nil Tracer — for
// example, NewFactory starts with tracing enabled only when it is given a
// non-nil tracer.
type NopTracer[T any] struct{}

func (NopTracer[T]) Trace(_ T, _ int, _ string)               {}
func (NopTracer[T]) TraceResult(_ T, _ int, _ string, _ bool) {}
