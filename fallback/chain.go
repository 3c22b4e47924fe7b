// Package fallback guards a fex Predicate that can genuinely fail for
// reasons unrelated to the grammar — a Lua script or wasm plugin call
// erroring out, timing out, or misbehaving — from being retried
// without bound inside a Repeat, and from taking down a parse entirely
// when an alternate predicate could serve in its place.
package fallback

import (
	"sync"
	"time"

	"github.com/flowexpr/fex"
)

// Link is one candidate predicate in a Chain, tried in order.
type Link[T any] struct {
	Name      string
	Predicate fex.Predicate[T]
	// Condition, if set, skips this link unless it returns true.
	Condition func(ctx T) bool
}

// Chain tries each of its links in order and reports the first one that
// passes, falling back through the remainder on failure. It runs links
// sequentially rather than concurrently: running several links at once
// against the same ctx would race on whatever state the predicate
// mutates, and fex axioms are documented as single-instance-at-a-time
// (see batch's reentrancy note).
type Chain[T any] struct {
	name  string
	links []Link[T]

	mu      sync.Mutex
	metrics map[string]*linkMetrics
}

type linkMetrics struct {
	executions int64
	successes  int64
	failures   int64
	totalTime  time.Duration
}

// NewChain creates an empty, named fallback chain.
func NewChain[T any](name string) *Chain[T] {
	return &Chain[T]{name: name, metrics: make(map[string]*linkMetrics)}
}

// AddLink appends link to the chain.
func (c *Chain[T]) AddLink(link Link[T]) *Chain[T] {
	c.links = append(c.links, link)
	return c
}

// Predicate returns a fex.Predicate that runs the chain: this is what
// gets passed to Builder.Op, so a Chain composes transparently into a
// grammar exactly where a single predicate would.
func (c *Chain[T]) Predicate() fex.Predicate[T] {
	return func(ctx T, slot *fex.ValueSlot) bool {
		for _, link := range c.links {
			if link.Condition != nil && !link.Condition(ctx) {
				continue
			}

			start := time.Now()
			result := link.Predicate(ctx, slot)
			elapsed := time.Since(start)

			c.record(link.Name, result, elapsed)
			if result {
				return true
			}
		}
		return false
	}
}

func (c *Chain[T]) record(name string, success bool, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.metrics[name]
	if !ok {
		m = &linkMetrics{}
		c.metrics[name] = m
	}
	m.executions++
	m.totalTime += elapsed
	if success {
		m.successes++
	} else {
		m.failures++
	}
}

// LinkStats reports executions/successes/failures/average-latency for
// one named link.
type LinkStats struct {
	Executions int64
	Successes  int64
	Failures   int64
	AvgLatency time.Duration
}

// Stats returns a snapshot of every link's accumulated metrics.
func (c *Chain[T]) Stats() map[string]LinkStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]LinkStats, len(c.metrics))
	for name, m := range c.metrics {
		s := LinkStats{Executions: m.executions, Successes: m.successes, Failures: m.failures}
		if m.executions > 0 {
			s.AvgLatency = m.totalTime / time.Duration(m.executions)
		}
		out[name] = s
	}
	return out
}
