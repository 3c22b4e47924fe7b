package fallback

import (
	"sync"
	"time"

	"github.com/flowexpr/fex"
)

// CircuitState is one of the three states a CircuitBreaker cycles
// through.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitOption configures a CircuitBreaker.
type CircuitOption func(*circuitConfig)

type circuitConfig struct {
	maxFailures      int
	resetTimeout     time.Duration
	halfOpenRequests int
	onStateChange    func(from, to CircuitState)
}

// WithMaxFailures sets the consecutive-failure threshold that opens the
// circuit. Default 5.
func WithMaxFailures(n int) CircuitOption {
	return func(c *circuitConfig) { c.maxFailures = n }
}

// WithResetTimeout sets how long the circuit stays open before allowing a
// half-open trial. Default 30s.
func WithResetTimeout(d time.Duration) CircuitOption {
	return func(c *circuitConfig) { c.resetTimeout = d }
}

// WithHalfOpenRequests sets how many trial evaluations the half-open
// state allows before deciding to close or reopen. Default 3.
func WithHalfOpenRequests(n int) CircuitOption {
	return func(c *circuitConfig) { c.halfOpenRequests = n }
}

// WithStateChangeCallback registers fn to be notified of every state
// transition.
func WithStateChangeCallback(fn func(from, to CircuitState)) CircuitOption {
	return func(c *circuitConfig) { c.onStateChange = fn }
}

// CircuitBreaker wraps a fex.Predicate so that once it fails
// maxFailures times in a row, further evaluations short-circuit to a
// plain "fail" (without calling the underlying predicate) until
// resetTimeout elapses — the guard a script- or wasm-backed predicate
// needs against being hammered by an enclosing Repeat while the
// interpreter or module it calls into is down.
type CircuitBreaker[T any] struct {
	name string
	cfg  circuitConfig

	mu                sync.Mutex
	state             CircuitState
	failures          int
	lastFailureTime   time.Time
	halfOpenSuccesses int
	halfOpenFailures  int

	totalRequests  int64
	totalSuccesses int64
	totalFailures  int64
	circuitOpens   int64
}

// NewCircuitBreaker creates a closed circuit breaker named name.
func NewCircuitBreaker[T any](name string, opts ...CircuitOption) *CircuitBreaker[T] {
	cb := &CircuitBreaker[T]{
		name: name,
		cfg: circuitConfig{
			maxFailures:      5,
			resetTimeout:     30 * time.Second,
			halfOpenRequests: 3,
		},
		state: StateClosed,
	}
	for _, opt := range opts {
		opt(&cb.cfg)
	}
	return cb
}

// Guard wraps pred: calls through to pred while the circuit is closed or
// half-open, and short-circuits to false without calling pred while open.
func (cb *CircuitBreaker[T]) Guard(pred fex.Predicate[T]) fex.Predicate[T] {
	return func(ctx T, slot *fex.ValueSlot) bool {
		if !cb.canExecute() {
			return false
		}
		result := pred(ctx, slot)
		cb.recordResult(result)
		return result
	}
}

func (cb *CircuitBreaker[T]) canExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.totalRequests++

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.lastFailureTime) > cb.cfg.resetTimeout {
			cb.transitionTo(StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		return cb.halfOpenSuccesses+cb.halfOpenFailures < cb.cfg.halfOpenRequests
	default:
		return false
	}
}

func (cb *CircuitBreaker[T]) recordResult(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if success {
		cb.totalSuccesses++
		cb.onSuccess()
	} else {
		cb.totalFailures++
		cb.onFailure()
	}
}

func (cb *CircuitBreaker[T]) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.halfOpenSuccesses++
		if cb.halfOpenSuccesses >= cb.cfg.halfOpenRequests {
			cb.transitionTo(StateClosed)
		}
	}
}

func (cb *CircuitBreaker[T]) onFailure() {
	cb.lastFailureTime = time.Now()
	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.maxFailures {
			cb.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		cb.halfOpenFailures++
		cb.transitionTo(StateOpen)
	}
}

// transitionTo must be called with cb.mu held.
func (cb *CircuitBreaker[T]) transitionTo(next CircuitState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next

	switch next {
	case StateClosed:
		cb.failures = 0
		cb.halfOpenSuccesses = 0
		cb.halfOpenFailures = 0
	case StateOpen:
		cb.circuitOpens++
		cb.lastFailureTime = time.Now()
	case StateHalfOpen:
		cb.halfOpenSuccesses = 0
		cb.halfOpenFailures = 0
	}

	if cb.cfg.onStateChange != nil {
		go cb.cfg.onStateChange(prev, next)
	}
}

// State reports the circuit's current state.
func (cb *CircuitBreaker[T]) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// CircuitMetrics is a snapshot of a CircuitBreaker's counters.
type CircuitMetrics struct {
	Name            string
	State           string
	TotalRequests   int64
	TotalSuccesses  int64
	TotalFailures   int64
	CircuitOpens    int64
	CurrentFailures int
}

// Metrics returns a snapshot of cb's counters.
func (cb *CircuitBreaker[T]) Metrics() CircuitMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return CircuitMetrics{
		Name:            cb.name,
		State:           cb.state.String(),
		TotalRequests:   cb.totalRequests,
		TotalSuccesses:  cb.totalSuccesses,
		TotalFailures:   cb.totalFailures,
		CircuitOpens:    cb.circuitOpens,
		CurrentFailures: cb.failures,
	}
}
