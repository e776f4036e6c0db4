package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit is open and calls are
// rejected without reaching the upstream.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	// StateClosed - normal operation, calls pass through
	StateClosed State = iota

	// StateOpen - calls fail immediately
	StateOpen

	// StateHalfOpen - probing whether the upstream recovered
	StateHalfOpen
)

func (s State) String() string {
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

// Guards calls to the AI upstream: after MaxFailures consecutive
// failures the circuit opens for Timeout, then a single probing call
// decides whether it closes again.
type CircuitBreaker struct {
	mu              sync.RWMutex
	state           State
	failureCount    int
	lastFailureTime time.Time

	maxFailures int
	timeout     time.Duration
}

type Config struct {
	MaxFailures int           // Default: 5
	Timeout     time.Duration // Default: 30 seconds
}

func New(cfg Config) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &CircuitBreaker{
		state:       StateClosed,
		maxFailures: cfg.MaxFailures,
		timeout:     cfg.Timeout,
	}
}

// Executes fn with circuit breaker protection
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()

	if cb.state == StateOpen {
		if time.Since(cb.lastFailureTime) > cb.timeout {
			cb.state = StateHalfOpen
		} else {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
	}

	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failureCount++
		cb.lastFailureTime = time.Now()

		// Any failure while half-open reopens the circuit.
		if cb.state == StateHalfOpen || cb.failureCount >= cb.maxFailures {
			cb.state = StateOpen
		}

		return err
	}

	cb.state = StateClosed
	cb.failureCount = 0
	return nil
}

// Returns the current state
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}
