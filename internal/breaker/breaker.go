// Package breaker implements a circuit breaker as a small explicit state
// machine: a fixed-size ring buffer of recent call outcomes drives the
// Closed -> Open transition, a cooldown drives Open -> HalfOpen, and a single
// probe call decides between reopening and closing.
package breaker

import (
	"sync"
	"time"
)

// State is the circuit lifecycle state, exported as a string for /status.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultWindowSize       = 5
	defaultMinCalls         = 5
	defaultFailureThreshold = 1.0
	defaultOpenDelay        = 30 * time.Second
)

// circuitOpenError signals a call rejected without network I/O.
type circuitOpenError struct{}

func (circuitOpenError) Error() string { return "circuit breaker open" }

// IsOpen reports whether err indicates a breaker rejection.
func IsOpen(err error) bool {
	_, ok := err.(circuitOpenError)
	return ok
}

// Config encapsulates all tunables for Breaker construction.
type Config struct {
	// WindowSize is the number of recent outcomes kept.
	WindowSize int
	// MinCalls is the minimum number of observed calls before the failure
	// rate is evaluated.
	MinCalls int
	// FailureThreshold opens the circuit when the windowed failure rate
	// reaches it (1.0 = every call in the window failed).
	FailureThreshold float64
	// OpenDelay is how long the circuit stays open before a probe is allowed.
	OpenDelay time.Duration
	// Clock is injectable for tests. Defaults to time.Now.
	Clock func() time.Time
}

// Breaker guards the single outbound backend dependency. One instance is
// shared across all documents.
type Breaker struct {
	mu       sync.Mutex
	cfg      Config
	window   []bool // true = failure
	next     int
	observed int
	state    State
	openedAt time.Time
	probing  bool
}

// New constructs a Breaker, applying defaults for unset Config fields.
func New(cfg Config) *Breaker {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindowSize
	}
	if cfg.MinCalls <= 0 {
		cfg.MinCalls = defaultMinCalls
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenDelay <= 0 {
		cfg.OpenDelay = defaultOpenDelay
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Breaker{
		cfg:    cfg,
		window: make([]bool, cfg.WindowSize),
		state:  StateClosed,
	}
}

// Allow reports whether a call may proceed. While open it fails with a
// circuit-open error until the cooldown elapses; half-open admits exactly one
// probe at a time.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen {
		if b.cfg.Clock().Sub(b.openedAt) < b.cfg.OpenDelay {
			return circuitOpenError{}
		}
		b.state = StateHalfOpen
		b.probing = false
	}
	if b.state == StateHalfOpen {
		if b.probing {
			return circuitOpenError{}
		}
		b.probing = true
	}
	return nil
}

// RecordSuccess feeds a successful call outcome. A successful half-open probe
// closes the circuit and resets the window.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.close()
		return
	}
	b.push(false)
}

// RecordFailure feeds a failed call outcome. Callers must not record
// cancellations: a request the client abandoned says nothing about backend
// health.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateHalfOpen:
		b.open()
	case StateClosed:
		b.push(true)
		if b.observed >= b.cfg.MinCalls && b.failureRate() >= b.cfg.FailureThreshold {
			b.open()
		}
	}
}

// RecordCancellation notes that a call ended without a health signal. It only
// frees a half-open probe slot so a cancelled probe does not wedge the
// breaker; the outcome window is untouched.
func (b *Breaker) RecordCancellation() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen {
		b.probing = false
	}
}

// State returns the current circuit state, accounting for an elapsed cooldown.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.cfg.Clock().Sub(b.openedAt) >= b.cfg.OpenDelay {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) push(failure bool) {
	b.window[b.next] = failure
	b.next = (b.next + 1) % len(b.window)
	if b.observed < len(b.window) {
		b.observed++
	}
}

func (b *Breaker) failureRate() float64 {
	if b.observed == 0 {
		return 0
	}
	failures := 0
	for i := 0; i < b.observed; i++ {
		if b.window[i] {
			failures++
		}
	}
	return float64(failures) / float64(b.observed)
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.openedAt = b.cfg.Clock()
	b.probing = false
	b.reset()
}

func (b *Breaker) close() {
	b.state = StateClosed
	b.probing = false
	b.reset()
}

func (b *Breaker) reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.next = 0
	b.observed = 0
}
