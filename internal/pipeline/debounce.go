package pipeline

import (
	"sync"
	"time"
)

// debounceOutcome is how a scheduled trigger settled.
type debounceOutcome int

const (
	// debounceProceed: the delay elapsed uninterrupted.
	debounceProceed debounceOutcome = iota
	// debounceSuperseded: a newer trigger for the same document arrived first.
	debounceSuperseded
	// debounceAbandoned: the gate was torn down (document closed or shutdown).
	debounceAbandoned
)

// pendingDebounce is the single-slot "latest intent" register per document:
// one live timer plus the means to settle the waiter blocked on it. Settling
// is idempotent; whichever of timer fire, supersession or teardown comes
// first wins.
type pendingDebounce struct {
	timer *time.Timer
	once  sync.Once
	done  chan debounceOutcome
}

func (p *pendingDebounce) settle(o debounceOutcome) {
	p.once.Do(func() { p.done <- o })
}

// schedule installs a debounce entry for uri and blocks until it settles.
// Any previous entry for the same uri is settled as superseded first, so at
// most one waiter is live per document and under a burst of N triggers only
// the last ever proceeds.
func (c *Coordinator) schedule(uri string, delay time.Duration) debounceOutcome {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return debounceAbandoned
	}
	if prev, ok := c.debounce[uri]; ok {
		prev.timer.Stop()
		prev.settle(debounceSuperseded)
	}
	p := &pendingDebounce{done: make(chan debounceOutcome, 1)}
	p.timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.debounce[uri] == p {
			delete(c.debounce, uri)
		}
		c.mu.Unlock()
		p.settle(debounceProceed)
	})
	c.debounce[uri] = p
	c.mu.Unlock()
	return <-p.done
}

// abandonDebounceLocked settles and removes the pending entry for uri.
// Callers hold c.mu.
func (c *Coordinator) abandonDebounceLocked(uri string) {
	if p, ok := c.debounce[uri]; ok {
		p.timer.Stop()
		p.settle(debounceAbandoned)
		delete(c.debounce, uri)
	}
}
