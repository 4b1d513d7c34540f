package pipeline

import "context"

// inflightCall is the cancellation token bound to the one outstanding backend
// call for a document.
type inflightCall struct {
	cancel context.CancelFunc
}

// acquireCall registers a fresh token for uri, cancelling and discarding any
// predecessor, and returns a context for the backend call. The context is
// derived from the coordinator's base context so shutdown cancels it, and it
// additionally follows the caller's context. Returns a nil token when the
// coordinator is shut down.
func (c *Coordinator) acquireCall(ctx context.Context, uri string) (context.Context, *inflightCall) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil
	}
	if prev, ok := c.inflight[uri]; ok {
		prev.cancel()
	}
	callCtx, cancel := context.WithCancel(c.baseCtx)
	tok := &inflightCall{cancel: cancel}
	c.inflight[uri] = tok
	c.mu.Unlock()

	// Follow the caller's context too. The goroutine exits once the call
	// context is cancelled, which releaseCall guarantees on every exit path.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-callCtx.Done():
		}
	}()
	return callCtx, tok
}

// releaseCall cancels tok and clears the registry entry, but only if tok is
// still the currently registered one: a late release must not race a newer
// acquire. Idempotent.
func (c *Coordinator) releaseCall(uri string, tok *inflightCall) {
	tok.cancel()
	c.mu.Lock()
	if c.inflight[uri] == tok {
		delete(c.inflight, uri)
	}
	c.mu.Unlock()
}

// callCurrent reports whether tok is still the registered token for uri. A
// result associated with a superseded token is discarded, never delivered.
func (c *Coordinator) callCurrent(uri string, tok *inflightCall) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[uri] == tok
}
