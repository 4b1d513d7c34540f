package infill

import (
	"context"

	"infilld/internal/breaker"
)

// Completer is the outbound call surface the resilient wrapper guards.
type Completer interface {
	Complete(ctx context.Context, endpoint string, payload Request) (string, error)
}

// ResilientClient wraps a Completer with the shared circuit breaker. While
// the breaker is open, calls are rejected before any network I/O happens.
type ResilientClient struct {
	inner Completer
	br    *breaker.Breaker
}

// NewResilientClient wires a Completer to a breaker.
func NewResilientClient(inner Completer, br *breaker.Breaker) *ResilientClient {
	return &ResilientClient{inner: inner, br: br}
}

// Complete performs the guarded call and feeds the outcome back into the
// breaker. Cancellations are not recorded: only genuine backend faults count
// toward the failure window.
func (rc *ResilientClient) Complete(ctx context.Context, endpoint string, payload Request) (string, error) {
	if err := rc.br.Allow(); err != nil {
		return "", err
	}
	content, err := rc.inner.Complete(ctx, endpoint, payload)
	switch {
	case err == nil:
		rc.br.RecordSuccess()
	case IsCancelled(err):
		// excluded from failure accounting
		rc.br.RecordCancellation()
	default:
		rc.br.RecordFailure()
	}
	return content, err
}
