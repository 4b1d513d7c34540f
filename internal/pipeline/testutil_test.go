package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"infilld/internal/breaker"
	"infilld/internal/config"
	"infilld/internal/docstore"
	"infilld/internal/infill"
)

// fakeBackend is a scripted Completer. It honors context cancellation while
// sleeping, like the real HTTP client does.
type fakeBackend struct {
	mu      sync.Mutex
	calls   int
	content string
	err     error
	delay   time.Duration
	lastReq infill.Request
}

func (f *fakeBackend) Complete(ctx context.Context, endpoint string, req infill.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	content, err, delay := f.content, f.err, f.delay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeBackend) request() infill.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

// newTestCoordinator wires a Coordinator around client with a fast debounce.
func newTestCoordinator(client infill.Completer, debounceMs int) (*Coordinator, *breaker.Breaker) {
	br := breaker.New(breaker.Config{})
	c := New(Config{
		Resolver: config.NewResolver(config.Patch{DebounceMs: &debounceMs}, nil),
		Docs:     docstore.NewStore(),
		Client:   client,
		Breaker:  br,
		Log:      zerolog.Nop(),
	})
	return c, br
}
