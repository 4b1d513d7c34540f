package config

import (
	"context"
	"sync"
)

// FetchFunc asks the connected client for per-document settings overrides.
// It is only consulted when the client advertises configuration pull; a nil
// FetchFunc means every document shares the pushed process-wide snapshot.
type FetchFunc func(ctx context.Context, docID string) (Patch, error)

// Resolver produces effective per-document settings. Resolution merges, in
// order: defaults, the process-wide pushed overrides, then any per-document
// overrides fetched from the client. Results are cached per document until a
// configuration change invalidates them.
type Resolver struct {
	mu       sync.Mutex
	defaults Settings
	pushed   Patch
	fetch    FetchFunc
	cache    map[string]Settings
}

// NewResolver builds a Resolver seeded with base overrides (typically from
// the config file). fetch may be nil.
func NewResolver(base Patch, fetch FetchFunc) *Resolver {
	return &Resolver{
		defaults: Defaults().Apply(base),
		fetch:    fetch,
		cache:    make(map[string]Settings),
	}
}

// Resolve returns the effective settings for docID. Repeated calls are
// idempotent absent a configuration change. A failed client fetch drops the
// cache entry so the next call retries, and the failure is propagated; no
// defaults are substituted for a caller already awaiting resolution.
func (r *Resolver) Resolve(ctx context.Context, docID string) (Settings, error) {
	r.mu.Lock()
	if s, ok := r.cache[docID]; ok {
		r.mu.Unlock()
		return s, nil
	}
	base := r.defaults.Apply(r.pushed)
	fetch := r.fetch
	r.mu.Unlock()

	if fetch == nil {
		return base, nil
	}
	p, err := fetch(ctx, docID)
	if err != nil {
		r.Forget(docID)
		return Settings{}, err
	}
	s := base.Apply(p)
	r.mu.Lock()
	r.cache[docID] = s
	r.mu.Unlock()
	return s, nil
}

// Push replaces the process-wide overrides and invalidates the whole cache.
// This is the configuration-change notification.
func (r *Resolver) Push(p Patch) {
	r.mu.Lock()
	r.pushed = p
	r.cache = make(map[string]Settings)
	r.mu.Unlock()
}

// Invalidate drops every cached entry without touching the pushed overrides.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]Settings)
	r.mu.Unlock()
}

// Forget removes the cache entry for a single document (document close).
func (r *Resolver) Forget(docID string) {
	r.mu.Lock()
	delete(r.cache, docID)
	r.mu.Unlock()
}
