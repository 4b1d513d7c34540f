package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"infilld/internal/breaker"
	"infilld/internal/config"
	"infilld/internal/docstore"
	"infilld/internal/infill"
	"infilld/pkg/types"
)

// Config encapsulates the collaborators a Coordinator composes.
type Config struct {
	Resolver *config.Resolver
	Docs     *docstore.Store
	// Client is the breaker-guarded outbound call.
	Client infill.Completer
	// Breaker is the shared circuit state, referenced for status reporting.
	Breaker *breaker.Breaker
	Log     zerolog.Logger
}

// Coordinator owns all per-document coordination state: the settings cache,
// the pending debounce entries and the in-flight cancellation tokens. It is
// created at server start, entries are removed at document close, and
// Shutdown tears everything down.
type Coordinator struct {
	mu       sync.Mutex
	resolver *config.Resolver
	docs     *docstore.Store
	client   infill.Completer
	br       *breaker.Breaker
	log      zerolog.Logger

	debounce map[string]*pendingDebounce
	inflight map[string]*inflightCall

	baseCtx   context.Context
	cancelAll context.CancelFunc
	closed    bool
	startTime time.Time
}

// New constructs a Coordinator.
func New(cfg Config) *Coordinator {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		resolver:  cfg.Resolver,
		docs:      cfg.Docs,
		client:    cfg.Client,
		br:        cfg.Breaker,
		log:       cfg.Log,
		debounce:  make(map[string]*pendingDebounce),
		inflight:  make(map[string]*inflightCall),
		baseCtx:   baseCtx,
		cancelAll: cancel,
		startTime: time.Now(),
	}
}

// Complete runs the full request pipeline for one trigger: resolve settings,
// debounce, cancel the predecessor call, invoke the backend through the
// breaker and map the result. Every failure collapses to an empty item list;
// the editor never sees an error for a failed or cancelled attempt.
func (c *Coordinator) Complete(ctx context.Context, uri string, pos types.Position) []types.CompletionItem {
	settings, err := c.resolver.Resolve(ctx, uri)
	if err != nil {
		c.log.Warn().Err(err).Str("uri", uri).Msg("settings resolution failed")
		completionsTotal.WithLabelValues("config_error").Inc()
		return nil
	}

	switch c.schedule(uri, time.Duration(settings.DebounceMs)*time.Millisecond) {
	case debounceSuperseded:
		debounceSupersededTotal.Inc()
		completionsTotal.WithLabelValues("superseded").Inc()
		return nil
	case debounceAbandoned:
		completionsTotal.WithLabelValues("abandoned").Inc()
		return nil
	}

	callCtx, tok := c.acquireCall(ctx, uri)
	if tok == nil {
		completionsTotal.WithLabelValues("abandoned").Inc()
		return nil
	}
	defer c.releaseCall(uri, tok)

	doc, ok := c.docs.Get(uri)
	if !ok {
		completionsTotal.WithLabelValues("not_open").Inc()
		return nil
	}
	payload := infill.BuildRequest(doc.Text(), doc.OffsetAt(pos.Line, pos.Character), settings)

	start := time.Now()
	content, err := c.client.Complete(callCtx, settings.Endpoint, payload)
	c.observeBreaker()
	if err != nil {
		c.logCallFailure(uri, err)
		completionsTotal.WithLabelValues(classify(err)).Inc()
		return nil
	}
	backendDuration.Observe(time.Since(start).Seconds())

	// A stale success whose token was superseded while the backend ignored
	// cancellation is discarded, never delivered.
	if !c.callCurrent(uri, tok) {
		completionsTotal.WithLabelValues("stale").Inc()
		return nil
	}
	if strings.TrimSpace(content) == "" {
		completionsTotal.WithLabelValues("empty").Inc()
		return nil
	}
	completionsTotal.WithLabelValues("ok").Inc()
	c.log.Debug().Str("uri", uri).Int("len", len(content)).Msg("completion produced")
	return []types.CompletionItem{{InsertText: content}}
}

// CloseDocument releases everything tied to uri: the cached settings, the
// pending debounce entry, the in-flight call token and the document text.
func (c *Coordinator) CloseDocument(uri string) {
	c.mu.Lock()
	c.abandonDebounceLocked(uri)
	if tok, ok := c.inflight[uri]; ok {
		tok.cancel()
		delete(c.inflight, uri)
	}
	c.mu.Unlock()
	c.resolver.Forget(uri)
	c.docs.Close(uri)
}

// OpenDocument registers a document with its full text.
func (c *Coordinator) OpenDocument(uri, text string) {
	c.docs.Open(uri, text)
}

// ChangeDocument replaces the full text of an open document.
func (c *Coordinator) ChangeDocument(uri, text string) error {
	return c.docs.Replace(uri, text)
}

// PushSettings applies a client settings push and invalidates the settings
// cache wholesale (the configuration-change notification).
func (c *Coordinator) PushSettings(p config.Patch) {
	c.resolver.Push(p)
	c.log.Info().Msg("settings pushed, cache invalidated")
}

// Shutdown performs the total teardown: abandons all pending debounce timers,
// signals every in-flight token and drops all cached settings and documents.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for uri := range c.debounce {
		c.abandonDebounceLocked(uri)
	}
	for uri, tok := range c.inflight {
		tok.cancel()
		delete(c.inflight, uri)
	}
	c.mu.Unlock()
	c.cancelAll()
	c.resolver.Invalidate()
	c.docs.Clear()
	c.log.Info().Msg("pipeline shut down")
}

// Ready reports whether the coordinator accepts work.
func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Status returns a read-only projection for GET /status.
func (c *Coordinator) Status() types.StatusResponse {
	c.mu.Lock()
	inflight := len(c.inflight)
	c.mu.Unlock()
	now := time.Now()
	return types.StatusResponse{
		BreakerState:   string(c.br.State()),
		OpenDocuments:  c.docs.Len(),
		InflightCalls:  inflight,
		UptimeSeconds:  int64(now.Sub(c.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}

func (c *Coordinator) observeBreaker() {
	switch c.br.State() {
	case breaker.StateClosed:
		breakerState.Set(0)
	case breaker.StateHalfOpen:
		breakerState.Set(1)
	case breaker.StateOpen:
		breakerState.Set(2)
	}
}

func (c *Coordinator) logCallFailure(uri string, err error) {
	ev := c.log.Warn().Err(err).Str("uri", uri)
	if infill.IsCancelled(err) || breaker.IsOpen(err) {
		ev = c.log.Debug().Err(err).Str("uri", uri)
	}
	ev.Msg("backend call failed")
}

func classify(err error) string {
	switch {
	case breaker.IsOpen(err):
		return "circuit_open"
	case infill.IsCancelled(err):
		return "cancelled"
	case infill.IsMalformedResponse(err):
		return "malformed_response"
	case infill.IsBackendError(err):
		return "backend_error"
	default:
		return "error"
	}
}
