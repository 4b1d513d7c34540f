package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"infilld/internal/config"
	"infilld/internal/docstore"
	"infilld/pkg/types"
)

// Service defines the methods the HTTP layer requires from the coordinator.
type Service interface {
	Complete(ctx context.Context, uri string, pos types.Position) []types.CompletionItem
	OpenDocument(uri, text string)
	ChangeDocument(uri, text string) error
	CloseDocument(uri string)
	PushSettings(p config.Patch)
	Status() types.StatusResponse
	Ready() bool
}

// NewMux builds the chi router for the daemon.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// completionHandler godoc
	// @Summary      Inline completion
	// @Description  Produce an inline completion for a cursor position in an open document. Always returns a (possibly empty) item list.
	// @Accept       json
	// @Produce      json
	// @Param        request body types.CompletionParams true "Document URI and cursor position"
	// @Success      200 {object} types.CompletionResponse
	// @Failure      400 {object} types.ErrorResponse
	// @Router       /v1/completion [post]
	r.Post("/v1/completion", func(w http.ResponseWriter, r *http.Request) {
		var params types.CompletionParams
		if !decodeJSON(w, r, &params) {
			return
		}
		if strings.TrimSpace(params.URI) == "" {
			writeJSONError(w, http.StatusBadRequest, "uri is required")
			return
		}
		start := time.Now()
		items := svc.Complete(r.Context(), params.URI, params.Position)
		if items == nil {
			items = []types.CompletionItem{}
		}
		logRequest(r, "completion").Str("uri", params.URI).
			Int("items", len(items)).Dur("dur", time.Since(start)).Msg("completion served")
		writeJSON(w, http.StatusOK, types.CompletionResponse{Items: items})
	})

	r.Post("/v1/documents/open", func(w http.ResponseWriter, r *http.Request) {
		var req types.DocumentOpenRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.URI == "" {
			writeJSONError(w, http.StatusBadRequest, "uri is required")
			return
		}
		svc.OpenDocument(req.URI, req.Text)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/v1/documents/change", func(w http.ResponseWriter, r *http.Request) {
		var req types.DocumentChangeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.URI == "" {
			writeJSONError(w, http.StatusBadRequest, "uri is required")
			return
		}
		if err := svc.ChangeDocument(req.URI, req.Text); err != nil {
			if docstore.IsNotOpen(err) {
				writeJSONError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/v1/documents/close", func(w http.ResponseWriter, r *http.Request) {
		var req types.DocumentCloseRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.URI == "" {
			writeJSONError(w, http.StatusBadRequest, "uri is required")
			return
		}
		svc.CloseDocument(req.URI)
		w.WriteHeader(http.StatusNoContent)
	})

	// Client settings push. Replaces the process-wide overrides and
	// invalidates the per-document settings cache.
	r.Post("/v1/settings", func(w http.ResponseWriter, r *http.Request) {
		var patch config.Patch
		if !decodeJSON(w, r, &patch) {
			return
		}
		svc.PushSettings(patch)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("shutting down"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSON enforces the content type and body size limit, then decodes into
// v. On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logError(err, "failed to encode response")
	}
}
