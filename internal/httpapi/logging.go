package httpapi

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer. Defaults to a
// leveled stderr logger; main installs the configured one.
var zlog = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// logRequest starts an info event annotated with the handler name and the
// chi request id when present.
func logRequest(r *http.Request, handler string) *zerolog.Event {
	ev := zlog.Info().Str("handler", handler)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		ev = ev.Str("request_id", rid)
	}
	return ev
}

func logError(err error, msg string) {
	zlog.Error().Err(err).Msg(msg)
}
