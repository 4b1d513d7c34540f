// Package infill talks to a llama.cpp server's infill endpoint: it builds the
// wire payload from document text and performs the single outbound HTTP call.
package infill

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of an error response body is kept for messages.
const maxErrorBody = 4096

// Client performs the outbound infill call. Timeouts come from the request
// context; the transport only bounds connection establishment.
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient constructs a Client with a shared keep-alive transport.
func NewClient(connectTimeout time.Duration, log zerolog.Logger) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0: all requests carry context-based cancellation and the
	// backend enforces its own t_max_prompt_ms/t_max_predict_ms budgets.
	return &Client{
		httpClient: &http.Client{Transport: tr, Timeout: 0},
		log:        log,
	}
}

// infillResponse is the expected backend response shape.
type infillResponse struct {
	Content *string `json:"content"`
}

// Complete POSTs the payload to endpoint and returns the completion text.
// Cancellation of ctx unwinds promptly and is reported as a cancelled error,
// never as a backend fault.
func (c *Client) Complete(ctx context.Context, endpoint string, payload Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", cancelledError{cause: err}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", cancelledError{cause: ctx.Err()}
		}
		return "", backendError{status: 0, body: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", backendError{status: resp.StatusCode, body: string(b)}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return "", cancelledError{cause: ctx.Err()}
		}
		return "", malformedResponseError{msg: err.Error()}
	}
	var out infillResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", malformedResponseError{msg: err.Error()}
	}
	if out.Content == nil {
		return "", malformedResponseError{msg: "missing content field"}
	}
	c.log.Debug().Str("endpoint", endpoint).Dur("dur", time.Since(start)).
		Int("content_len", len(*out.Content)).Msg("infill call done")
	return *out.Content, nil
}
