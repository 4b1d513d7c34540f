package types

// Position is a zero-based cursor position inside a document. Character is a
// byte offset within the line.
type Position struct {
	// Zero-based line number.
	// example: 12
	Line int `json:"line" example:"12"`
	// Zero-based byte offset within the line.
	// example: 8
	Character int `json:"character" example:"8"`
}

// CompletionParams is the payload for POST /v1/completion.
type CompletionParams struct {
	// URI of an open document.
	// example: file:///home/user/project/main.go
	URI string `json:"uri" example:"file:///home/user/project/main.go"`
	// Cursor position to complete at.
	Position Position `json:"position"`
}

// CompletionItem is a single inline completion suggestion.
type CompletionItem struct {
	// Text to insert at the cursor.
	// example: baz)
	InsertText string `json:"insert_text" example:"baz)"`
}

// CompletionResponse wraps the item list returned by POST /v1/completion.
// The list is empty when no completion is available; backend failures are
// never surfaced as protocol errors.
type CompletionResponse struct {
	// Zero or one completion items.
	Items []CompletionItem `json:"items"`
}

// DocumentOpenRequest opens (or re-opens) a document with its full text.
type DocumentOpenRequest struct {
	// Document URI.
	// example: file:///home/user/project/main.go
	URI string `json:"uri" example:"file:///home/user/project/main.go"`
	// Full document text.
	Text string `json:"text"`
}

// DocumentChangeRequest replaces the full text of an open document.
type DocumentChangeRequest struct {
	// Document URI.
	URI string `json:"uri"`
	// Full replacement text.
	Text string `json:"text"`
}

// DocumentCloseRequest closes a document and releases all state tied to it.
type DocumentCloseRequest struct {
	// Document URI.
	URI string `json:"uri"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Current circuit breaker state: closed, open or half_open.
	// example: closed
	BreakerState string `json:"breaker_state" example:"closed"`
	// Number of currently open documents.
	// example: 3
	OpenDocuments int `json:"open_documents" example:"3"`
	// Number of in-flight backend calls.
	// example: 1
	InflightCalls int `json:"inflight_calls" example:"1"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
