package infill

import (
	"strings"

	"infilld/internal/config"
)

// tabWidth is the column width a tab counts for in the indentation hint.
const tabWidth = 4

// ExtraContext is an additional context chunk for the infill endpoint.
// The daemon never sends any, but the field must marshal as an empty list.
type ExtraContext struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Request is the wire payload for POST <endpoint> against a llama.cpp server.
type Request struct {
	InputPrefix    string         `json:"input_prefix"`
	InputSuffix    string         `json:"input_suffix"`
	InputExtra     []ExtraContext `json:"input_extra"`
	Prompt         string         `json:"prompt"`
	NPredict       int            `json:"n_predict"`
	Temperature    float64        `json:"temperature"`
	TopK           int            `json:"top_k"`
	TopP           float64        `json:"top_p"`
	NIndent        int            `json:"n_indent"`
	Samplers       []string       `json:"samplers"`
	Stream         bool           `json:"stream"`
	CachePrompt    bool           `json:"cache_prompt"`
	TMaxPromptMs   int            `json:"t_max_prompt_ms"`
	TMaxPredictMs  int            `json:"t_max_predict_ms"`
	ResponseFields []string       `json:"response_fields"`
	Stop           []string       `json:"stop,omitempty"`
}

// BuildRequest splits the document text at the cursor offset and assembles
// the backend payload. The offset is clamped into [0, len(text)].
func BuildRequest(text string, offset int, s config.Settings) Request {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	prefix := text[:offset]
	suffix := text[offset:]
	return Request{
		InputPrefix:    prefix,
		InputSuffix:    suffix,
		InputExtra:     []ExtraContext{},
		Prompt:         "",
		NPredict:       s.NPredict,
		Temperature:    s.Temperature,
		TopK:           s.TopK,
		TopP:           s.TopP,
		NIndent:        indentWidth(prefix),
		Samplers:       []string{"top_k", "top_p", "infill"},
		Stream:         false,
		CachePrompt:    true,
		TMaxPromptMs:   s.TMaxPromptMs,
		TMaxPredictMs:  s.TMaxPredictMs,
		ResponseFields: []string{"content"},
	}
}

// indentWidth measures the leading whitespace of the line the cursor is on,
// counting a tab as 4 columns.
func indentWidth(prefix string) int {
	line := prefix
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		line = prefix[idx+1:]
	}
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width
		}
	}
	return width
}
