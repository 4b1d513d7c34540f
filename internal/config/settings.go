package config

// Settings is the effective per-document completion configuration. It is an
// immutable snapshot: resolution produces a value, never a shared pointer.
type Settings struct {
	// Endpoint is the llama.cpp server infill URL.
	Endpoint string
	// NPredict caps the number of generated tokens.
	NPredict int
	// Sampling parameters forwarded to the backend.
	Temperature float64
	TopK        int
	TopP        float64
	// DebounceMs is how long a trigger waits before a backend call is attempted.
	DebounceMs int
	// Backend-side timing budgets, carried in the request payload.
	TMaxPromptMs  int
	TMaxPredictMs int
}

// Patch is a partial settings overlay. Nil fields mean "not provided" so the
// defaults merge never replaces a present field with a default.
type Patch struct {
	Endpoint      *string  `json:"llamaEndpoint,omitempty" yaml:"llamaEndpoint" toml:"llamaEndpoint"`
	NPredict      *int     `json:"nPredict,omitempty" yaml:"nPredict" toml:"nPredict"`
	Temperature   *float64 `json:"temperature,omitempty" yaml:"temperature" toml:"temperature"`
	TopK          *int     `json:"topK,omitempty" yaml:"topK" toml:"topK"`
	TopP          *float64 `json:"topP,omitempty" yaml:"topP" toml:"topP"`
	DebounceMs    *int     `json:"debounceMs,omitempty" yaml:"debounceMs" toml:"debounceMs"`
	TMaxPromptMs  *int     `json:"t_max_prompt_ms,omitempty" yaml:"t_max_prompt_ms" toml:"t_max_prompt_ms"`
	TMaxPredictMs *int     `json:"t_max_predict_ms,omitempty" yaml:"t_max_predict_ms" toml:"t_max_predict_ms"`
}

// Defaults returns the documented fallback settings.
func Defaults() Settings {
	return Settings{
		Endpoint:      "http://127.0.0.1:8012/infill",
		NPredict:      128,
		Temperature:   0.0,
		TopK:          40,
		TopP:          0.90,
		DebounceMs:    150,
		TMaxPromptMs:  500,
		TMaxPredictMs: 1000,
	}
}

// Apply overlays p on s field by field and returns the merged snapshot.
// Absent fields keep the value already in s.
func (s Settings) Apply(p Patch) Settings {
	if p.Endpoint != nil {
		s.Endpoint = *p.Endpoint
	}
	if p.NPredict != nil {
		s.NPredict = *p.NPredict
	}
	if p.Temperature != nil {
		s.Temperature = *p.Temperature
	}
	if p.TopK != nil {
		s.TopK = *p.TopK
	}
	if p.TopP != nil {
		s.TopP = *p.TopP
	}
	if p.DebounceMs != nil {
		s.DebounceMs = *p.DebounceMs
	}
	if p.TMaxPromptMs != nil {
		s.TMaxPromptMs = *p.TMaxPromptMs
	}
	if p.TMaxPredictMs != nil {
		s.TMaxPredictMs = *p.TMaxPredictMs
	}
	return s
}
