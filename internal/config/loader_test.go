package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "cfg.yaml", `
addr: ":9000"
log_level: debug
llama:
  llamaEndpoint: "http://10.0.0.5:8012/infill"
  debounceMs: 300
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Llama.Endpoint == nil || *cfg.Llama.Endpoint != "http://10.0.0.5:8012/infill" {
		t.Fatalf("llama endpoint not parsed: %+v", cfg.Llama)
	}
	if cfg.Llama.DebounceMs == nil || *cfg.Llama.DebounceMs != 300 {
		t.Fatalf("debounce not parsed: %+v", cfg.Llama)
	}
	if cfg.Llama.NPredict != nil {
		t.Fatalf("absent field must stay nil: %+v", cfg.Llama)
	}
}

func TestLoadJSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "cfg.json",
		`{"addr": ":9001", "llama": {"nPredict": 64, "t_max_predict_ms": 750}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9001" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.Llama.NPredict == nil || *cfg.Llama.NPredict != 64 {
		t.Fatalf("nPredict not parsed: %+v", cfg.Llama)
	}
	if cfg.Llama.TMaxPredictMs == nil || *cfg.Llama.TMaxPredictMs != 750 {
		t.Fatalf("t_max_predict_ms not parsed: %+v", cfg.Llama)
	}
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "cfg.toml", `
addr = ":9002"

[llama]
topK = 20
topP = 0.8
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Llama.TopK == nil || *cfg.Llama.TopK != 20 {
		t.Fatalf("topK not parsed: %+v", cfg.Llama)
	}
	if cfg.Llama.TopP == nil || *cfg.Llama.TopP != 0.8 {
		t.Fatalf("topP not parsed: %+v", cfg.Llama)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	p := writeFile(t, t.TempDir(), "cfg.ini", "addr=:1")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
