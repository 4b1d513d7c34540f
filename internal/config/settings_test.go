package config

import "testing"

func intp(v int) *int          { return &v }
func strp(v string) *string    { return &v }
func floatp(v float64) *float64 { return &v }

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Endpoint != "http://127.0.0.1:8012/infill" {
		t.Fatalf("endpoint default: %q", d.Endpoint)
	}
	if d.NPredict != 128 || d.TopK != 40 || d.DebounceMs != 150 {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if d.Temperature != 0.0 || d.TopP != 0.90 {
		t.Fatalf("unexpected sampling defaults: %+v", d)
	}
	if d.TMaxPromptMs != 500 || d.TMaxPredictMs != 1000 {
		t.Fatalf("unexpected budget defaults: %+v", d)
	}
}

func TestApplyOverlaysOnlyPresentFields(t *testing.T) {
	s := Defaults().Apply(Patch{
		Endpoint:   strp("http://gpu-box:8012/infill"),
		DebounceMs: intp(250),
	})
	if s.Endpoint != "http://gpu-box:8012/infill" {
		t.Fatalf("present field not applied: %q", s.Endpoint)
	}
	if s.DebounceMs != 250 {
		t.Fatalf("present field not applied: %d", s.DebounceMs)
	}
	// Absent fields keep their prior values.
	if s.NPredict != 128 || s.TopK != 40 || s.TopP != 0.90 {
		t.Fatalf("absent fields replaced: %+v", s)
	}
}

func TestApplyZeroValuesArePresent(t *testing.T) {
	// An explicit zero is a present field, not an absent one.
	s := Defaults().Apply(Patch{NPredict: intp(0), Temperature: floatp(0)})
	if s.NPredict != 0 {
		t.Fatalf("explicit zero dropped: %d", s.NPredict)
	}
}

func TestApplyEmptyPatchIsIdentity(t *testing.T) {
	if got := Defaults().Apply(Patch{}); got != Defaults() {
		t.Fatalf("empty patch changed settings: %+v", got)
	}
}
