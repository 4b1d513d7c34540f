package breaker

import (
	"testing"
	"time"
)

// newTestBreaker returns a breaker with defaults and a manual clock.
func newTestBreaker() (*Breaker, *time.Time) {
	now := time.Unix(1_700_000_000, 0)
	b := New(Config{Clock: func() time.Time { return now }})
	return b, &now
}

func TestStartsClosed(t *testing.T) {
	b, _ := newTestBreaker()
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed, got %s", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected call allowed, got %v", err)
	}
}

func TestOpensAfterWindowOfFailures(t *testing.T) {
	b, _ := newTestBreaker()
	for i := 0; i < 4; i++ {
		b.RecordFailure()
		if got := b.State(); got != StateClosed {
			t.Fatalf("after %d failures expected closed, got %s", i+1, got)
		}
	}
	b.RecordFailure()
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after 5 failures, got %s", got)
	}
	err := b.Allow()
	if err == nil || !IsOpen(err) {
		t.Fatalf("expected circuit-open rejection, got %v", err)
	}
}

func TestSuccessInWindowKeepsClosed(t *testing.T) {
	b, _ := newTestBreaker()
	// One success inside the window keeps the failure rate below 100%.
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	b.RecordFailure()
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed with mixed window, got %s", got)
	}
}

func TestCooldownAdmitsSingleProbe(t *testing.T) {
	b, now := newTestBreaker()
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); !IsOpen(err) {
		t.Fatalf("expected rejection while open, got %v", err)
	}
	*now = now.Add(29 * time.Second)
	if err := b.Allow(); !IsOpen(err) {
		t.Fatalf("expected rejection before cooldown elapses, got %v", err)
	}
	*now = now.Add(2 * time.Second)
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("expected half_open after cooldown, got %s", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe admitted, got %v", err)
	}
	// Only one probe at a time.
	if err := b.Allow(); !IsOpen(err) {
		t.Fatalf("expected second probe rejected, got %v", err)
	}
}

func TestSuccessfulProbeCloses(t *testing.T) {
	b, now := newTestBreaker()
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	*now = now.Add(31 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe not admitted: %v", err)
	}
	b.RecordSuccess()
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", got)
	}
	// Window resets: a single failure must not reopen.
	b.RecordFailure()
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after single failure post-reset, got %s", got)
	}
}

func TestFailedProbeReopensAndRestartsCooldown(t *testing.T) {
	b, now := newTestBreaker()
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	*now = now.Add(31 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe not admitted: %v", err)
	}
	b.RecordFailure()
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected reopened after failed probe, got %s", got)
	}
	*now = now.Add(29 * time.Second)
	if err := b.Allow(); !IsOpen(err) {
		t.Fatalf("expected rejection during restarted cooldown, got %v", err)
	}
	*now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe after restarted cooldown, got %v", err)
	}
}

func TestCancelledProbeFreesSlot(t *testing.T) {
	b, now := newTestBreaker()
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	*now = now.Add(31 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe not admitted: %v", err)
	}
	b.RecordCancellation()
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe slot freed after cancellation, got %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	b := New(Config{})
	if b.cfg.WindowSize != defaultWindowSize {
		t.Fatalf("expected window %d got %d", defaultWindowSize, b.cfg.WindowSize)
	}
	if b.cfg.MinCalls != defaultMinCalls {
		t.Fatalf("expected min calls %d got %d", defaultMinCalls, b.cfg.MinCalls)
	}
	if b.cfg.FailureThreshold != defaultFailureThreshold {
		t.Fatalf("expected threshold %v got %v", defaultFailureThreshold, b.cfg.FailureThreshold)
	}
	if b.cfg.OpenDelay != defaultOpenDelay {
		t.Fatalf("expected delay %v got %v", defaultOpenDelay, b.cfg.OpenDelay)
	}
}
