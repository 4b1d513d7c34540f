package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home) // os.UserHomeDir on windows

	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("absolute path: got %q err=%v", got, err)
	}
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("empty path: got %q err=%v", got, err)
	}
	if got, err := ExpandHome("~"); err != nil || got != home {
		t.Fatalf("bare tilde: got %q err=%v", got, err)
	}
	got, err := ExpandHome("~/config.yaml")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := filepath.Join(home, "config.yaml"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "cfg.yaml")
	if PathExists(f) {
		t.Fatalf("file should not exist yet")
	}
	if err := os.WriteFile(f, []byte("addr: :8013\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !PathExists(f) {
		t.Fatalf("file should exist")
	}
}
