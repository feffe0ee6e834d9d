package identity

import (
	"errors"
	"testing"
)

func TestLoad_GeneratesOnceAndPersists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first, err := Load(dir)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first == "" {
		t.Fatalf("identity is empty")
	}

	second, err := Load(dir)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second != first {
		t.Fatalf("identity changed across loads: %q != %q", second, first)
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	if err := Require(""); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Require(\"\") = %v, want ErrNotReady", err)
	}
	if err := Require("  "); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Require(blank) = %v, want ErrNotReady", err)
	}
	if err := Require("install-1"); err != nil {
		t.Fatalf("Require(id) = %v, want nil", err)
	}
}
