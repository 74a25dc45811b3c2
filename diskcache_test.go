package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	if store.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", store.Dir(), dir)
	}

	if _, err := store.Get("abc-a.png"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
	if store.Has("abc-a.png") {
		t.Error("Has should be false before Set")
	}

	content := []byte("encoded bytes")
	if err := store.Set("abc-a.png", content); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get("abc-a.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Get = %q, want %q", got, content)
	}

	if err := store.Set("abc-a.png", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := store.Get("abc-a.png"); string(got) != "v2" {
		t.Errorf("overwrite not visible, got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected no temp files left behind, found %d entries", len(entries))
	}
}

func TestDiskStoreRejectsUnsafeIDs(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		if err := store.Set(id, []byte("x")); err == nil {
			t.Errorf("Set(%q) should fail", id)
		}
		if _, err := store.Get(id); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get(%q) = %v, want ErrCacheMiss", id, err)
		}
		if store.Has(id) {
			t.Errorf("Has(%q) should be false", id)
		}
	}
}
