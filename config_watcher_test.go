package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPublishConfigKeepsLatest(t *testing.T) {
	changes := make(chan ConfigLoadResult, 1)
	publishConfig(changes, ConfigLoadResult{Status: "OK"})
	publishConfig(changes, ConfigLoadResult{Status: "Warning"})

	got := <-changes
	if got.Status != "Warning" {
		t.Errorf("Expected the latest result, got %s", got.Status)
	}
	select {
	case extra := <-changes:
		t.Errorf("unexpected extra result %s", extra.Status)
	default:
	}
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	changes := make(chan ConfigLoadResult, 1)
	go func() {
		defer close(done)
		watchConfig(ctx, path, changes)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The watcher registers asynchronously, so keep replacing the file until it reports
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case result := <-changes:
			if result.Config.SwipeThreshold == 150 {
				return
			}
		case <-ticker.C:
			tmp := filepath.Join(dir, "config.tmp")
			if err := os.WriteFile(tmp, []byte(`{"swipe_threshold": 150}`), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := os.Rename(tmp, path); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("config change was never reported")
		}
	}
}
