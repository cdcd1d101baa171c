package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDefaultWatchConfig(t *testing.T) {
	config := DefaultWatchConfig()

	if config.DebounceDelay != 500*time.Millisecond {
		t.Errorf("unexpected default debounce delay: %v", config.DebounceDelay)
	}
	if len(config.FileExtensions) != 3 {
		t.Errorf("expected 3 default extensions, got %d", len(config.FileExtensions))
	}
}

func TestNewWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	config := WatchConfig{
		DebounceDelay:  100 * time.Millisecond,
		FileExtensions: []string{".yaml", "md"},
	}

	watcher, err := NewWatcher(config, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if !watcher.extensions[".yaml"] {
		t.Error("expected .yaml extension to be watched")
	}
	// Extensions without a leading dot get one added.
	if !watcher.extensions[".md"] {
		t.Error("expected .md extension to be watched")
	}
}

func TestNewWatcherDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(WatchConfig{}, tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	if watcher.config.DebounceDelay != 500*time.Millisecond {
		t.Errorf("expected default debounce, got %v", watcher.config.DebounceDelay)
	}
	for _, ext := range []string{".yaml", ".yml", ".md"} {
		if !watcher.extensions[ext] {
			t.Errorf("expected %s extension to be watched by default", ext)
		}
	}
}

func TestWatcherFileCreation(t *testing.T) {
	tmpDir := t.TempDir()

	config := WatchConfig{
		DebounceDelay:  50 * time.Millisecond,
		FileExtensions: []string{".yaml"},
	}

	watcher, err := NewWatcher(config, tmpDir, testLogger())
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "agent.yaml")
	if err := os.WriteFile(testFile, []byte("name: Agent\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	select {
	case change := <-watcher.Changes():
		found := false
		for _, p := range change.Paths {
			if p == testFile {
				found = true
			}
		}
		if !found {
			t.Errorf("expected change batch to contain %s, got %v", testFile, change.Paths)
		}
	case <-time.After(3 * time.Second):
		t.Error("timeout waiting for change batch")
	}
}

func TestWatcherIgnoresNonWatchedExtensions(t *testing.T) {
	tmpDir := t.TempDir()

	config := WatchConfig{
		DebounceDelay:  50 * time.Millisecond,
		FileExtensions: []string{".yaml"},
	}

	watcher, err := NewWatcher(config, tmpDir, testLogger())
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(testFile, []byte("scratch"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	select {
	case change, ok := <-watcher.Changes():
		if ok {
			t.Errorf("unexpected change batch for non-watched extension: %+v", change)
		}
	case <-time.After(300 * time.Millisecond):
		// Expected - no batch for non-watched extension
	}
}

func TestWatcherWatchesNewStatusFolders(t *testing.T) {
	tmpDir := t.TempDir()

	config := WatchConfig{
		DebounceDelay:  50 * time.Millisecond,
		FileExtensions: []string{".yaml"},
	}

	watcher, err := NewWatcher(config, tmpDir, testLogger())
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	// A new status folder created after start should still be watched.
	draftDir := filepath.Join(tmpDir, "draft")
	if err := os.MkdirAll(draftDir, 0755); err != nil {
		t.Fatalf("failed to create status dir: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(draftDir, "runbook.yaml")
	if err := os.WriteFile(testFile, []byte("name: Runbook\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	select {
	case change := <-watcher.Changes():
		found := false
		for _, p := range change.Paths {
			if p == testFile {
				found = true
			}
		}
		if !found {
			t.Errorf("expected change batch to contain %s, got %v", testFile, change.Paths)
		}
	case <-time.After(3 * time.Second):
		t.Error("timeout waiting for change in new folder")
	}
}

func TestWatcherClosesChangesOnCancel(t *testing.T) {
	tmpDir := t.TempDir()

	watcher, err := NewWatcher(DefaultWatchConfig(), tmpDir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}

	cancel()

	select {
	case _, ok := <-watcher.Changes():
		if ok {
			t.Error("expected changes channel to be closed")
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for changes channel to close")
	}
}
