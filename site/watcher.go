package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// changeChannelBuffer is the size of the change notification channel.
const changeChannelBuffer = 64

// WatchConfig configures standards-tree watching for live rebuilds.
type WatchConfig struct {
	// DebounceDelay is how long to wait for more changes before
	// signalling a rebuild.
	DebounceDelay time.Duration `yaml:"debounce_delay"`

	// FileExtensions lists extensions that trigger rebuilds.
	FileExtensions []string `yaml:"file_extensions"`
}

// DefaultWatchConfig returns the default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		DebounceDelay:  500 * time.Millisecond,
		FileExtensions: []string{".yaml", ".yml", ".md"},
	}
}

// Change describes one debounced batch of standards-tree changes.
type Change struct {
	// Paths are the files that changed in this batch.
	Paths []string
}

// Watcher watches the standards tree and emits a Change after each
// debounced batch of edits. commands/serve consumes the channel to
// rebuild the site.
type Watcher struct {
	config       WatchConfig
	standardsDir string
	watcher      *fsnotify.Watcher
	logger       *slog.Logger
	extensions   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]struct{}

	changes chan Change
}

// NewWatcher creates a watcher over the standards directory.
func NewWatcher(config WatchConfig, standardsDir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 500 * time.Millisecond
	}

	extensions := make(map[string]bool)
	exts := config.FileExtensions
	if len(exts) == 0 {
		exts = DefaultWatchConfig().FileExtensions
	}
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	return &Watcher{
		config:       config,
		standardsDir: standardsDir,
		watcher:      fsw,
		logger:       logger,
		extensions:   extensions,
		pending:      make(map[string]struct{}),
		changes:      make(chan Change, changeChannelBuffer),
	}, nil
}

// Changes returns the channel of debounced change batches.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins watching. The changes channel is closed when ctx is
// cancelled or the watcher is stopped.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.standardsDir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("standards watcher started",
		"standards_dir", w.standardsDir,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") && base != "." {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.changes)
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	ext := strings.ToLower(filepath.Ext(path))
	if !w.extensions[ext] {
		// New status folders need their own watch.
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if err := w.watcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = struct{}{}
	w.pendingMu.Unlock()

	w.logger.Debug("standards change detected", "path", path, "op", event.Op.String())
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	select {
	case w.changes <- Change{Paths: paths}:
	default:
		w.logger.Warn("change channel full, dropping batch", "paths", len(paths))
	}
}
