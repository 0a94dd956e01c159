package words

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const defaultPollInterval = 2 * time.Second

// Watcher monitors a word-list config file for changes and publishes a fresh
// [Snapshot] into a [Store] when the file is modified. It uses polling (not
// fsnotify) to keep dependencies minimal.
//
// A malformed or unreadable file never unpublishes anything: the previous
// snapshot stays active and the failure is logged. Only the initial load in
// [NewWatcher] surfaces an error, so the caller can run without hot reload
// when the file is broken at startup.
type Watcher struct {
	path        string
	interval    time.Duration
	store       *Store
	onSwap      func(old, new *Snapshot)
	defaultLang LanguageCode

	// last known file state for change detection; only the Run goroutine
	// touches these after construction.
	lastMtime time.Time
	lastHash  [sha256.Size]byte
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithInterval sets the polling interval. The default is 2 seconds.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDefaultLanguage sets the fallback default language applied when the
// config file does not declare one of its own.
func WithDefaultLanguage(lang LanguageCode) WatcherOption {
	return func(w *Watcher) {
		w.defaultLang = lang
	}
}

// WithOnSwap registers a callback invoked after each successful hot-swap with
// the replaced and the newly published snapshots. The callback runs on the
// watcher goroutine and must not block.
func WithOnSwap(fn func(old, new *Snapshot)) WatcherOption {
	return func(w *Watcher) {
		w.onSwap = fn
	}
}

// NewWatcher creates a word-list file watcher bound to store. It loads the
// file once, publishes the resulting snapshot, and returns. Call [Watcher.Run]
// to start polling; the watcher stops when the context is cancelled.
func NewWatcher(path string, store *Store, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		interval: defaultPollInterval,
		store:    store,
	}
	for _, opt := range opts {
		opt(w)
	}

	snap, hash, mtime, err := w.loadAndHash()
	if err != nil {
		return nil, fmt.Errorf("words: watcher initial load: %w", err)
	}
	w.lastHash = hash
	w.lastMtime = mtime
	store.Publish(snap)

	return w, nil
}

// Run polls the file until ctx is cancelled. It always returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.check()
		}
	}
}

// check reads the config file and, if its content has changed and parses
// cleanly, publishes the new snapshot.
func (w *Watcher) check() {
	// Quick mtime check first to avoid hashing unchanged files.
	info, err := os.Stat(w.path)
	if err != nil {
		slog.Warn("words watcher: cannot stat file", "path", w.path, "err", err)
		return
	}
	if info.ModTime().Equal(w.lastMtime) {
		return
	}

	snap, hash, mtime, err := w.loadAndHash()
	if err != nil {
		slog.Warn("words watcher: failed to load word lists, keeping previous snapshot",
			"path", w.path, "err", err)
		return
	}

	if hash == w.lastHash {
		// File was touched but content is identical.
		w.lastMtime = mtime
		return
	}

	old := w.store.Current()
	w.store.Publish(snap)
	w.lastHash = hash
	w.lastMtime = mtime

	slog.Info("words watcher: word lists reloaded",
		"path", w.path,
		"default_language", snap.DefaultLanguage,
		"languages", len(snap.IgnoredByLang),
	)

	if w.onSwap != nil {
		w.onSwap(old, snap)
	}
}

// loadAndHash reads the file, parses it, and returns the snapshot alongside
// the content's SHA-256 hash and the file's modification time.
func (w *Watcher) loadAndHash() (*Snapshot, [sha256.Size]byte, time.Time, error) {
	var zeroHash [sha256.Size]byte

	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}
	info, err := os.Stat(w.path)
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}

	snap, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, zeroHash, time.Time{}, err
	}
	if snap.DefaultLanguage == "" {
		snap.DefaultLanguage = w.defaultLang
	}

	return snap, sha256.Sum256(data), info.ModTime(), nil
}
