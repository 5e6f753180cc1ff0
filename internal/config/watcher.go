package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher holds the current SecurityConfig and reloads it when the file changes.
// An invalid file is logged and the previous configuration stays in effect.
type Watcher struct {
	path     string
	logger   *slog.Logger
	current  atomic.Pointer[SecurityConfig]
	onChange []func(*SecurityConfig)
}

// NewWatcher loads path once. An empty path serves the defaults and never reloads.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	w := &Watcher{path: path, logger: logger}
	cfg := DefaultSecurityConfig()
	if path != "" {
		loaded, err := LoadSecurityConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	w.current.Store(cfg)
	return w, nil
}

// Current returns the configuration in effect.
func (w *Watcher) Current() *SecurityConfig {
	return w.current.Load()
}

// OnChange registers fn to run after every successful reload.
// Register callbacks before calling Run.
func (w *Watcher) OnChange(fn func(*SecurityConfig)) {
	w.onChange = append(w.onChange, fn)
}

// Reload re-reads the file and applies it if valid.
func (w *Watcher) Reload() error {
	cfg, err := LoadSecurityConfig(w.path)
	if err != nil {
		return err
	}
	w.current.Store(cfg)
	for _, fn := range w.onChange {
		fn(cfg)
	}
	return nil
}

// Run watches the file's directory until ctx is done. Editors often replace
// files by renaming, so the directory is watched rather than the file itself.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" {
		<-ctx.Done()
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if err := w.Reload(); err != nil {
				w.logger.Warn("security config reload failed, keeping previous",
					slog.String("path", w.path),
					slog.Any("error", err))
				continue
			}
			w.logger.Info("security config reloaded", slog.String("path", w.path))
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", slog.Any("error", err))
		}
	}
}
