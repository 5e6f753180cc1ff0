package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWatcher_NoPathServesDefaults(t *testing.T) {
	w, err := NewWatcher("", discardLogger())

	require.NoError(t, err)
	assert.Equal(t, DefaultSecurityConfig(), w.Current())
}

func TestNewWatcher_InvalidFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "security:\n  password:\n    min_length: 1\n")

	_, err := NewWatcher(path, discardLogger())

	assert.Error(t, err)
}

func TestWatcher_Reload(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "site:\n  selected_articles: 2\n")
	w, err := NewWatcher(path, discardLogger())
	require.NoError(t, err)

	var seen atomic.Int32
	w.OnChange(func(c *SecurityConfig) { seen.Store(int32(c.Site.SelectedArticles)) })

	require.NoError(t, os.WriteFile(path, []byte("site:\n  selected_articles: 7\n"), 0o600))
	require.NoError(t, w.Reload())

	assert.Equal(t, 7, w.Current().Site.SelectedArticles)
	assert.Equal(t, int32(7), seen.Load())
}

func TestWatcher_Reload_InvalidKeepsPrevious(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "site:\n  selected_articles: 2\n")
	w, err := NewWatcher(path, discardLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("site:\n  selected_articles: -1\n"), 0o600))

	assert.Error(t, w.Reload())
	assert.Equal(t, 2, w.Current().Site.SelectedArticles)
}

func TestWatcher_Run_PicksUpWrites(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "site:\n  selected_articles: 1\n")
	w, err := NewWatcher(path, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// the watcher needs a moment to register before the write
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("site:\n  selected_articles: 9\n"), 0o600))

	assert.Eventually(t, func() bool {
		return w.Current().Site.SelectedArticles == 9
	}, 3*time.Second, 20*time.Millisecond)
}
