package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".snibbetsignore"), []byte("*.swp\n"), 0644))

	w, err := New(dir, func(context.Context) error { return nil }, DefaultConfig(), io.Discard, nil)
	require.NoError(t, err)
	defer w.watcher.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: filepath.Join(dir, "git.md"), Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: filepath.Join(dir, "new.md"), Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: filepath.Join(dir, "old.md"), Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: filepath.Join(dir, "old.md"), Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "git.md"), Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: filepath.Join(dir, ".DS_Store"), Op: fsnotify.Write}, false},
		{"ignored", fsnotify.Event{Name: filepath.Join(dir, "git.md.swp"), Op: fsnotify.Write}, false},
		{"nested", fsnotify.Event{Name: filepath.Join(dir, "sub", "x.md"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestRunRerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	var renders atomic.Int32

	cfg := Config{Debounce: 20 * time.Millisecond}
	w, err := New(dir, func(context.Context) error {
		renders.Add(1)
		return nil
	}, cfg, io.Discard, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return renders.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "git.md"), []byte("# Log\n    git log\n"), 0644))
	require.Eventually(t, func() bool { return renders.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewMissingFolder(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, DefaultConfig(), io.Discard, nil)

	assert.Error(t, err)
}

func TestHeader(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

	header := Header("todo list", "/notes", at)

	assert.True(t, strings.Contains(header, "snibbets: todo list"))
	assert.True(t, strings.Contains(header, "in /notes at 09:30:15"))
}
