// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	w, err := New(Options{OnChange: func(context.Context, []string) error { return nil }})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.opts.Debounce)
	assert.Equal(t, ".", w.opts.Dir)
}

func TestWatcher_DebouncesMatchingChanges(t *testing.T) {
	dir := t.TempDir()
	batches := make(chan []string, 10)
	ready := make(chan struct{})

	w, err := New(Options{
		Dir:      dir,
		Debounce: 200 * time.Millisecond,
		Match:    func(path string) bool { return strings.HasSuffix(path, ".html") },
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
		Ready: ready,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	for _, name := range []string{"26.0--a.html", "26.0--b.html", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	select {
	case changed := <-batches:
		resolved, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		for i := range changed {
			if p, err := filepath.EvalSymlinks(changed[i]); err == nil {
				changed[i] = p
			}
		}
		assert.Equal(t, []string{
			filepath.Join(resolved, "26.0--a.html"),
			filepath.Join(resolved, "26.0--b.html"),
		}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case extra := <-batches:
		t.Fatalf("unexpected second batch: %v", extra)
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_WatchesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archive"), 0o755))

	batches := make(chan []string, 10)
	ready := make(chan struct{})

	w, err := New(Options{
		Dir:      dir,
		Debounce: 200 * time.Millisecond,
		Descend:  func(path string) bool { return filepath.Base(path) != "archive" },
		Match:    func(path string) bool { return strings.HasSuffix(path, ".html") },
		OnChange: func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		},
		Ready: ready,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	basenames := func(changed []string) []string {
		out := make([]string, len(changed))
		for i, p := range changed {
			out[i] = filepath.Base(p)
		}
		return out
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive", "26.0--old.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "deep", "26.0--c.html"), []byte("x"), 0o644))

	select {
	case changed := <-batches:
		assert.Equal(t, []string{"26.0--c.html"}, basenames(changed))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for nested page")
	}

	// a directory created while watching is picked up
	require.NoError(t, os.Mkdir(filepath.Join(dir, "later"), 0o755))
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "later", "26.0--d.html"), []byte("x"), 0o644))

	select {
	case changed := <-batches:
		assert.Equal(t, []string{"26.0--d.html"}, basenames(changed))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for page in new directory")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(Options{
		Dir:      filepath.Join(t.TempDir(), "missing"),
		OnChange: func(context.Context, []string) error { return nil },
	})
	require.NoError(t, err)

	err = w.Run(context.Background())
	assert.Error(t, err)
}
