// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package watch rebuilds on documentation changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Dir is the watched directory.
	Dir string

	// Debounce is the quiet period after the last event before OnChange runs.
	Debounce time.Duration

	// Descend selects the subdirectories of Dir to watch as well. Directories
	// created while watching are added when it accepts them. Nil watches Dir
	// alone.
	Descend func(dir string) bool

	// Match filters event paths; nil matches everything.
	Match func(path string) bool

	// OnChange receives the sorted absolute paths changed since the last call.
	OnChange func(ctx context.Context, changed []string) error

	// OnError receives watcher errors and OnChange failures. Watching goes on.
	OnError func(err error)

	// Ready, when set, is closed once the directory is being watched.
	Ready chan<- struct{}
}

// Watcher debounces file system events under a directory.
type Watcher struct {
	opts Options
}

// New creates a Watcher.
func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, errors.New("watch: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &Watcher{opts: opts}, nil
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := filepath.Abs(w.opts.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.opts.Dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, dir); err != nil {
		return err
	}
	if w.opts.Ready != nil {
		close(w.opts.Ready)
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && w.opts.Descend != nil {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && w.opts.Descend(ev.Name) {
					if err := w.addTree(fw, ev.Name); err != nil {
						w.report(err)
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.report(err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			clear(pending)
			if err := w.opts.OnChange(ctx, changed); err != nil {
				w.report(err)
			}
		}
	}
}

// addTree watches root and every subdirectory Descend accepts.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	if err := fw.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	if w.opts.Descend == nil {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == root {
			return nil
		}
		if !w.opts.Descend(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.opts.Match == nil || w.opts.Match(ev.Name)
}

func (w *Watcher) report(err error) {
	if w.opts.OnError != nil {
		w.opts.OnError(err)
	}
}
