// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// DefaultDebounce is the quiet period before a change is applied.
const DefaultDebounce = 250 * time.Millisecond

// Watcher marks watched files dirty when they change on disk.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	onChange func(*File)

	mu      sync.Mutex
	files   map[string]*File     // path -> file
	dirs    map[string]int       // directory -> watched file count
	pending map[string]time.Time // path -> last event

	logEvery rate.Sometimes

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts a watcher. onChange, if set, runs after a file was
// marked dirty.
func NewWatcher(debounce time.Duration, logger *slog.Logger, onChange func(*File)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		logger:   logger.With("component", "watcher"),
		onChange: onChange,
		files:    make(map[string]*File),
		dirs:     make(map[string]int),
		pending:  make(map[string]time.Time),
		logEvery: rate.Sometimes{First: 5, Interval: 10 * time.Second},
		ctx:      ctx,
		cancel:   cancel,
	}
	w.wg.Add(2)
	go w.processEvents()
	go w.processPending()
	return w, nil
}

// Add watches f. Untitled files are ignored.
func (w *Watcher) Add(f *File) error {
	path := f.Path()
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; ok {
		return nil
	}
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[path] = f
	return nil
}

// Remove stops watching f.
func (w *Watcher) Remove(f *File) {
	path := f.Path()
	if path == "" {
		return
	}
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; !ok {
		return
	}
	delete(w.files, path)
	delete(w.pending, path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.fs.Remove(dir)
	}
}

// Len returns the number of watched files.
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.files)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if _, watched := w.files[event.Name]; watched {
				w.pending[event.Name] = time.Now()
			}
			w.mu.Unlock()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logEvery.Do(func() {
				w.logger.Warn("file watcher error", "error", err)
			})
		}
	}
}

func (w *Watcher) processPending() {
	defer w.wg.Done()
	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.flush(time.Now())
		}
	}
}

// flush applies every pending change older than the debounce period.
func (w *Watcher) flush(now time.Time) {
	var ready []*File
	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) < w.debounce {
			continue
		}
		delete(w.pending, path)
		if f, ok := w.files[path]; ok {
			ready = append(ready, f)
		}
	}
	w.mu.Unlock()

	for _, f := range ready {
		info, err := os.Stat(f.Path())
		if err != nil {
			continue
		}
		if f.noteExternalChange(info.ModTime()) {
			w.logEvery.Do(func() {
				w.logger.Info("document changed on disk", "path", f.Path())
			})
			if w.onChange != nil {
				w.onChange(f)
			}
		}
	}
}
