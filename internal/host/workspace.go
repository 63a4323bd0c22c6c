// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/jeranaias/classmark/internal/document"
	"github.com/jeranaias/classmark/internal/lifecycle"
	"github.com/jeranaias/classmark/internal/session"
)

// ErrNoSuchDocument is returned when a reference matches no open document.
var ErrNoSuchDocument = errors.New("no such open document")

// Controller is the part of lifecycle.Controller a workspace drives.
type Controller interface {
	OnCreate(ctx context.Context, doc document.Document)
	OnOpen(ctx context.Context, doc document.Document)
	OnBeforeSave(ctx context.Context, doc document.Document) (bool, error)
	OnBeforeClose(ctx context.Context, doc document.Document) (bool, error)
	State(doc document.Document) lifecycle.State
	Tracker() *session.Tracker
}

// Mover re-keys stored data when an untitled document gets a path.
type Mover interface {
	Move(ctx context.Context, from, to document.Document) error
}

// Workspace is the set of documents open in one session.
type Workspace struct {
	ctrl    Controller
	mover   Mover
	watcher *Watcher
	logger  *slog.Logger

	mu   sync.Mutex
	docs []*File
}

// NewWorkspace returns an empty workspace. mover and watcher may be nil.
func NewWorkspace(ctrl Controller, mover Mover, watcher *Watcher, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		ctrl:    ctrl,
		mover:   mover,
		watcher: watcher,
		logger:  logger.With("component", "workspace"),
	}
}

// Docs returns the open documents in opening order.
func (w *Workspace) Docs() []*File {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*File(nil), w.docs...)
}

// State reports the prompt state of f.
func (w *Workspace) State(f *File) lifecycle.State {
	return w.ctrl.State(f)
}

// New creates a document and delivers the create event.
func (w *Workspace) New(ctx context.Context, path string) (*File, error) {
	if path != "" {
		if f, _ := w.Lookup(path); f != nil {
			return nil, fmt.Errorf("%s is already open", path)
		}
	}
	f, err := NewFile(path)
	if err != nil {
		return nil, err
	}
	w.add(f)
	w.ctrl.OnCreate(ctx, f)
	return f, nil
}

// Open opens path, or returns the already open document for it.
func (w *Workspace) Open(ctx context.Context, path string) (*File, error) {
	if f, _ := w.Lookup(path); f != nil {
		return f, nil
	}
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	w.add(f)
	w.ctrl.OnOpen(ctx, f)
	return f, nil
}

func (w *Workspace) add(f *File) {
	w.mu.Lock()
	w.docs = append(w.docs, f)
	w.mu.Unlock()
	if w.watcher != nil {
		if err := w.watcher.Add(f); err != nil {
			w.logger.Debug("watch failed", "path", f.Path(), "error", err)
		}
	}
}

// Save runs the save gate and writes f when it passes.
func (w *Workspace) Save(ctx context.Context, f *File) (bool, error) {
	if f.Path() == "" {
		return false, ErrUntitled
	}
	proceed, err := w.ctrl.OnBeforeSave(ctx, f)
	if err != nil || !proceed {
		return false, err
	}
	if err := f.Save(); err != nil {
		return false, err
	}
	return true, nil
}

// SaveAs runs the save gate for an untitled document, then gives it path
// and moves its stored classification and overlays to the new key.
func (w *Workspace) SaveAs(ctx context.Context, f *File, path string) (bool, error) {
	if f.Path() != "" {
		return false, fmt.Errorf("%s already has a path", f.Name())
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolve path: %w", err)
	}
	if existing, _ := w.Lookup(abs); existing != nil {
		return false, fmt.Errorf("%s is already open", path)
	}
	untitled := snapshot{id: f.InstanceID()}

	proceed, err := w.ctrl.OnBeforeSave(ctx, f)
	if err != nil || !proceed {
		return false, err
	}
	if err := f.SaveAs(abs); err != nil {
		return false, err
	}

	if w.mover != nil {
		if err := w.mover.Move(ctx, untitled, f); err != nil {
			w.logger.Warn("moving classification to saved path failed", "path", abs, "error", err)
		}
	}
	tracker := w.ctrl.Tracker()
	tracker.Forget(session.KeyOf(untitled))
	tracker.MarkPrompted(session.KeyOf(f))

	if w.watcher != nil {
		if err := w.watcher.Add(f); err != nil {
			w.logger.Debug("watch failed", "path", abs, "error", err)
		}
	}
	return true, nil
}

// Close runs the close gate and forgets f when it passes.
func (w *Workspace) Close(ctx context.Context, f *File) (bool, error) {
	proceed, err := w.ctrl.OnBeforeClose(ctx, f)
	if err != nil || !proceed {
		return false, err
	}
	w.remove(f)
	return true, nil
}

// Discard forgets f without running the close gate.
func (w *Workspace) Discard(f *File) {
	w.remove(f)
}

func (w *Workspace) remove(f *File) {
	w.mu.Lock()
	for i, d := range w.docs {
		if d == f {
			w.docs = append(w.docs[:i], w.docs[i+1:]...)
			break
		}
	}
	w.mu.Unlock()
	if w.watcher != nil {
		w.watcher.Remove(f)
	}
	w.ctrl.Tracker().Forget(session.KeyOf(f))
}

// CloseAll closes every document and returns those whose close gate did
// not pass.
func (w *Workspace) CloseAll(ctx context.Context) ([]*File, error) {
	var (
		blocked []*File
		errs    []error
	)
	for _, f := range w.Docs() {
		ok, err := w.Close(ctx, f)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name(), err))
		}
		if !ok {
			blocked = append(blocked, f)
		}
	}
	return blocked, errors.Join(errs...)
}

// Lookup finds an open document by 1-based index, path, file name or
// untitled name.
func (w *Workspace) Lookup(ref string) (*File, error) {
	ref = strings.TrimSpace(ref)
	docs := w.Docs()

	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		if n >= 1 && n <= len(docs) {
			return docs[n-1], nil
		}
		return nil, fmt.Errorf("%w: #%d", ErrNoSuchDocument, n)
	}

	key := document.CleanPath(ref)
	for _, f := range docs {
		if p := f.Path(); p != "" && document.CleanPath(p) == key {
			return f, nil
		}
	}
	var match *File
	for _, f := range docs {
		if f.Name() == ref {
			if match != nil {
				return nil, fmt.Errorf("%q is ambiguous; use the document number", ref)
			}
			match = f
		}
	}
	if match != nil {
		return match, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchDocument, ref)
}

// snapshot stands for a document under an identity it no longer has.
type snapshot struct {
	path string
	id   string
}

func (s snapshot) Path() string                     { return s.path }
func (s snapshot) InstanceID() string               { return s.id }
func (s snapshot) HasUnsavedChanges() (bool, error) { return false, nil }
