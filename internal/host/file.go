// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/classmark/internal/docprops"
)

var (
	// ErrUntitled is returned when saving a document that has no path.
	ErrUntitled = errors.New("document has no path; use save-as")

	// ErrPackageEdit is returned when appending text to an Office package.
	ErrPackageEdit = errors.New("office documents cannot be edited as text")

	// ErrCreatePackage is returned when creating an Office package from scratch.
	ErrCreatePackage = errors.New("office documents must already exist; open one instead")
)

// File is an open document.
type File struct {
	mu       sync.Mutex
	path     string
	id       string
	dirty    bool
	pending  []byte
	savedMod time.Time
}

// NewFile returns a new, unsaved document. path may be empty for an
// untitled document; otherwise it is made absolute.
func NewFile(path string) (*File, error) {
	f := &File{id: uuid.NewString()}
	if path == "" {
		return f, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if docprops.Supports(abs) {
		return nil, ErrCreatePackage
	}
	f.path = abs
	f.dirty = true
	return f, nil
}

// OpenFile opens an existing file as a clean document.
func OpenFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: is a directory", path)
	}
	return &File{path: abs, id: uuid.NewString(), savedMod: info.ModTime()}, nil
}

// Path implements document.Document.
func (f *File) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// InstanceID implements document.Document.
func (f *File) InstanceID() string {
	return f.id
}

// HasUnsavedChanges implements document.Document.
func (f *File) HasUnsavedChanges() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty, nil
}

// Name returns the base name, or "untitled-<id>" for untitled documents.
func (f *File) Name() string {
	if p := f.Path(); p != "" {
		return filepath.Base(p)
	}
	return "untitled-" + f.id[:8]
}

// IsPackage reports whether the file is an Office package.
func (f *File) IsPackage() bool {
	return docprops.Supports(f.Path())
}

// MarkDirty flags the document as modified.
func (f *File) MarkDirty() {
	f.mu.Lock()
	f.dirty = true
	f.mu.Unlock()
}

// Append queues text to be written on the next save.
func (f *File) Append(text string) error {
	if f.IsPackage() {
		return ErrPackageEdit
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, text...)
	f.pending = append(f.pending, '\n')
	f.dirty = true
	return nil
}

// Save writes queued text and clears the modified flag.
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.path == "" {
		return ErrUntitled
	}
	if len(f.pending) > 0 || !exists(f.path) {
		if docprops.Supports(f.path) {
			return ErrCreatePackage
		}
		out, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("save %s: %w", f.path, err)
		}
		if _, err := out.Write(f.pending); err != nil {
			out.Close()
			return fmt.Errorf("save %s: %w", f.path, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("save %s: %w", f.path, err)
		}
		f.pending = nil
	}
	f.dirty = false
	if info, err := os.Stat(f.path); err == nil {
		f.savedMod = info.ModTime()
	}
	return nil
}

// SaveAs gives an untitled document a path and saves it.
func (f *File) SaveAs(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if docprops.Supports(abs) {
		return ErrCreatePackage
	}
	f.mu.Lock()
	f.path = abs
	f.mu.Unlock()
	return f.Save()
}

// noteExternalChange marks the file dirty if its modification time moved
// past the last save. It reports whether it did.
func (f *File) noteExternalChange(mod time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !mod.After(f.savedMod) {
		return false
	}
	f.savedMod = mod
	f.dirty = true
	return true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
