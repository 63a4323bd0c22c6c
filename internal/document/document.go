// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document defines the host-side view of an edited document that
// the classification core relies on.
package document

import (
	"path/filepath"
	"strings"
)

// Document is the narrow interface a host editor exposes for each open
// document.
type Document interface {
	// Path returns the canonical storage path, or "" if the document has
	// never been saved.
	Path() string

	// InstanceID returns an identifier that is stable for the lifetime of
	// this in-memory document instance.
	InstanceID() string

	// HasUnsavedChanges reports whether the document was modified since it
	// was last saved. Callers treat an error as "no unsaved changes".
	HasUnsavedChanges() (bool, error)
}

// Saved reports whether doc has a storage path.
func Saved(doc Document) bool {
	return doc != nil && doc.Path() != ""
}

// UnsavedPrefix prefixes the record key of a document that has no storage
// path.
const UnsavedPrefix = "unsaved_"

// RecordKey identifies the classification record owned by doc: the
// cleaned absolute path, byte for byte, or UnsavedPrefix plus the instance
// identifier for a document that was never saved.
func RecordKey(doc Document) string {
	if p := strings.TrimSpace(doc.Path()); p != "" {
		return CleanPath(p)
	}
	return UnsavedPrefix + doc.InstanceID()
}

// CleanPath returns the cleaned absolute form of path. Case is preserved.
func CleanPath(path string) string {
	path = strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
