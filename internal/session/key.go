// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/classmark/internal/document"
)

// UnsavedPrefix prefixes the key of a document that has no storage path.
const UnsavedPrefix = document.UnsavedPrefix

// KeyOf derives the session key of doc.
//
// Saved documents are keyed by their cleaned, NFC-normalized, lower-cased
// path so that two spellings of the same file share a flag. The key only
// names prompt state; stored classifications use document.RecordKey. Documents that
// were never saved are keyed by their instance identifier.
func KeyOf(doc document.Document) string {
	if p := strings.TrimSpace(doc.Path()); p != "" {
		return PathKey(p)
	}
	return UnsavedPrefix + doc.InstanceID()
}

// PathKey normalizes a storage path into a session key.
func PathKey(path string) string {
	cleaned := filepath.Clean(strings.TrimSpace(path))
	// Casers are stateful; build one per call.
	return cases.Lower(language.Und).String(norm.NFC.String(cleaned))
}
