// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lifecycle

import (
	"context"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
)

// RoutingStore sends documents whose path matches to InFile and everything
// else, including never-saved documents, to Fallback.
type RoutingStore struct {
	InFile   Store
	Fallback Store
	Match    func(path string) bool
}

// NewRoutingStore returns a RoutingStore.
func NewRoutingStore(inFile, fallback Store, match func(path string) bool) *RoutingStore {
	return &RoutingStore{InFile: inFile, Fallback: fallback, Match: match}
}

// For returns the store responsible for doc.
func (r *RoutingStore) For(doc document.Document) Store {
	if r.InFile != nil && r.Match != nil {
		if p := doc.Path(); p != "" && r.Match(p) {
			return r.InFile
		}
	}
	return r.Fallback
}

// Read implements Store.
func (r *RoutingStore) Read(ctx context.Context, doc document.Document) (classification.Level, bool) {
	return r.For(doc).Read(ctx, doc)
}

// Write implements Store.
func (r *RoutingStore) Write(ctx context.Context, doc document.Document, level classification.Level) error {
	return r.For(doc).Write(ctx, doc, level)
}
