// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lifecycle

import (
	"context"
	"sync"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
)

// MemoryStore keeps raw property values in memory, keyed by
// document.RecordKey. Values that do not parse read as absent.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	// WriteErr, when non-nil, is returned by every Write.
	WriteErr error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// SetRaw stores an arbitrary property value, bypassing validation.
func (s *MemoryStore) SetRaw(doc document.Document, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[document.RecordKey(doc)] = value
}

// Raw returns the stored property value.
func (s *MemoryStore) Raw(doc document.Document) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[document.RecordKey(doc)]
	return v, ok
}

// Read implements Store.
func (s *MemoryStore) Read(_ context.Context, doc document.Document) (classification.Level, bool) {
	v, ok := s.Raw(doc)
	if !ok {
		return 0, false
	}
	return classification.ParseLevel(v)
}

// Write implements Store.
func (s *MemoryStore) Write(_ context.Context, doc document.Document, level classification.Level) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, document.RecordKey(doc))
	s.values[document.RecordKey(doc)] = level.String()
	return nil
}
