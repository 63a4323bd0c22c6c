// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docprops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
)

// DefaultProperty is the custom property holding the classification.
const DefaultProperty = "DocumentClassification"

// ErrUnsaved is returned when writing a document that has no path.
var ErrUnsaved = errors.New("document has no path")

// Store keeps the classification in a custom property of the package.
type Store struct {
	property string
	logger   *slog.Logger

	// serializes rewrites of the same process
	mu sync.Mutex
}

// NewStore returns a store using property, or DefaultProperty if empty.
func NewStore(property string, logger *slog.Logger) *Store {
	if property == "" {
		property = DefaultProperty
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{property: property, logger: logger.With("component", "docprops")}
}

// Property returns the property name in use.
func (s *Store) Property() string {
	return s.property
}

// Read returns the stored level. Any failure reads as absent.
func (s *Store) Read(ctx context.Context, doc document.Document) (classification.Level, bool) {
	path := doc.Path()
	if path == "" || ctx.Err() != nil {
		return 0, false
	}
	v, err := ReadProperty(path, s.property)
	if err != nil {
		if !errors.Is(err, ErrPropertyMissing) {
			s.logger.Debug("classification property unreadable", "path", path, "error", err)
		}
		return 0, false
	}
	level, ok := classification.ParseLevel(v)
	if !ok {
		s.logger.Debug("classification property unrecognized", "path", path, "value", v)
	}
	return level, ok
}

// Write stores level, replacing any previous value.
func (s *Store) Write(ctx context.Context, doc document.Document, level classification.Level) error {
	path := doc.Path()
	if path == "" {
		return ErrUnsaved
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := WriteProperty(path, s.property, level.String()); err != nil {
		return fmt.Errorf("write %s to %s: %w", s.property, path, err)
	}
	return nil
}
