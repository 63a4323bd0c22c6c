// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lifecycle

import (
	"context"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
)

// Store persists the classification of a document.
type Store interface {
	// Read returns the stored level. Missing, unreadable and unparseable
	// values all report ok=false.
	Read(ctx context.Context, doc document.Document) (level classification.Level, ok bool)

	// Write replaces any stored level. It must succeed when none exists.
	Write(ctx context.Context, doc document.Document, level classification.Level) error
}

// Selector asks the user for a level. current is the preselected level;
// hasCurrent reports whether it came from the document rather than the
// default. ok=false means the user cancelled.
type Selector interface {
	Select(ctx context.Context, current classification.Level, hasCurrent bool) (level classification.Level, ok bool, err error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, current classification.Level, hasCurrent bool) (classification.Level, bool, error)

// Select implements Selector.
func (f SelectorFunc) Select(ctx context.Context, current classification.Level, hasCurrent bool) (classification.Level, bool, error) {
	return f(ctx, current, hasCurrent)
}

// Painter regenerates the watermarks of a document.
type Painter interface {
	Apply(ctx context.Context, doc document.Document, level classification.Level) error
}
