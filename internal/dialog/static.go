// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"context"

	"github.com/jeranaias/classmark/internal/classification"
)

// StaticSelector answers every prompt with Level. A zero Level cancels.
// It stands for a choice the user already made, e.g. "label --level Secret".
type StaticSelector struct {
	Level classification.Level
}

// Select implements lifecycle.Selector.
func (s StaticSelector) Select(ctx context.Context, _ classification.Level, _ bool) (classification.Level, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if !s.Level.Valid() {
		return 0, false, nil
	}
	return s.Level, true, nil
}
