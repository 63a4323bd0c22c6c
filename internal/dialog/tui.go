// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/classmark/internal/classification"
)

// TUISelector runs the dialog as a bubbletea program.
type TUISelector struct {
	Title   string
	Catalog *classification.Catalog
	// Input and Output default to stdin and stderr so stdout stays
	// available for command output.
	Input  io.Reader
	Output io.Writer
}

// Select implements lifecycle.Selector.
func (s *TUISelector) Select(ctx context.Context, current classification.Level, hasCurrent bool) (classification.Level, bool, error) {
	in, out := s.Input, s.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}

	m := NewModel(s.Title, s.Catalog, current, hasCurrent)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, false, fmt.Errorf("run classification dialog: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return 0, false, fmt.Errorf("classification dialog returned %T", final)
	}
	level, confirmed := fm.Result()
	return level, confirmed, nil
}
