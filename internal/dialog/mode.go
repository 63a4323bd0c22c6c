// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/lifecycle"
)

// Dialog modes accepted in configuration.
const (
	ModeAuto = "auto"
	ModeTUI  = "tui"
	ModeLine = "line"
)

// Modes lists the accepted modes.
func Modes() []string {
	return []string{ModeAuto, ModeTUI, ModeLine}
}

// New returns the selector for mode. Auto picks the full-screen dialog when
// both stdin and stderr are terminals and the line prompt otherwise.
// prompter may be nil.
func New(mode string, catalog *classification.Catalog, prompter Prompter) (lifecycle.Selector, error) {
	switch mode {
	case ModeTUI:
		return &TUISelector{Catalog: catalog}, nil
	case ModeLine:
		return &LineSelector{Catalog: catalog, Prompter: prompter}, nil
	case ModeAuto, "":
		if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd())) {
			return &TUISelector{Catalog: catalog}, nil
		}
		return &LineSelector{Catalog: catalog, Prompter: prompter}, nil
	default:
		return nil, fmt.Errorf("unknown dialog mode %q (want auto, tui or line)", mode)
	}
}
