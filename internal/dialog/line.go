// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/classmark/internal/classification"
)

// Prompter reads one line of input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// LineSelector asks for a level on a single prompt line.
type LineSelector struct {
	Catalog *classification.Catalog
	// Prompter is reused when set, e.g. the shell's line editor. Otherwise
	// a liner instance is opened for each prompt.
	Prompter Prompter
	Output   io.Writer
}

type choice int

const (
	choiceInvalid choice = iota
	choiceLevel
	choiceCancel
)

// Select implements lifecycle.Selector.
func (s *LineSelector) Select(ctx context.Context, current classification.Level, hasCurrent bool) (classification.Level, bool, error) {
	catalog := s.Catalog
	if catalog == nil {
		catalog = classification.DefaultCatalog()
	}
	out := s.Output
	if out == nil {
		out = os.Stderr
	}

	prompter := s.Prompter
	if prompter == nil {
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		prompter = line
	}

	seed := classification.LeastSensitive()
	if hasCurrent && current.Valid() {
		seed = current
	}

	levels := classification.Levels()
	fmt.Fprintln(out, "Document classification:")
	for i, l := range levels {
		marker := " "
		if l == seed {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %d) %s\n", marker, i+1, catalog.Label(l))
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		input, err := prompter.Prompt(fmt.Sprintf("Classification [%s]: ", catalog.Label(seed)))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return 0, false, nil
			}
			return 0, false, fmt.Errorf("read classification: %w", err)
		}
		level, c := parseChoice(input, seed, catalog)
		switch c {
		case choiceLevel:
			return level, true, nil
		case choiceCancel:
			return 0, false, nil
		}
		fmt.Fprintf(out, "Unknown classification %q. Enter 1-%d, a level name, or \"cancel\".\n", strings.TrimSpace(input), len(levels))
	}
}

// parseChoice interprets one answer. An empty answer confirms the seed.
func parseChoice(input string, seed classification.Level, catalog *classification.Catalog) (classification.Level, choice) {
	s := strings.TrimSpace(input)
	if s == "" {
		return seed, choiceLevel
	}
	switch strings.ToLower(s) {
	case "q", "quit", "cancel", "c":
		return 0, choiceCancel
	}

	levels := classification.Levels()
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(levels) {
			return levels[n-1], choiceLevel
		}
		return 0, choiceInvalid
	}
	for _, l := range levels {
		if strings.EqualFold(s, l.String()) || strings.EqualFold(s, l.Label()) || s == catalog.Label(l) {
			return l, choiceLevel
		}
	}
	return 0, choiceInvalid
}
