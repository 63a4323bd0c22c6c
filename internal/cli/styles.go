// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for CLI output.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/util"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // Cyan
			MarginBottom(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(18)

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// SuccessStyle is used for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle is used for warnings and cautions
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// SeparatorStyle is used for visual separators
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// RenderSeparator renders a horizontal separator line. Default width 60.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("=", w))
}

// RenderLabel renders a field label with consistent width.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderLevel renders a level's label in its catalog color.
func RenderLevel(catalog *classification.Catalog, level classification.Level) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(catalog.Color(level).Lipgloss()).
		Render(catalog.Label(level))
}

// RenderLevelCell is RenderLevel padded or cut to width cells, for tables.
func RenderLevelCell(catalog *classification.Catalog, level classification.Level, width int) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(catalog.Color(level).Lipgloss()).
		Render(util.PadRight(catalog.Label(level), width))
}

// RenderSwatch renders a small block in c.
func RenderSwatch(c classification.RGB) string {
	if !ColorsEnabled() {
		return "[" + c.Hex() + "]"
	}
	return lipgloss.NewStyle().Background(c.Lipgloss()).Render("    ")
}
