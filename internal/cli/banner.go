// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// banner.go - Full-width classification banner framing document output.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/classmark/internal/classification"
)

const (
	bannerBlock        = "█"
	bannerCompactWidth = 40
)

// Banner renders a document's classification as a single full-width line.
type Banner struct {
	catalog *classification.Catalog
	level   classification.Level
	width   int
}

// NewBanner returns a banner for level. An invalid level renders nothing.
func NewBanner(catalog *classification.Catalog, level classification.Level, width int) *Banner {
	return &Banner{catalog: catalog, level: level, width: width}
}

func (b *Banner) style() lipgloss.Style {
	bg := b.catalog.Color(b.level)
	fg := lipgloss.Color("#FFFFFF")
	if bg.Luminance() > 0.5 {
		fg = lipgloss.Color("#000000")
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(fg).
		Background(bg.Lipgloss()).
		Width(b.width).
		MaxWidth(b.width).
		Align(lipgloss.Center)
}

// View renders the banner, falling back to the compact form on narrow
// terminals.
//
//	████████ Top Secret ████████
func (b *Banner) View() string {
	if !b.level.Valid() {
		return ""
	}
	if b.width < bannerCompactWidth {
		return b.ViewCompact()
	}
	text := " " + b.catalog.Label(b.level) + " "
	side := (b.width - lipgloss.Width(text)) / 2
	if side < 4 {
		return b.ViewCompact()
	}
	content := strings.Repeat(bannerBlock, side) + text + strings.Repeat(bannerBlock, side)
	if extra := b.width - lipgloss.Width(content); extra > 0 {
		content += strings.Repeat(bannerBlock, extra)
	}
	if !ColorsEnabled() {
		return content
	}
	return b.style().Render(content)
}

// ViewCompact renders "== Label ==" for narrow terminals and plain output.
func (b *Banner) ViewCompact() string {
	if !b.level.Valid() {
		return ""
	}
	content := "== " + b.catalog.Label(b.level) + " =="
	if !ColorsEnabled() {
		return content
	}
	return b.style().Render(content)
}
