// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/classmark/internal/classification"
)

func TestPreviewDiagonal(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	d := Descriptor{Text: "ABCD", Position: Point{X: 0, Y: 5 * pointsPerRow}, Color: classification.Gray}
	out := Preview([]Descriptor{d}, 6, 6)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "  CD  ", lines[4])
	assert.Equal(t, "AB    ", lines[5])
	for _, l := range lines {
		assert.Len(t, l, 6)
	}
}

func TestPreviewClipsAndWideRunes(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	// the wide rune fills two columns and lifts x off the top edge
	d := Descriptor{Text: "界x", Position: Point{X: 0, Y: 0}}
	out := Preview([]Descriptor{d}, 4, 1)
	assert.Equal(t, "界  ", out)

	assert.Empty(t, Preview(nil, 0, 3))

	far := Descriptor{Text: "hidden", Position: Point{X: 1000, Y: 1000}}
	assert.Equal(t, "   \n   ", Preview([]Descriptor{far}, 3, 2))
}

func TestPreviewComposedPage(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	w, h := PageSize(LetterPage.X, LetterPage.Y)
	assert.Equal(t, 87, w)
	assert.Equal(t, 56, h)

	descs := NewComposer().Compose(classification.Public, "x", sampleTime, DefaultMargins)
	out := Preview(descs, w, h)
	assert.Len(t, strings.Split(out, "\n"), h)
	assert.Contains(t, out, "Cl")
}
