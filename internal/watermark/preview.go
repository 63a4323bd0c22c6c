// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Terminal cell size in points used by Preview.
const (
	pointsPerColumn = 7.0
	pointsPerRow    = 14.0
)

type cell struct {
	r     rune
	style int // index into styles, -1 for blank
	cont  bool
}

// Preview draws descriptors onto a width x height character page. Text runs
// diagonally upward from its anchor, approximating the 315 degree rotation.
// Later descriptors overwrite earlier ones where they cross.
func Preview(descs []Descriptor, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' ', style: -1}
		}
	}

	styles := make([]lipgloss.Style, 0, len(descs))
	for _, d := range descs {
		st := lipgloss.NewStyle().Foreground(d.Color.Lipgloss()).Bold(d.Bold)
		if d.Transparency >= EditorTransparency {
			st = st.Faint(true)
		}
		styles = append(styles, st)
		idx := len(styles) - 1

		x := int(d.Position.X / pointsPerColumn)
		y := int(d.Position.Y / pointsPerRow)
		step := 0
		for _, r := range d.Text {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if y >= 0 && y < height && x >= 0 && x+w <= width {
				grid[y][x] = cell{r: r, style: idx}
				for k := 1; k < w; k++ {
					grid[y][x+k] = cell{cont: true, style: idx}
				}
			}
			x += w
			step += w
			// two columns per row keeps the slope near 45 degrees on screen
			for step >= 2 {
				y--
				step -= 2
			}
		}
	}

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		cur := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur < 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(styles[cur].Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.cont {
				continue
			}
			if c.style != cur {
				flush()
				cur = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return b.String()
}

// PageSize returns the preview size in cells of a page measured in points.
func PageSize(widthPt, heightPt float64) (int, int) {
	return int(widthPt / pointsPerColumn), int(heightPt / pointsPerRow)
}

// LetterPage is a US Letter page in points.
var LetterPage = Point{X: 612, Y: 792}
