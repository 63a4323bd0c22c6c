// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/classmark/internal/classification"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model of the classification dialog.
type Model struct {
	title      string
	catalog    *classification.Catalog
	levels     []classification.Level
	current    classification.Level
	hasCurrent bool
	keys       KeyMap

	cursor    int
	confirmed bool
	cancelled bool
	showHelp  bool
	width     int
	height    int
}

// NewModel creates a dialog with the cursor on current, or on the least
// sensitive level when hasCurrent is false.
func NewModel(title string, catalog *classification.Catalog, current classification.Level, hasCurrent bool) Model {
	if catalog == nil {
		catalog = classification.DefaultCatalog()
	}
	if title == "" {
		title = "Document Classification"
	}
	m := Model{
		title:      title,
		catalog:    catalog,
		levels:     classification.Levels(),
		current:    current,
		hasCurrent: hasCurrent && current.Valid(),
		keys:       DefaultKeyMap(),
	}
	seed := classification.LeastSensitive()
	if m.hasCurrent {
		seed = current
	}
	for i, l := range m.levels {
		if l == seed {
			m.cursor = i
		}
	}
	return m
}

// Selected returns the level under the cursor.
func (m Model) Selected() classification.Level {
	return m.levels[m.cursor]
}

// Result reports the confirmed level. ok is false unless Enter was pressed.
func (m Model) Result() (classification.Level, bool) {
	if !m.confirmed || m.cancelled {
		return 0, false
	}
	return m.Selected(), true
}

// Done reports whether the dialog finished either way.
func (m Model) Done() bool {
	return m.confirmed || m.cancelled
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Done() {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor - 1 + len(m.levels)) % len(m.levels)
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % len(m.levels)
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = len(m.levels) - 1
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		default:
			// digits move the cursor but never confirm
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'0') <= len(m.levels) {
				m.cursor = int(s[0] - '1')
			}
		}
	}
	return m, nil
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Done() {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, l := range m.levels {
		swatch := lipgloss.NewStyle().Foreground(l.Color().Lipgloss()).Render("■")
		radio := "( )"
		if i == m.cursor {
			radio = "(•)"
		}
		line := fmt.Sprintf("%d %s %s %s", i+1, radio, swatch, m.catalog.Label(l))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		if m.hasCurrent && l == m.current {
			line += mutedStyle.Render("  (current)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(m.helpLine()))

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.Selected().Color().Lipgloss()).
		Padding(1, 2).
		Render(b.String())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box + "\n"
}

func (m Model) helpLine() string {
	groups := [][]key.Binding{m.keys.ShortHelp()}
	if m.showHelp {
		groups = m.keys.FullHelp()
	}
	var lines []string
	for _, g := range groups {
		var parts []string
		for _, bnd := range g {
			h := bnd.Help()
			parts = append(parts, h.Key+" "+h.Desc)
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}
