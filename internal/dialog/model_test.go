// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/classmark/internal/classification"
)

func press(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	var tm tea.Model = m
	for _, msg := range msgs {
		tm, cmd = tm.Update(msg)
	}
	return tm.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestModelDefaultsToLeastSensitive(t *testing.T) {
	m := NewModel("", nil, 0, false)
	assert.Equal(t, classification.Public, m.Selected())

	_, ok := m.Result()
	assert.False(t, ok, "nothing is confirmed before Enter")
}

func TestModelSeedsCurrent(t *testing.T) {
	m := NewModel("", nil, classification.Secret, true)
	assert.Equal(t, classification.Secret, m.Selected())
	assert.Contains(t, m.View(), "(current)")
}

func TestModelNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want classification.Level
	}{
		{"enter confirms seed", nil, classification.Public},
		{"up from public", []tea.Msg{keyUp}, classification.Restricted},
		{"up twice", []tea.Msg{keyUp, runes("k")}, classification.Secret},
		{"down wraps to top", []tea.Msg{keyDown}, classification.TopSecret},
		{"digit jumps", []tea.Msg{runes("2")}, classification.Secret},
		{"out of range digit ignored", []tea.Msg{runes("9")}, classification.Public},
		{"home", []tea.Msg{runes("g")}, classification.TopSecret},
		{"end", []tea.Msg{runes("g"), runes("G")}, classification.Public},
		{"tab moves down", []tea.Msg{runes("1"), tea.KeyMsg{Type: tea.KeyTab}}, classification.Secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel("", nil, 0, false)
			m, cmd := press(m, append(tt.keys, keyEnter)...)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())

			level, ok := m.Result()
			require.True(t, ok)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestModelCancel(t *testing.T) {
	for _, k := range []tea.Msg{keyEsc, keyCtrlC, runes("q")} {
		m := NewModel("", nil, classification.Secret, true)
		m, cmd := press(m, keyUp, k)
		require.NotNil(t, cmd)
		_, ok := m.Result()
		assert.False(t, ok)
		assert.True(t, m.Done())
		assert.Empty(t, m.View())

		// input after completion is ignored
		m, cmd = press(m, keyEnter)
		assert.Nil(t, cmd)
		_, ok = m.Result()
		assert.False(t, ok)
	}
}

func TestModelView(t *testing.T) {
	m := NewModel("Classify report.xlsx", classification.CatalogFor("ar"), 0, false)
	view := m.View()
	assert.Contains(t, view, "Classify report.xlsx")
	assert.Contains(t, view, "سري للغاية")
	assert.Contains(t, view, "عام")
	assert.Contains(t, view, "Enter confirm")

	m, _ = press(m, runes("?"))
	assert.Contains(t, m.View(), "toggle help")

	m, _ = press(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Len(t, strings.Split(m.View(), "\n"), 30)
}

func TestTUISelectorConfirm(t *testing.T) {
	s := &TUISelector{Input: strings.NewReader("\r"), Output: io.Discard}
	level, ok, err := s.Select(context.Background(), classification.Restricted, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, classification.Restricted, level)
}

func TestTUISelectorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &TUISelector{Input: strings.NewReader(""), Output: io.Discard}
	_, ok, err := s.Select(ctx, classification.Public, false)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
