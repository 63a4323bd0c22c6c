// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/classmark/internal/classification"
)

var sampleTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func TestComposeTopSecret(t *testing.T) {
	c := NewComposer()
	m := Margins{Left: 10, Top: 20}
	descs := c.Compose(classification.TopSecret, "A. Example", sampleTime, m)
	require.Len(t, descs, 5)

	for i, d := range descs[:2] {
		assert.Equal(t, RoleClassification, d.Role)
		assert.Equal(t, i, d.Ordinal)
		assert.Equal(t, "Classification: (Top Secret)", d.Text)
		assert.Equal(t, classification.RGB{R: 0x8B}, d.Color)
		assert.Equal(t, 28.0, d.FontSize)
		assert.True(t, d.Bold)
		assert.Equal(t, 0.65, d.Transparency)
	}
	for i, d := range descs[2:] {
		assert.Equal(t, RoleEditor, d.Role)
		assert.Equal(t, i, d.Ordinal)
		assert.Equal(t, "Last edited by: A. Example — 2024/01/01 09:00", d.Text)
		assert.Equal(t, classification.Gray, d.Color)
		assert.Equal(t, 18.0, d.FontSize)
		assert.False(t, d.Bold)
		assert.Equal(t, 0.80, d.Transparency)
	}
	for _, d := range descs {
		assert.Equal(t, 315.0, d.Rotation)
		assert.Equal(t, "Segoe UI", d.FontFace)
		assert.True(t, d.SendBehind)
		assert.True(t, d.LockAspect)
		assert.Equal(t, Point{X: m.Left + d.Offset.X, Y: m.Top + d.Offset.Y}, d.Position)
	}

	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name()
	}
	assert.Equal(t, []string{
		"ClassificationWatermark_0", "ClassificationWatermark_1",
		"EditorWatermark_0", "EditorWatermark_1", "EditorWatermark_2",
	}, names)
	assert.Equal(t, Point{60, 60}, descs[0].Offset)
	assert.Equal(t, Point{320, 360}, descs[1].Offset)
	assert.Equal(t, Point{100, 30}, descs[2].Offset)
	assert.Equal(t, Point{360, 230}, descs[3].Offset)
	assert.Equal(t, Point{120, 420}, descs[4].Offset)
}

func TestComposeLevelColors(t *testing.T) {
	c := NewComposer()
	tests := []struct {
		level classification.Level
		text  string
		hex   string
	}{
		{classification.TopSecret, "Classification: (Top Secret)", "#8B0000"},
		{classification.Secret, "Classification: (Secret)", "#FF0000"},
		{classification.Restricted, "Classification: (Restricted)", "#FFA500"},
		{classification.Public, "Classification: (Public)", "#008000"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			descs := c.Compose(tt.level, "x", sampleTime, DefaultMargins)
			assert.Equal(t, tt.text, descs[0].Text)
			assert.Equal(t, tt.hex, descs[0].Color.Hex())
			// editor overlays never take the level color
			assert.Equal(t, "#888888", descs[2].Color.Hex())
		})
	}
}

func TestComposeOptions(t *testing.T) {
	c := NewComposer(
		WithCatalog(classification.CatalogFor("ar")),
		WithFontFace("Tahoma"),
		WithEditorColor(classification.RGB{R: 0x40, G: 0x40, B: 0x40}),
	)
	descs := c.Compose(classification.Secret, "م", sampleTime, DefaultMargins)
	assert.Equal(t, "التصنيف : (سري)", descs[0].Text)
	assert.Equal(t, "آخر من عدّل: م — 2024/01/01 09:00", descs[2].Text)
	assert.Equal(t, "Tahoma", descs[0].FontFace)
	assert.Equal(t, "#404040", descs[4].Color.Hex())

	// empty values keep the defaults
	c = NewComposer(WithCatalog(nil), WithFontFace(""))
	assert.Equal(t, DefaultFontFace, c.Compose(classification.Public, "x", sampleTime, Margins{})[0].FontFace)
	assert.Equal(t, classification.DefaultCatalog(), c.Catalog())
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		ordinal int
		ok      bool
	}{
		{"ClassificationWatermark_1", RoleClassification, 1, true},
		{"EditorWatermark_2", RoleEditor, 2, true},
		{"EditorWatermark_", 0, 0, false},
		{"EditorWatermark_-1", 0, 0, false},
		{"Logo", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, n, ok := ParseName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.role, role)
				assert.Equal(t, tt.ordinal, n)
			}
		})
	}
	assert.True(t, Owned("ClassificationWatermark_0"))
	assert.False(t, Owned("Chart 1"))
}
