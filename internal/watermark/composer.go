// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"time"

	"github.com/jeranaias/classmark/internal/classification"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultFontFace is the face used for every overlay.
	DefaultFontFace = "Segoe UI"

	// TimestampLayout renders the edit time as YYYY/MM/DD HH:MM.
	TimestampLayout = "2006/01/02 15:04"

	// Rotation applied to every overlay, in degrees clockwise.
	Rotation = 315

	ClassificationFontSize     = 28
	ClassificationTransparency = 0.65
	EditorFontSize             = 18
	EditorTransparency         = 0.80
)

// Anchor offsets from the top-left margin. The two sets interleave without
// touching at the sizes above.
var (
	ClassificationOffsets = []Point{{60, 60}, {320, 360}}
	EditorOffsets         = []Point{{100, 30}, {360, 230}, {120, 420}}
)

// ShapesPerPage is the number of overlays a single application leaves on a page.
func ShapesPerPage() int {
	return len(ClassificationOffsets) + len(EditorOffsets)
}

// =============================================================================
// COMPOSER
// =============================================================================

// Composer builds overlay descriptors. It holds only presentation settings
// and is safe for concurrent use.
type Composer struct {
	catalog     *classification.Catalog
	fontFace    string
	editorColor classification.RGB
}

// Option configures a Composer.
type Option func(*Composer)

// WithCatalog selects the wording used for labels and text prefixes.
func WithCatalog(c *classification.Catalog) Option {
	return func(cp *Composer) {
		if c != nil {
			cp.catalog = c
		}
	}
}

// WithFontFace overrides the overlay font face.
func WithFontFace(face string) Option {
	return func(cp *Composer) {
		if face != "" {
			cp.fontFace = face
		}
	}
}

// WithEditorColor overrides the editor overlay color. The color stays the
// same for every level.
func WithEditorColor(c classification.RGB) Option {
	return func(cp *Composer) {
		cp.editorColor = c
	}
}

// NewComposer returns a composer with the default English wording,
// Segoe UI and gray editor overlays.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		catalog:     classification.DefaultCatalog(),
		fontFace:    DefaultFontFace,
		editorColor: classification.Gray,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the wording in use.
func (c *Composer) Catalog() *classification.Catalog {
	return c.catalog
}

// Compose returns the five overlays for one page: the classification set
// first, then the editor set. The result depends only on its arguments.
func (c *Composer) Compose(level classification.Level, editor string, ts time.Time, m Margins) []Descriptor {
	out := make([]Descriptor, 0, ShapesPerPage())

	classText := c.catalog.ClassificationText(level)
	classColor := level.Color()
	for i, off := range ClassificationOffsets {
		out = append(out, c.descriptor(RoleClassification, i, classText, classColor, m, off))
	}

	editorText := c.catalog.EditorText(editor, ts.Format(TimestampLayout))
	for i, off := range EditorOffsets {
		out = append(out, c.descriptor(RoleEditor, i, editorText, c.editorColor, m, off))
	}
	return out
}

func (c *Composer) descriptor(role Role, ordinal int, text string, color classification.RGB, m Margins, off Point) Descriptor {
	d := Descriptor{
		Role:       role,
		Ordinal:    ordinal,
		Text:       text,
		Color:      color,
		FontFace:   c.fontFace,
		Rotation:   Rotation,
		Offset:     off,
		Position:   Point{X: m.Left + off.X, Y: m.Top + off.Y},
		SendBehind: true,
		LockAspect: true,
	}
	switch role {
	case RoleClassification:
		d.FontSize = ClassificationFontSize
		d.Bold = true
		d.Transparency = ClassificationTransparency
	case RoleEditor:
		d.FontSize = EditorFontSize
		d.Transparency = EditorTransparency
	}
	return d
}
