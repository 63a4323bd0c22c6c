// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classification

import (
	"fmt"

	"golang.org/x/text/language"
)

// Catalog resolves the wording used when a level is rendered for a locale.
// Colors are locale independent.
type Catalog struct {
	tag          language.Tag
	labels       [len(entries)]string
	classPattern string
	editorPrefix string
}

var (
	english = &Catalog{
		tag:          language.English,
		labels:       [len(entries)]string{"", "Public", "Restricted", "Secret", "Top Secret"},
		classPattern: "Classification: (%s)",
		editorPrefix: "Last edited by: ",
	}
	arabic = &Catalog{
		tag:          language.Arabic,
		labels:       [len(entries)]string{"", "عام", "مقيّد", "سري", "سري للغاية"},
		classPattern: "التصنيف : (%s)",
		editorPrefix: "آخر من عدّل: ",
	}

	supported = []language.Tag{language.English, language.Arabic}
	matcher   = language.NewMatcher(supported)
	catalogs  = []*Catalog{english, arabic}
)

// DefaultCatalog returns the English catalog.
func DefaultCatalog() *Catalog {
	return english
}

// CatalogFor returns the catalog best matching a BCP-47 locale string.
// Unknown or malformed locales fall back to English.
func CatalogFor(locale string) *Catalog {
	if locale == "" {
		return english
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return english
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return english
	}
	return catalogs[idx]
}

// SupportedLocales lists the locales with a dedicated catalog.
func SupportedLocales() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		out[i] = t.String()
	}
	return out
}

// Tag returns the catalog's language.
func (c *Catalog) Tag() language.Tag {
	return c.tag
}

// Label returns the display label of l in this catalog.
func (c *Catalog) Label(l Level) string {
	l.entry() // panics on invalid levels, same as Level.Label
	return c.labels[l]
}

// Color returns the display color of l.
func (c *Catalog) Color(l Level) RGB {
	return l.Color()
}

// ClassificationText renders the classification watermark text,
// e.g. "Classification: (Restricted)".
func (c *Catalog) ClassificationText(l Level) string {
	return fmt.Sprintf(c.classPattern, c.Label(l))
}

// EditorText renders the last-editor watermark text from an already
// formatted timestamp.
func (c *Catalog) EditorText(editor, stamp string) string {
	return c.editorPrefix + editor + " — " + stamp
}
