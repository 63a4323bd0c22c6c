// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classification

import "fmt"

// Level is a document sensitivity level.
//
// Values are ordered by sensitivity: a larger value is more sensitive.
// The zero value is not a level; use ParseLevel or the named constants.
type Level uint8

const (
	Public Level = iota + 1
	Restricted
	Secret
	TopSecret
)

// Textual names as persisted in the document property. Matching is
// case-sensitive.
const (
	NameTopSecret  = "TopSecret"
	NameSecret     = "Secret"
	NameRestricted = "Restricted"
	NamePublic     = "Public"
)

// Entry is one row of the level catalog.
type Entry struct {
	Level Level
	Name  string
	Label string
	Color RGB
}

// entries is indexed by Level; slot 0 is unused.
var entries = [...]Entry{
	{},
	{Level: Public, Name: NamePublic, Label: "Public", Color: RGB{0x00, 0x80, 0x00}},
	{Level: Restricted, Name: NameRestricted, Label: "Restricted", Color: RGB{0xFF, 0xA5, 0x00}},
	{Level: Secret, Name: NameSecret, Label: "Secret", Color: RGB{0xFF, 0x00, 0x00}},
	{Level: TopSecret, Name: NameTopSecret, Label: "Top Secret", Color: RGB{0x8B, 0x00, 0x00}},
}

// Valid reports whether l is one of the declared levels.
func (l Level) Valid() bool {
	return l >= Public && l <= TopSecret
}

// entry returns the catalog row for l. An invalid level can only be
// produced by an unchecked conversion and is a programming error.
func (l Level) entry() Entry {
	if !l.Valid() {
		panic(fmt.Sprintf("classification: invalid level %d", uint8(l)))
	}
	return entries[l]
}

// String returns the persisted textual name of the level.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
	return entries[l].Name
}

// Label returns the English display label.
func (l Level) Label() string {
	return l.entry().Label
}

// Color returns the display color of the level.
func (l Level) Color() RGB {
	return l.entry().Color
}

// Entry returns the full catalog row for the level.
func (l Level) Entry() Entry {
	return l.entry()
}

// Compare returns -1 if l is less sensitive than other, 0 if equal and 1
// if more sensitive.
func (l Level) Compare(other Level) int {
	switch {
	case l < other:
		return -1
	case l > other:
		return 1
	default:
		return 0
	}
}

// MoreSensitiveThan reports whether l ranks strictly above other.
func (l Level) MoreSensitiveThan(other Level) bool {
	return l > other
}

// Levels returns every level, most sensitive first.
func Levels() []Level {
	return []Level{TopSecret, Secret, Restricted, Public}
}

// Entries returns the catalog rows, most sensitive first.
func Entries() []Entry {
	out := make([]Entry, 0, len(entries)-1)
	for _, l := range Levels() {
		out = append(out, entries[l])
	}
	return out
}

// LeastSensitive is the level offered when a document has none yet.
func LeastSensitive() Level {
	return Public
}

// ParseLevel parses a persisted textual name. Matching is exact and
// case-sensitive; anything else reports false.
func ParseLevel(s string) (Level, bool) {
	switch s {
	case NameTopSecret:
		return TopSecret, true
	case NameSecret:
		return Secret, true
	case NameRestricted:
		return Restricted, true
	case NamePublic:
		return Public, true
	default:
		return 0, false
	}
}

// MustParseLevel parses a level name and panics on error.
// Useful for compile-time known strings in tests and defaults.
func MustParseLevel(s string) Level {
	l, ok := ParseLevel(s)
	if !ok {
		panic(fmt.Sprintf("classification: unknown level %q", s))
	}
	return l
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("classification: invalid level %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("classification: unknown level %q", string(text))
	}
	*l = parsed
	return nil
}
