// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classification

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RGB is an opaque 24-bit color. Transparency is carried separately by
// whatever renders the color.
type RGB struct {
	R, G, B uint8
}

// Gray is the neutral color used for editor watermarks.
var Gray = RGB{0x88, 0x88, 0x88}

// Hex returns the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// OLE returns the color packed the way office hosts expect it (0x00BBGGRR).
func (c RGB) OLE() int32 {
	return int32(c.R) | int32(c.G)<<8 | int32(c.B)<<16
}

// Lipgloss returns the color for terminal rendering.
func (c RGB) Lipgloss() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// Luminance returns the perceived brightness in [0, 1] (Rec. 601 weights).
func (c RGB) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return c.Hex()
}

// ParseRGB parses "#RRGGBB" or "RRGGBB".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MarshalText encodes the color as "#RRGGBB".
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes "#RRGGBB".
func (c *RGB) UnmarshalText(text []byte) error {
	v, err := ParseRGB(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
