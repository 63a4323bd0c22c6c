// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watermark

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/classmark/internal/classification"
)

// Role distinguishes the two overlay families.
type Role int

const (
	RoleClassification Role = iota
	RoleEditor
)

// Shape name prefixes. A second application locates the prior set by these.
const (
	ClassificationPrefix = "ClassificationWatermark_"
	EditorPrefix         = "EditorWatermark_"
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleClassification:
		return "Classification"
	case RoleEditor:
		return "Editor"
	default:
		return "Role(" + strconv.Itoa(int(r)) + ")"
	}
}

// Prefix returns the shape name prefix for the role.
func (r Role) Prefix() string {
	if r == RoleEditor {
		return EditorPrefix
	}
	return ClassificationPrefix
}

// Prefixes lists every prefix owned by this package.
func Prefixes() []string {
	return []string{ClassificationPrefix, EditorPrefix}
}

// Owned reports whether a shape name belongs to a watermark set.
func Owned(name string) bool {
	return strings.HasPrefix(name, ClassificationPrefix) || strings.HasPrefix(name, EditorPrefix)
}

// Point is a position in the surface's units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Margins is the page-margin geometry of one page.
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Descriptor describes one text overlay.
type Descriptor struct {
	Role     Role               `json:"role"`
	Ordinal  int                `json:"ordinal"`
	Text     string             `json:"text"`
	Color    classification.RGB `json:"color"`
	FontFace string             `json:"font_face"`
	FontSize float64            `json:"font_size"`
	Bold     bool               `json:"bold"`
	Rotation float64            `json:"rotation"`
	// Transparency is the fill transparency in [0,1]; 0 is opaque and 1 is
	// invisible.
	Transparency float64 `json:"transparency"`
	// Offset is relative to the top-left margin; Position is absolute.
	Offset     Point `json:"offset"`
	Position   Point `json:"position"`
	SendBehind bool  `json:"send_behind"`
	LockAspect bool  `json:"lock_aspect"`
}

// Name returns the stable shape name, e.g. "EditorWatermark_2".
func (d Descriptor) Name() string {
	return d.Role.Prefix() + strconv.Itoa(d.Ordinal)
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s %q at (%.0f,%.0f) %s", d.Name(), d.Text, d.Position.X, d.Position.Y, d.Color.Hex())
}

// ParseName splits a shape name into role and ordinal.
func ParseName(name string) (Role, int, bool) {
	for _, r := range []Role{RoleClassification, RoleEditor} {
		if rest, ok := strings.CutPrefix(name, r.Prefix()); ok {
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return 0, 0, false
			}
			return r, n, true
		}
	}
	return 0, 0, false
}
