// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classification

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genLevel() gopter.Gen {
	return gen.OneConstOf(TopSecret, Secret, Restricted, Public)
}

// TestCatalogTotality verifies every level resolves a label, a color and a
// round-trippable name.
// Property: ParseLevel(l.String()) == l and Label/Color never panic.
func TestCatalogTotality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every level has a label, a color and a parseable name", prop.ForAll(
		func(l Level) bool {
			if l.Label() == "" {
				return false
			}
			parsed, ok := ParseLevel(l.String())
			return ok && parsed == l && l.Color() == l.Entry().Color
		},
		genLevel(),
	))

	properties.Property("distinct levels never share a label or a color", prop.ForAll(
		func(a, b Level) bool {
			if a == b {
				return a.Label() == b.Label() && a.Color() == b.Color()
			}
			return a.Label() != b.Label() && a.Color() != b.Color()
		},
		genLevel(),
		genLevel(),
	))

	properties.Property("Compare is antisymmetric", prop.ForAll(
		func(a, b Level) bool {
			return a.Compare(b) == -b.Compare(a)
		},
		genLevel(),
		genLevel(),
	))

	properties.TestingRun(t)
}

// TestParseLevelRejectsArbitraryText verifies parsing never invents a level.
// Property: ParseLevel(s) succeeds only for the four exact names.
func TestParseLevelRejectsArbitraryText(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unknown text is absent", prop.ForAll(
		func(s string) bool {
			l, ok := ParseLevel(s)
			if !ok {
				return l == 0
			}
			return s == l.String()
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
