// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package classification defines the closed vocabulary of document
// sensitivity levels and their display attributes.
//
// # Levels
//
// Supported levels (most sensitive first):
//   - TopSecret:  dark red  (#8B0000)
//   - Secret:     red       (#FF0000)
//   - Restricted: orange    (#FFA500)
//   - Public:     green     (#008000)
//
// Every level has exactly one label and one color. Lookups are table
// driven and total over the enum:
//
//	lvl, ok := classification.ParseLevel("Restricted")
//	if ok {
//	    fmt.Println(lvl.Label(), lvl.Color().Hex()) // Restricted #FFA500
//	}
//
// # Localized Labels
//
// A Catalog resolves labels and watermark wording for a locale. The
// default catalog is English; Arabic is available for hosts that used the
// original wording:
//
//	cat := classification.CatalogFor("ar")
//	cat.Label(classification.Secret) // "سري"
package classification
