// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lifecycle enforces that a document carries a classification
// before it is saved or closed with unsaved changes.
//
// A host delivers four events to a Controller:
//
//	OnCreate / OnOpen      reset the prompt flag, repaint an existing label
//	OnBeforeSave           always runs the classification gate
//	OnBeforeClose          runs the gate only if the document is dirty and
//	                       was not already classified in this session
//
// The gate reads the stored level, asks the Selector (seeded with that
// level or the least sensitive one), writes the answer back and repaints
// the watermarks. A cancelled prompt changes nothing and blocks the save.
// A failed write blocks the save. A failed repaint is only logged.
package lifecycle
