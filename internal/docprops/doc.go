// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docprops reads and writes custom document properties inside
// Office Open XML packages (.docx, .xlsx, .pptx and their macro and
// template variants).
//
// Custom properties live in the docProps/custom.xml part. Writing a
// property rewrites the whole package atomically: every other part is
// copied through unchanged, and the content-type override and package
// relationship for docProps/custom.xml are added when the package does
// not have them yet.
package docprops
