// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dialog implements the interactive classification prompt.
//
// Three selectors are provided:
//
//   - TUISelector: a bubbletea radio list, arrows to move, Enter to confirm
//   - LineSelector: a liner prompt for terminals without full-screen support
//   - StaticSelector: a level already confirmed on the command line
//
// Every selector preselects the document's current level, or the least
// sensitive level when the document has none. Nothing is confirmed until
// the user presses Enter; Esc, Ctrl+C and end of input cancel.
package dialog
