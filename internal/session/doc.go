// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks, per document and per process lifetime, whether
// the user has already been asked to classify a document.
//
// # Key Types
//
//   - Tracker: mutex-guarded prompt flags keyed by document identity
//   - KeyOf: derives the identity of a document
//
// # Usage
//
// One tracker is constructed at startup and injected into the lifecycle
// controller:
//
//	tracker := session.NewTracker()
//	key := session.KeyOf(doc)
//
//	tracker.ResetPromptFlag(key) // document opened or created
//	tracker.MarkPrompted(key)    // save or close resolved classification
//	if tracker.WasPrompted(key) {
//	    // skip the close prompt
//	}
//
// Flags are never persisted; a new process starts with every document
// unprompted.
package session
