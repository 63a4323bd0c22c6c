// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "sync"

// =============================================================================
// PROMPT TRACKER
// =============================================================================

// Tracker records whether a classification prompt was resolved for each
// document during the current editing session.
//
// The map is shared by every document; the mutex guards the map structure.
// A single document's flag is only ever touched by one lifecycle call at a
// time.
type Tracker struct {
	mu       sync.Mutex
	prompted map[string]bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		prompted: make(map[string]bool),
	}
}

// ResetPromptFlag marks key as not yet prompted, overwriting any prior value.
func (t *Tracker) ResetPromptFlag(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prompted[key] = false
}

// MarkPrompted marks key as prompted.
func (t *Tracker) MarkPrompted(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prompted[key] = true
}

// WasPrompted returns the stored flag, or false for a key never seen.
func (t *Tracker) WasPrompted(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.prompted[key]
}

// Forget drops key. Hosts call this once a document is closed.
func (t *Tracker) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.prompted, key)
}

// Len returns the number of tracked documents.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.prompted)
}
