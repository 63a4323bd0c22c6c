// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lifecycle

import "errors"

var (
	// ErrWriteFailed wraps a store failure after the user confirmed a level.
	ErrWriteFailed = errors.New("classification write failed")

	// ErrSelectorFailed wraps a selector failure other than cancellation.
	ErrSelectorFailed = errors.New("classification selector failed")

	// ErrPromptInProgress is returned when a gate is entered for a document
	// that already has an open prompt.
	ErrPromptInProgress = errors.New("classification prompt already open for document")
)
