// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package host is a reference editor host for the classification core.
//
// A File is a document.Document backed by a path on disk (or untitled).
// A Workspace holds the open files of one session and routes the four
// lifecycle events to the controller. A Watcher marks open files as
// modified when something outside the workspace writes to them.
package host
