// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watermark composes and applies the classification and
// last-editor overlays of a document.
//
// # Composition
//
// Composer.Compose is pure: the same level, editor, timestamp and margins
// always produce the same five descriptors.
//
//	Classification: (<label>)          x2  bold, 28pt, level color, 65% transparent
//	Last edited by: <name> — <time>    x3  18pt, gray, 80% transparent
//
// All overlays are rotated 315 degrees and anchored at fixed offsets from
// the top-left page margin so the two sets never collide.
//
// # Application
//
// Painter.Apply resolves the editor identity and the current time, then for
// every page of the Surface removes all shapes named with either overlay
// prefix and adds the freshly composed set:
//
//	painter := watermark.NewPainter(composer, surface, identity.NewChain(""))
//	if err := painter.Apply(ctx, doc, classification.Secret); err != nil {
//	    // best-effort: log and carry on
//	}
package watermark
