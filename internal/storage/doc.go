// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the sqlite sidecar used by classmark.
//
// The sidecar serves two roles:
//
//   - a classification store for files that cannot hold a custom property
//     (plain text, CSV, PDFs, never-saved documents)
//   - the watermark surface for every document, holding the overlay
//     shapes keyed by document, page and shape name
//
// # Usage
//
//	sc, err := storage.Open(storage.DefaultPath(), storage.WithProperty("DocumentClassification"))
//	if err != nil {
//	    return err
//	}
//	defer sc.Close()
//
// # Storage Location
//
// The database lives at ~/.classmark/sidecar.db unless configured
// otherwise.
package storage
