// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

const (
	// SchemaVersion tracks the sidecar schema for migrations
	SchemaVersion = 1
)

// Schema is the sidecar database layout.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- One row per document known to the sidecar, keyed like the prompt tracker
CREATE TABLE IF NOT EXISTS documents (
    key TEXT PRIMARY KEY,
    path TEXT NOT NULL,          -- empty for never-saved documents
    updated_at INTEGER NOT NULL  -- Unix timestamp
) WITHOUT ROWID;

-- Custom properties, same semantics as OOXML custom properties
CREATE TABLE IF NOT EXISTS properties (
    doc_key TEXT NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (doc_key, name),
    FOREIGN KEY (doc_key) REFERENCES documents(key) ON DELETE CASCADE ON UPDATE CASCADE
) WITHOUT ROWID;

-- Page geometry; documents without rows get a single default page
CREATE TABLE IF NOT EXISTS pages (
    doc_key TEXT NOT NULL,
    page_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    margin_left REAL NOT NULL,
    margin_right REAL NOT NULL,
    margin_top REAL NOT NULL,
    margin_bottom REAL NOT NULL,
    PRIMARY KEY (doc_key, page_id),
    FOREIGN KEY (doc_key) REFERENCES documents(key) ON DELETE CASCADE ON UPDATE CASCADE
) WITHOUT ROWID;

-- Overlay shapes; names are unique per page
CREATE TABLE IF NOT EXISTS overlays (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    doc_key TEXT NOT NULL,
    page_id TEXT NOT NULL,
    name TEXT NOT NULL,
    descriptor TEXT NOT NULL,    -- JSON encoded watermark.Descriptor
    created_at INTEGER NOT NULL,
    UNIQUE (doc_key, page_id, name),
    FOREIGN KEY (doc_key) REFERENCES documents(key) ON DELETE CASCADE ON UPDATE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_overlays_doc_page ON overlays(doc_key, page_id);
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
`
