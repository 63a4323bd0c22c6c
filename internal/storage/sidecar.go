// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/classmark/internal/classification"
	"github.com/jeranaias/classmark/internal/document"
	"github.com/jeranaias/classmark/internal/watermark"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDocumentNotFound = errors.New("document not found in sidecar")
	ErrDatabaseError    = errors.New("database error")
)

// =============================================================================
// SIDECAR
// =============================================================================

// Sidecar is a sqlite registry that stores classifications for files that
// cannot carry a custom property, and overlay shapes for every document.
type Sidecar struct {
	db       *sql.DB
	path     string
	property string
	margins  watermark.Margins
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Sidecar.
type Option func(*Sidecar)

// WithProperty sets the property name the classification is stored under.
func WithProperty(name string) Option {
	return func(s *Sidecar) {
		if name != "" {
			s.property = name
		}
	}
}

// WithDefaultMargins sets the margins of the implicit single page.
func WithDefaultMargins(m watermark.Margins) Option {
	return func(s *Sidecar) { s.margins = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sidecar) {
		if l != nil {
			s.logger = l.With("component", "sidecar")
		}
	}
}

// DefaultPath returns ~/.classmark/sidecar.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".classmark", "sidecar.db")
	}
	return filepath.Join(home, ".classmark", "sidecar.db")
}

// Open opens or creates the sidecar database at path. ":memory:" is
// accepted for tests.
func Open(path string, opts ...Option) (*Sidecar, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create sidecar directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Sidecar{
		db:       db,
		path:     path,
		property: "DocumentClassification",
		margins:  watermark.DefaultMargins,
		logger:   slog.Default().With("component", "sidecar"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Sidecar) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Path returns the database location.
func (s *Sidecar) Path() string {
	return s.path
}

// Close releases the database.
func (s *Sidecar) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SchemaVersion returns the stored schema version.
func (s *Sidecar) SchemaVersion(ctx context.Context) (int, error) {
	var v string
	if err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return strconv.Atoi(v)
}

// ensureDocument upserts the documents row inside tx.
func (s *Sidecar) ensureDocument(ctx context.Context, tx *sql.Tx, doc document.Document) (string, error) {
	key := document.RecordKey(doc)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (key, path, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET path = excluded.path, updated_at = excluded.updated_at`,
		key, doc.Path(), s.now().Unix())
	if err != nil {
		return "", fmt.Errorf("upsert document: %w", err)
	}
	return key, nil
}

// =============================================================================
// CLASSIFICATION STORE
// =============================================================================

// Read implements lifecycle.Store. Missing rows and unparseable values
// report ok=false.
func (s *Sidecar) Read(ctx context.Context, doc document.Document) (classification.Level, bool) {
	v, err := s.Property(ctx, doc, s.property)
	if err != nil {
		if !errors.Is(err, ErrDocumentNotFound) {
			s.logger.Debug("sidecar read failed", "doc", document.RecordKey(doc), "error", err)
		}
		return 0, false
	}
	return classification.ParseLevel(v)
}

// Write implements lifecycle.Store.
func (s *Sidecar) Write(ctx context.Context, doc document.Document, level classification.Level) error {
	return s.SetProperty(ctx, doc, s.property, level.String())
}

// Property returns a raw property value.
func (s *Sidecar) Property(ctx context.Context, doc document.Document, name string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM properties WHERE doc_key = ? AND name = ?",
		document.RecordKey(doc), name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrDocumentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return v, nil
}

// SetProperty deletes any value stored under name and inserts value.
func (s *Sidecar) SetProperty(ctx context.Context, doc document.Document, name, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	key, err := s.ensureDocument(ctx, tx, doc)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM properties WHERE doc_key = ? AND name = ?", key, name); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO properties (doc_key, name, value) VALUES (?, ?, ?)", key, name, value); err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return tx.Commit()
}

// Properties returns every property stored for doc.
func (s *Sidecar) Properties(ctx context.Context, doc document.Document) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM properties WHERE doc_key = ?", document.RecordKey(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

// Move re-keys everything stored for from to to, e.g. after an untitled
// document is saved under a path. It is a no-op when the keys match.
func (s *Sidecar) Move(ctx context.Context, from, to document.Document) error {
	oldKey, newKey := document.RecordKey(from), document.RecordKey(to)
	if oldKey == newKey {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", newKey); err != nil {
		return fmt.Errorf("clear target: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE documents SET key = ?, path = ?, updated_at = ? WHERE key = ?",
		newKey, to.Path(), s.now().Unix(), oldKey)
	if err != nil {
		return fmt.Errorf("rekey document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocumentNotFound
	}
	return tx.Commit()
}

// Forget removes everything stored for doc.
func (s *Sidecar) Forget(ctx context.Context, doc document.Document) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", document.RecordKey(doc)); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Record summarizes one document in the sidecar.
type Record struct {
	Key            string    `json:"key"`
	Path           string    `json:"path"`
	Classification string    `json:"classification,omitempty"`
	Overlays       int       `json:"overlays"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// List returns every document ordered by most recent update.
func (s *Sidecar) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.key, d.path, d.updated_at,
		       COALESCE((SELECT value FROM properties p WHERE p.doc_key = d.key AND p.name = ?), ''),
		       (SELECT COUNT(*) FROM overlays o WHERE o.doc_key = d.key)
		FROM documents d
		ORDER BY d.updated_at DESC, d.key`, s.property)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var updated int64
		if err := rows.Scan(&r.Key, &r.Path, &updated, &r.Classification, &r.Overlays); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		r.UpdatedAt = time.Unix(updated, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// WATERMARK SURFACE
// =============================================================================

// SetPages replaces the page geometry of doc.
func (s *Sidecar) SetPages(ctx context.Context, doc document.Document, pages []watermark.Page) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	key, err := s.ensureDocument(ctx, tx, doc)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE doc_key = ?", key); err != nil {
		return fmt.Errorf("delete pages: %w", err)
	}
	for i, p := range pages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pages (doc_key, page_id, ordinal, margin_left, margin_right, margin_top, margin_bottom)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			key, p.ID, i, p.Margins.Left, p.Margins.Right, p.Margins.Top, p.Margins.Bottom)
		if err != nil {
			return fmt.Errorf("insert page %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// Pages implements watermark.Surface.
func (s *Sidecar) Pages(ctx context.Context, doc document.Document) ([]watermark.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page_id, margin_left, margin_right, margin_top, margin_bottom
		FROM pages WHERE doc_key = ? ORDER BY ordinal`, document.RecordKey(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []watermark.Page
	for rows.Next() {
		var p watermark.Page
		if err := rows.Scan(&p.ID, &p.Margins.Left, &p.Margins.Right, &p.Margins.Top, &p.Margins.Bottom); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if len(out) == 0 {
		out = []watermark.Page{{ID: "1", Margins: s.margins}}
	}
	return out, nil
}

// Shapes implements watermark.Surface.
func (s *Sidecar) Shapes(ctx context.Context, doc document.Document, page, prefix string) ([]watermark.Shape, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, descriptor FROM overlays
		WHERE doc_key = ? AND page_id = ? AND substr(name, 1, ?) = ?
		ORDER BY name`,
		document.RecordKey(doc), page, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []watermark.Shape
	for rows.Next() {
		var (
			id   int64
			sh   watermark.Shape
			blob string
		)
		if err := rows.Scan(&id, &sh.Name, &blob); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		sh.Handle = strconv.FormatInt(id, 10)
		sh.Page = page
		if err := json.Unmarshal([]byte(blob), &sh.Descriptor); err != nil {
			s.logger.Debug("overlay descriptor unreadable", "handle", sh.Handle, "error", err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// AllShapes returns every overlay of doc across pages.
func (s *Sidecar) AllShapes(ctx context.Context, doc document.Document) ([]watermark.Shape, error) {
	pages, err := s.Pages(ctx, doc)
	if err != nil {
		return nil, err
	}
	var out []watermark.Shape
	for _, p := range pages {
		shapes, err := s.Shapes(ctx, doc, p.ID, "")
		if err != nil {
			return nil, err
		}
		out = append(out, shapes...)
	}
	return out, nil
}

// DeleteShape implements watermark.Surface.
func (s *Sidecar) DeleteShape(ctx context.Context, doc document.Document, page, handle string) error {
	id, err := strconv.ParseInt(handle, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid shape handle %q", handle)
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM overlays WHERE id = ? AND doc_key = ? AND page_id = ?",
		id, document.RecordKey(doc), page)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("shape %s: %w", handle, ErrDocumentNotFound)
	}
	return nil
}

// AddText implements watermark.Surface.
func (s *Sidecar) AddText(ctx context.Context, doc document.Document, page string, d watermark.Descriptor) (string, error) {
	blob, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode descriptor: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	key, err := s.ensureDocument(ctx, tx, doc)
	if err != nil {
		return "", err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO overlays (doc_key, page_id, name, descriptor, created_at) VALUES (?, ?, ?, ?, ?)",
		key, page, d.Name(), string(blob), s.now().Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", fmt.Errorf("shape %s already exists on page %s", d.Name(), page)
		}
		return "", fmt.Errorf("insert overlay: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return strconv.FormatInt(id, 10), nil
}
