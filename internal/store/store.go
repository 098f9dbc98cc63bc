// Package store persists extracted outlines in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	doc_id       TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	title        TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	pages        INTEGER NOT NULL,
	entries      INTEGER NOT NULL,
	result       TEXT NOT NULL,
	stats        TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at);
`

// Document is one stored extraction.
type Document struct {
	ID          string         `json:"doc_id"`
	Filename    string         `json:"filename"`
	ContentHash string         `json:"content_hash"`
	Result      doctree.Result `json:"result"`
	Stats       outline.Stats  `json:"stats"`
	DurationMs  int64          `json:"duration_ms"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Summary is the listing form of a Document.
type Summary struct {
	ID        string    `json:"doc_id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Pages     int       `json:"pages"`
	Entries   int       `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		q := url.Values{}
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "busy_timeout(10000)")
		q.Add("_pragma", "synchronous(NORMAL)")
		dsn = "file:" + path + "?" + q.Encode()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the schema.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put inserts or replaces a document.
func (s *Store) Put(ctx context.Context, doc Document) error {
	result, err := json.Marshal(doc.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	stats, err := json.Marshal(doc.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
			(doc_id, filename, title, content_hash, pages, entries, result, stats, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.Result.Title, doc.ContentHash, doc.Stats.Pages, len(doc.Result.Outline),
		string(result), string(stats), doc.DurationMs, doc.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	return nil
}

const selectDocument = `
	SELECT doc_id, filename, content_hash, result, stats, duration_ms, created_at
	FROM documents`

// Get returns the document with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, selectDocument+` WHERE doc_id = ?`, id)
	return scanDocument(row)
}

// FindByHash returns the newest document with the given content hash.
func (s *Store) FindByHash(ctx context.Context, hash string) (Document, error) {
	row := s.db.QueryRowContext(ctx, selectDocument+` WHERE content_hash = ? ORDER BY created_at DESC LIMIT 1`, hash)
	return scanDocument(row)
}

func scanDocument(row *sql.Row) (Document, error) {
	var (
		doc       Document
		result    string
		stats     string
		createdAt int64
	)
	err := row.Scan(&doc.ID, &doc.Filename, &doc.ContentHash, &result, &stats, &doc.DurationMs, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	if err := json.Unmarshal([]byte(result), &doc.Result); err != nil {
		return Document{}, fmt.Errorf("unmarshal result %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal([]byte(stats), &doc.Stats); err != nil {
		return Document{}, fmt.Errorf("unmarshal stats %s: %w", doc.ID, err)
	}
	doc.Result = doctree.NewResult(doc.Result.Title, doc.Result.Outline)
	doc.CreatedAt = time.UnixMilli(createdAt).UTC()
	return doc, nil
}

// List returns documents newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, filename, title, pages, entries, created_at
		FROM documents ORDER BY created_at DESC, doc_id DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var createdAt int64
		if err := rows.Scan(&sm.ID, &sm.Filename, &sm.Title, &sm.Pages, &sm.Entries, &createdAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sm.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
