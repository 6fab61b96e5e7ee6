// Package parentstore persists parent chunks in a local SQLite
// database, keyed by parent id. It also tracks indexed documents and
// their content hashes for duplicate detection.
package parentstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/tripgest/internal/doctext"
)

const schema = `
CREATE TABLE IF NOT EXISTS parent_chunks (
	parent_id TEXT PRIMARY KEY,
	doc_id    TEXT NOT NULL,
	text      TEXT NOT NULL,
	meta      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_parent_doc ON parent_chunks(doc_id);

CREATE TABLE IF NOT EXISTS documents (
	doc_id       TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	title        TEXT,
	indexed_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_doc_hash ON documents(content_hash);
`

// Store is a SQLite-backed parent chunk KV store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent workers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// UpsertMany writes a batch of parent chunks in one transaction.
func (s *Store) UpsertMany(ctx context.Context, parents []doctext.ParentChunk) error {
	if len(parents) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO parent_chunks (parent_id, doc_id, text, meta)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(parent_id) DO UPDATE SET
			doc_id = excluded.doc_id,
			text   = excluded.text,
			meta   = excluded.meta`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range parents {
		meta, err := json.Marshal(p.Meta)
		if err != nil {
			return fmt.Errorf("marshal meta for %s: %w", p.ParentID, err)
		}
		if _, err := stmt.ExecContext(ctx, p.ParentID, p.Meta.DocID, p.Text, string(meta)); err != nil {
			return fmt.Errorf("upsert %s: %w", p.ParentID, err)
		}
	}
	return tx.Commit()
}

// Get returns a parent's text by id. A missing id reports found=false
// and no error.
func (s *Store) Get(ctx context.Context, parentID string) (string, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM parent_chunks WHERE parent_id = ?`, parentID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get parent %s: %w", parentID, err)
	}
	return text, true, nil
}

// GetMeta returns a parent's metadata by id.
func (s *Store) GetMeta(ctx context.Context, parentID string) (doctext.Meta, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT meta FROM parent_chunks WHERE parent_id = ?`, parentID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return doctext.Meta{}, false, nil
	}
	if err != nil {
		return doctext.Meta{}, false, fmt.Errorf("get parent meta %s: %w", parentID, err)
	}
	var meta doctext.Meta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return doctext.Meta{}, false, fmt.Errorf("decode meta %s: %w", parentID, err)
	}
	return meta, true, nil
}

// DeleteDoc removes a document's parents and its index record.
func (s *Store) DeleteDoc(ctx context.Context, docID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parent_chunks WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("delete parents for %s: %w", docID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	return tx.Commit()
}

// RecordDocument registers an indexed document and its content hash.
func (s *Store) RecordDocument(ctx context.Context, docID, contentHash, title string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (doc_id, content_hash, title, indexed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			title        = excluded.title,
			indexed_at   = excluded.indexed_at`,
		docID, contentHash, title, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record document %s: %w", docID, err)
	}
	return nil
}

// DocumentInfo is one row of the document index.
type DocumentInfo struct {
	DocID       string `json:"doc_id"`
	ContentHash string `json:"content_hash"`
	Title       string `json:"title"`
	IndexedAt   string `json:"indexed_at"`
}

// ListDocuments returns all indexed documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, content_hash, COALESCE(title, ''), indexed_at
		 FROM documents ORDER BY indexed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.DocID, &d.ContentHash, &d.Title, &d.IndexedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// LookupHash returns the doc id already indexed under a content hash.
func (s *Store) LookupHash(ctx context.Context, contentHash string) (string, bool, error) {
	var docID string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_id FROM documents WHERE content_hash = ? LIMIT 1`, contentHash).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup hash: %w", err)
	}
	return docID, true, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
