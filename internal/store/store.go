// Package store persists document snapshots in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
)

var ErrNotFound = errors.New("store: document not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	sel_index  INTEGER,
	sel_length INTEGER,
	updated_at INTEGER NOT NULL
)`

// Document is one stored snapshot. Selection is nil when the editor had no
// focus.
type Document struct {
	ID        string
	Content   delta.Delta
	Selection *buffer.Range
	UpdatedAt time.Time
}

type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

// Save writes doc, assigning a fresh id when doc.ID is empty, and returns
// the stored document.
func (s *Store) Save(ctx context.Context, doc Document) (Document, error) {
	if !doc.Content.IsDocument() {
		return Document{}, delta.ErrNotDocument
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	content, err := doc.Content.MarshalJSON()
	if err != nil {
		return Document{}, fmt.Errorf("encode content: %w", err)
	}
	var index, length sql.NullInt64
	if doc.Selection != nil {
		index = sql.NullInt64{Int64: int64(doc.Selection.Index), Valid: true}
		length = sql.NullInt64{Int64: int64(doc.Selection.Length), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (id, content, sel_index, sel_length, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	content = excluded.content,
	sel_index = excluded.sel_index,
	sel_length = excluded.sel_length,
	updated_at = excluded.updated_at`,
		doc.ID, string(content), index, length, doc.UpdatedAt.UnixMilli())
	if err != nil {
		return Document{}, fmt.Errorf("save %s: %w", doc.ID, err)
	}
	return doc, nil
}

func (s *Store) Load(ctx context.Context, id string) (Document, error) {
	var (
		content       string
		index, length sql.NullInt64
		updated       int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT content, sel_index, sel_length, updated_at FROM documents WHERE id = ?`, id,
	).Scan(&content, &index, &length, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", id, err)
	}

	d, err := delta.Parse([]byte(content))
	if err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", id, err)
	}
	doc := Document{ID: id, Content: d, UpdatedAt: time.UnixMilli(updated).UTC()}
	if index.Valid {
		doc.Selection = &buffer.Range{Index: int(index.Int64), Length: int(length.Int64)}
	}
	return doc, nil
}

// List returns the stored ids, most recently updated first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
