package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shisei-sport/clubsite/media"
	"github.com/shisei-sport/clubsite/richtext"
)

// Draft is a document on the write path. Body is a JSON-shaped rich-text
// value (for example built with the richtext builders); it is normalized
// before it is stored.
type Draft struct {
	ID          string
	Collection  string
	Locale      string
	Title       string
	Slug        string
	Body        any
	Cover       media.Ref
	PublishedAt time.Time
	Published   bool
}

// Store wraps a SQLite database holding seeded documents.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while the seeder writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    locale TEXT NOT NULL,
    title TEXT NOT NULL,
    slug TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT 'null',
    cover TEXT NOT NULL DEFAULT 'null',
    published_at TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (collection, id, locale)
);
CREATE INDEX IF NOT EXISTS documents_listing ON documents (collection, locale, published, published_at);
`)
	return err
}

// SaveDocument normalizes the draft body and upserts the document.
func (s *Store) SaveDocument(ctx context.Context, d Draft) error {
	if d.Collection == "" || d.ID == "" {
		return fmt.Errorf("save document: collection and id are required")
	}
	body, err := json.Marshal(richtext.Normalize(d.Body))
	if err != nil {
		return fmt.Errorf("save document %s/%s: encode body: %w", d.Collection, d.ID, err)
	}
	cover, err := json.Marshal(d.Cover)
	if err != nil {
		return fmt.Errorf("save document %s/%s: encode cover: %w", d.Collection, d.ID, err)
	}
	published := 0
	if d.Published {
		published = 1
	}
	publishedAt := ""
	if !d.PublishedAt.IsZero() {
		publishedAt = d.PublishedAt.UTC().Format(time.RFC3339)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO documents (collection, id, locale, title, slug, body, cover, published_at, published) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Collection, d.ID, d.Locale, d.Title, d.Slug, string(body), string(cover), publishedAt, published)
	return err
}

// GetDocument returns a published document. When no row exists for the
// requested locale, the document is looked up without a locale filter so a
// single-language seed still serves every locale.
func (s *Store) GetDocument(ctx context.Context, collection, id, locale string) (*Document, error) {
	const q = `SELECT collection, id, locale, title, slug, body, cover, published_at FROM documents WHERE collection = ? AND id = ? AND published = 1`
	row := s.db.QueryRowContext(ctx, q+` AND locale = ?`, collection, id, locale)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		row = s.db.QueryRowContext(ctx, q+` ORDER BY locale LIMIT 1`, collection, id)
		doc, err = scanDocument(row)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns published documents of a collection in a locale,
// newest first.
func (s *Store) ListDocuments(ctx context.Context, collection, locale string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT collection, id, locale, title, slug, body, cover, published_at FROM documents WHERE collection = ? AND locale = ? AND published = 1 ORDER BY published_at DESC, id`, collection, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document in every locale.
func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (*Document, error) {
	var (
		d                        Document
		body, cover, publishedAt string
	)
	if err := sc.Scan(&d.Collection, &d.ID, &d.Locale, &d.Title, &d.Slug, &body, &cover, &publishedAt); err != nil {
		return nil, err
	}
	doc, err := richtext.Parse([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("document %s/%s: %w", d.Collection, d.ID, err)
	}
	d.Body = doc
	if err := json.Unmarshal([]byte(cover), &d.Cover); err != nil {
		return nil, fmt.Errorf("document %s/%s: decode cover: %w", d.Collection, d.ID, err)
	}
	if publishedAt != "" {
		if t, err := time.Parse(time.RFC3339, publishedAt); err == nil {
			d.PublishedAt = t
		}
	}
	return &d, nil
}
