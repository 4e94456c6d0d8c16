// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/toolservers/pkg/types"
)

// sqliteFile is the database file created inside the papers directory.
const sqliteFile = "papers.db"

// SQLiteStore keeps paper records in a single SQLite table keyed by
// (topic, id). It is the alternative to FileStore for deployments that run
// several research servers against one cache.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates dir/papers.db and its schema.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating papers directory: %w", err)
	}

	dbPath := filepath.Join(dir, sqliteFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			topic TEXT NOT NULL,
			id TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			summary TEXT,
			pdf_url TEXT,
			published TEXT,
			categories TEXT,
			PRIMARY KEY (topic, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_id ON papers(id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Topic returns all records stored under topic.
func (s *SQLiteStore) Topic(ctx context.Context, topic string) (map[string]types.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, summary, pdf_url, published, categories
		 FROM papers WHERE topic = ?`, topic)
	if err != nil {
		return nil, fmt.Errorf("querying topic: %w", err)
	}
	defer rows.Close()

	records := map[string]types.PaperRecord{}
	for rows.Next() {
		id, r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records[id] = r
	}
	return records, rows.Err()
}

// Upsert inserts or replaces each record in one transaction.
func (s *SQLiteStore) Upsert(ctx context.Context, topic string, records map[string]types.PaperRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (topic, id, title, authors, summary, pdf_url, published, categories)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(topic, id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			summary = excluded.summary,
			pdf_url = excluded.pdf_url,
			published = excluded.published,
			categories = excluded.categories`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for id, r := range records {
		authors, err := json.Marshal(nonNil(r.Authors))
		if err != nil {
			return fmt.Errorf("encoding authors for %s: %w", id, err)
		}
		categories, err := json.Marshal(nonNil(r.Categories))
		if err != nil {
			return fmt.Errorf("encoding categories for %s: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, topic, id, r.Title, string(authors),
			r.Summary, r.PDFURL, r.Published, string(categories)); err != nil {
			return fmt.Errorf("upserting %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Find returns the record for id from the lexically first topic holding it.
func (s *SQLiteStore) Find(ctx context.Context, id string) (types.PaperRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, authors, summary, pdf_url, published, categories
		 FROM papers WHERE id = ? ORDER BY topic LIMIT 1`, id)
	_, r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PaperRecord{}, false, nil
	}
	if err != nil {
		return types.PaperRecord{}, false, err
	}
	return r, true, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (string, types.PaperRecord, error) {
	var (
		id                  string
		title, summary      sql.NullString
		pdfURL, published   sql.NullString
		authors, categories sql.NullString
	)
	if err := row.Scan(&id, &title, &authors, &summary, &pdfURL, &published, &categories); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", types.PaperRecord{}, err
		}
		return "", types.PaperRecord{}, fmt.Errorf("scanning paper row: %w", err)
	}

	r := types.PaperRecord{
		Title:      title.String,
		Summary:    summary.String,
		PDFURL:     pdfURL.String,
		Published:  published.String,
		Authors:    []string{},
		Categories: []string{},
	}
	if authors.Valid && authors.String != "" {
		if err := json.Unmarshal([]byte(authors.String), &r.Authors); err != nil {
			return "", types.PaperRecord{}, fmt.Errorf("decoding authors for %s: %w", id, err)
		}
	}
	if categories.Valid && categories.String != "" {
		if err := json.Unmarshal([]byte(categories.String), &r.Categories); err != nil {
			return "", types.PaperRecord{}, fmt.Errorf("decoding categories for %s: %w", id, err)
		}
	}
	return id, r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
