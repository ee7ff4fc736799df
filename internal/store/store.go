// Package store keeps the protected-term list in SQLite so it can be managed
// without editing the configuration file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// ErrEmptyTerm is returned when a term is blank after normalisation.
var ErrEmptyTerm = errors.New("term is empty")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	-- protected_terms holds words the proofreader must never change
	CREATE TABLE IF NOT EXISTS protected_terms (
		id TEXT PRIMARY KEY,
		term TEXT NOT NULL UNIQUE,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Term is a row in the protected_terms table.
type Term struct {
	ID        string    `json:"id"`
	Term      string    `json:"term" yaml:"term"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddTerm inserts a term, or updates the note of an existing one.
func (s *Store) AddTerm(ctx context.Context, term, note string) (*Term, error) {
	return addTerm(ctx, s.db, term, note)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func addTerm(ctx context.Context, db execer, term, note string) (*Term, error) {
	term = normalizeText(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO protected_terms (id, term, note, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(term) DO UPDATE SET note = excluded.note`,
		uuid.NewString(), term, strings.TrimSpace(note), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to add term %q: %w", term, err)
	}

	var t Term
	err = db.QueryRowContext(ctx,
		`SELECT id, term, note, created_at FROM protected_terms WHERE term = ?`, term).
		Scan(&t.ID, &t.Term, &t.Note, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTerms returns all entries ordered by term.
func (s *Store) ListTerms(ctx context.Context) ([]Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, term, note, created_at FROM protected_terms ORDER BY term`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.ID, &t.Term, &t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// Terms returns just the term strings, ready to hand to the pipeline.
func (s *Store) Terms(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT term FROM protected_terms ORDER BY term`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// DeleteTerm removes an entry by ID or by term text. It reports whether a row
// was removed.
func (s *Store) DeleteTerm(ctx context.Context, idOrTerm string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM protected_terms WHERE id = ? OR term = ?`,
		strings.TrimSpace(idOrTerm), normalizeText(idOrTerm))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ImportTerms adds every entry in one transaction and returns how many were
// written. Blank entries are skipped.
func (s *Store) ImportTerms(ctx context.Context, terms []Term) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	n := 0
	for _, t := range terms {
		if _, err := addTerm(ctx, tx, t.Term, t.Note); err != nil {
			if errors.Is(err, ErrEmptyTerm) {
				continue
			}
			return 0, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// visually identical terms collapse to one row.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
