// Package ledger records which references each rendered document imported,
// so documents whose imported lines have since changed can be found.
//
// The ledger never serves file content: staleness is decided by importing
// every recorded reference again and comparing hashes.
package ledger

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jward/codeimport"
)

// Ledger is the SQLite data access layer for the import ledger.
type Ledger struct {
	db *sql.DB
}

// Document is a rendered document.
type Document struct {
	ID         int64
	Path       string // absolute
	Hash       string // SHA-256 of the rendered output
	RenderedAt time.Time
}

// Entry is one import made while rendering a document.
type Entry struct {
	ID           int64
	DocumentID   int64
	DocLine      int
	Meta         string
	ResolvedPath string
	StartLine    int
	EndLine      int
	IsRange      bool
	LineCount    int
	LinesHash    string
}

// Open opens (creating if needed) a ledger database at dbPath with WAL mode
// enabled.
func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// DB returns the underlying *sql.DB.
func (l *Ledger) DB() *sql.DB {
	return l.db
}

// Migrate creates the ledger tables and indexes. Idempotent.
func (l *Ledger) Migrate() error {
	if _, err := l.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  hash            TEXT,
  rendered_at     TIMESTAMP
);

CREATE TABLE IF NOT EXISTS imports (
  id              INTEGER PRIMARY KEY,
  document_id     INTEGER NOT NULL REFERENCES documents(id),
  doc_line        INTEGER,
  meta            TEXT NOT NULL,
  resolved_path   TEXT NOT NULL,
  start_line      INTEGER,
  end_line        INTEGER,
  is_range        BOOLEAN DEFAULT FALSE,
  line_count      INTEGER,
  lines_hash      TEXT
);

CREATE INDEX IF NOT EXISTS idx_imports_document ON imports(document_id);
CREATE INDEX IF NOT EXISTS idx_imports_resolved_path ON imports(resolved_path);
`

// HashContent returns the hex SHA-256 of data.
func HashContent(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// HashLines returns the hex SHA-256 of lines joined with "\n".
func HashLines(lines []string) string {
	return HashContent([]byte(strings.Join(lines, "\n")))
}

// NewEntry builds an Entry from a rendered snippet.
func NewEntry(s codeimport.RenderedSnippet) *Entry {
	return &Entry{
		DocLine:      s.DocLine,
		Meta:         s.Meta,
		ResolvedPath: s.Path,
		StartLine:    s.Reference.Start,
		EndLine:      s.Reference.End,
		IsRange:      s.Reference.IsRange,
		LineCount:    len(s.Lines),
		LinesHash:    HashLines(s.Lines),
	}
}

// RecordDocument transactionally replaces everything recorded for doc.Path
// with doc and entries. IDs are set on doc and on each entry.
func (l *Ledger) RecordDocument(doc *Document, entries []*Entry) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldID int64
	err = tx.QueryRow("SELECT id FROM documents WHERE path = ?", doc.Path).Scan(&oldID)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("lookup document: %w", err)
	default:
		if _, err := tx.Exec("DELETE FROM imports WHERE document_id = ?", oldID); err != nil {
			return fmt.Errorf("delete imports: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM documents WHERE id = ?", oldID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}

	res, err := tx.Exec(
		"INSERT INTO documents (path, hash, rendered_at) VALUES (?, ?, ?)",
		doc.Path, doc.Hash, doc.RenderedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO imports
		(document_id, doc_line, meta, resolved_path, start_line, end_line, is_range, line_count, lines_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert import: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, len(entries))
	for i, e := range entries {
		res, err := stmt.Exec(docID, e.DocLine, e.Meta, e.ResolvedPath,
			e.StartLine, e.EndLine, e.IsRange, e.LineCount, e.LinesHash)
		if err != nil {
			return fmt.Errorf("insert import %q: %w", e.Meta, err)
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	doc.ID = docID
	for i, e := range entries {
		e.ID = ids[i]
		e.DocumentID = docID
	}
	return nil
}

// DocumentByPath returns the document recorded for path, or nil.
func (l *Ledger) DocumentByPath(path string) (*Document, error) {
	d := &Document{}
	err := l.db.QueryRow(
		"SELECT id, path, hash, rendered_at FROM documents WHERE path = ?", path,
	).Scan(&d.ID, &d.Path, &d.Hash, &d.RenderedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document by path: %w", err)
	}
	return d, nil
}

// Documents returns every recorded document ordered by path.
func (l *Ledger) Documents() ([]*Document, error) {
	rows, err := l.db.Query("SELECT id, path, hash, rendered_at FROM documents ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	defer rows.Close()
	var docs []*Document
	for rows.Next() {
		d := &Document{}
		if err := rows.Scan(&d.ID, &d.Path, &d.Hash, &d.RenderedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// EntriesByDocument returns a document's imports in document order.
func (l *Ledger) EntriesByDocument(documentID int64) ([]*Entry, error) {
	rows, err := l.db.Query(`SELECT id, document_id, doc_line, meta, resolved_path,
		start_line, end_line, is_range, line_count, lines_hash
		FROM imports WHERE document_id = ? ORDER BY doc_line, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("entries by document: %w", err)
	}
	defer rows.Close()
	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.DocLine, &e.Meta, &e.ResolvedPath,
			&e.StartLine, &e.EndLine, &e.IsRange, &e.LineCount, &e.LinesHash); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DocumentsImporting returns the paths of documents that import resolvedPath.
func (l *Ledger) DocumentsImporting(resolvedPath string) ([]string, error) {
	rows, err := l.db.Query(`SELECT DISTINCT d.path FROM documents d
		JOIN imports i ON i.document_id = d.id
		WHERE i.resolved_path = ? ORDER BY d.path`, resolvedPath)
	if err != nil {
		return nil, fmt.Errorf("documents importing: %w", err)
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ForgetDocument removes a document and its imports. Forgetting an unknown
// path is not an error.
func (l *Ledger) ForgetDocument(path string) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM imports WHERE document_id IN (SELECT id FROM documents WHERE path = ?)", path,
	); err != nil {
		return fmt.Errorf("delete imports: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM documents WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return tx.Commit()
}
