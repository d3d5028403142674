package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/copilotlabs/refdesk/internal/reference"
	_ "modernc.org/sqlite"
)

// DB is a Store backed by SQLite, with a full-text index over titles,
// abstracts, and author names.
type DB struct {
	db *sql.DB
}

// selectRefFields contains the standard field list for SELECT queries.
const selectRefFields = `id, conversation_id, ref_type, title, abstract,
	journal, publisher, volume, issue, pages,
	doi, url, pub_year, pub_month, pub_day,
	authors_json, tags_json, metadata_confidence,
	created_at, updated_at`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			ref_type TEXT NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT,
			journal TEXT,
			publisher TEXT,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			doi TEXT,
			url TEXT,
			pub_year INTEGER NOT NULL,
			pub_month INTEGER,
			pub_day INTEGER,
			authors_json TEXT NOT NULL,
			tags_json TEXT,
			metadata_confidence REAL NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_refs_conversation ON refs(conversation_id);
		CREATE INDEX IF NOT EXISTS idx_refs_doi ON refs(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS refs_fts USING fts5(
			id,
			title,
			abstract,
			authors_text
		);
	`

	_, err := db.Exec(schema)
	return err
}

// CreateReference implements Store.
func (d *DB) CreateReference(rec reference.Record) (reference.Record, error) {
	if rec.ID == "" {
		rec.ID = "ref"
	}
	existing, err := d.allIDsMatching(rec.ID)
	if err != nil {
		return reference.Record{}, err
	}
	rec.ID = GenerateUniqueID(existing, rec.ID)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := d.insert(rec); err != nil {
		return reference.Record{}, err
	}
	return rec, nil
}

// Load bulk-inserts records verbatim, preserving IDs and timestamps.
// Used when rebuilding the database from a JSONL file.
func (d *DB) Load(refs []reference.Record) error {
	for _, rec := range refs {
		if err := d.insert(rec); err != nil {
			return err
		}
	}
	return nil
}

// allIDsMatching returns lightweight records for every ID sharing the
// given prefix, enough for collision checks.
func (d *DB) allIDsMatching(baseID string) ([]reference.Record, error) {
	rows, err := d.db.Query(`SELECT id FROM refs WHERE id = ? OR id LIKE ?`, baseID, baseID+"-%")
	if err != nil {
		return nil, fmt.Errorf("checking id collisions: %w", err)
	}
	defer rows.Close()

	var refs []reference.Record
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		refs = append(refs, reference.Record{ID: id})
	}
	return refs, rows.Err()
}

func (d *DB) insert(rec reference.Record) error {
	authorsJSON, err := json.Marshal(rec.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors for %s: %w", rec.ID, err)
	}
	var tagsJSON []byte
	if len(rec.Tags) > 0 {
		tagsJSON, err = json.Marshal(rec.Tags)
		if err != nil {
			return fmt.Errorf("marshaling tags for %s: %w", rec.ID, err)
		}
	}

	_, err = d.db.Exec(`
		INSERT INTO refs (
			id, conversation_id, ref_type, title, abstract,
			journal, publisher, volume, issue, pages,
			doi, url, pub_year, pub_month, pub_day,
			authors_json, tags_json, metadata_confidence,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.ConversationID, string(rec.Type), rec.Title, rec.Abstract,
		rec.Journal, rec.Publisher, rec.Volume, rec.Issue, rec.Pages,
		rec.DOI, rec.URL, rec.Published.Year, rec.Published.Month, rec.Published.Day,
		string(authorsJSON), nullableString(tagsJSON), rec.MetadataConfidence,
		rec.CreatedAt.Unix(), rec.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting ref %s: %w", rec.ID, err)
	}

	_, err = d.db.Exec(`
		INSERT INTO refs_fts (id, title, abstract, authors_text)
		VALUES (?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.Abstract, authorsText(rec.Authors))
	if err != nil {
		return fmt.Errorf("inserting fts for %s: %w", rec.ID, err)
	}

	return nil
}

// UpdateReference implements Store.
func (d *DB) UpdateReference(id string, patched reference.Record) (reference.Record, error) {
	current, err := d.GetByID(id)
	if err != nil {
		return reference.Record{}, err
	}
	if current == nil {
		return reference.Record{}, fmt.Errorf("updating %s: %w", id, ErrNotFound)
	}

	patched.ID = id
	patched.CreatedAt = current.CreatedAt
	patched.UpdatedAt = time.Now().UTC()

	if _, err := d.db.Exec(`DELETE FROM refs WHERE id = ?`, id); err != nil {
		return reference.Record{}, fmt.Errorf("replacing ref %s: %w", id, err)
	}
	if _, err := d.db.Exec(`DELETE FROM refs_fts WHERE id = ?`, id); err != nil {
		return reference.Record{}, fmt.Errorf("replacing fts %s: %w", id, err)
	}
	if err := d.insert(patched); err != nil {
		return reference.Record{}, err
	}

	return patched, nil
}

// ReferencesForConversation implements Store.
func (d *DB) ReferencesForConversation(conversationID string) ([]reference.Record, error) {
	rows, err := d.db.Query(`
		SELECT `+selectRefFields+`
		FROM refs
		WHERE conversation_id = ?
		ORDER BY created_at, id
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing conversation refs: %w", err)
	}
	defer rows.Close()

	return scanReferences(rows)
}

// DeleteReference implements Store.
func (d *DB) DeleteReference(id string) error {
	res, err := d.db.Exec(`DELETE FROM refs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting ref %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	if _, err := d.db.Exec(`DELETE FROM refs_fts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting fts %s: %w", id, err)
	}
	return nil
}

// GetByID retrieves a reference by its ID. Returns nil when absent.
func (d *DB) GetByID(id string) (*reference.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRefFields+` FROM refs WHERE id = ?`, id)
	return scanReference(row)
}

// Search performs a full-text search and returns matching references.
func (d *DB) Search(query string, limit int) ([]reference.Record, error) {
	ftsQuery := prepareFTSQuery(query)

	rows, err := d.db.Query(`
		SELECT `+selectRefFields+`
		FROM refs
		WHERE id IN (SELECT id FROM refs_fts WHERE refs_fts MATCH ?)
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanReferences(rows)
}

// Count returns the total number of references.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM refs").Scan(&count)
	return count, err
}

// authorsText creates a searchable text representation of authors.
func authorsText(authors []reference.Author) string {
	var names []string
	for _, a := range authors {
		names = append(names, a.Display())
	}
	return strings.Join(names, ", ")
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReference(s scanner) (*reference.Record, error) {
	var rec reference.Record
	var refType string
	var abstract, journal, publisher, volume, issue, pages sql.NullString
	var doi, urlStr, authorsJSON, tagsJSON sql.NullString
	var pubMonth, pubDay sql.NullInt64
	var createdAt, updatedAt int64

	err := s.Scan(
		&rec.ID, &rec.ConversationID, &refType, &rec.Title, &abstract,
		&journal, &publisher, &volume, &issue, &pages,
		&doi, &urlStr, &rec.Published.Year, &pubMonth, &pubDay,
		&authorsJSON, &tagsJSON, &rec.MetadataConfidence,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.Type = reference.RefType(refType)
	rec.Abstract = abstract.String
	rec.Journal = journal.String
	rec.Publisher = publisher.String
	rec.Volume = volume.String
	rec.Issue = issue.String
	rec.Pages = pages.String
	rec.DOI = doi.String
	rec.URL = urlStr.String
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if pubMonth.Valid {
		rec.Published.Month = int(pubMonth.Int64)
	}
	if pubDay.Valid {
		rec.Published.Day = int(pubDay.Int64)
	}

	if authorsJSON.Valid {
		if err := json.Unmarshal([]byte(authorsJSON.String), &rec.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors JSON for %s: %w", rec.ID, err)
		}
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &rec.Tags); err != nil {
			return nil, fmt.Errorf("parsing tags JSON for %s: %w", rec.ID, err)
		}
	}

	return &rec, nil
}

func scanReferences(rows *sql.Rows) ([]reference.Record, error) {
	var refs []reference.Record
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, rows.Err()
}

func nullableString(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
