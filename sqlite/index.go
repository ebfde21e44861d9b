package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/keyterm"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ keyterm.KeytermIndex = (*KeytermIndex)(nil)

// KeytermIndex implements keyterm.KeytermIndex using SQLite.
type KeytermIndex struct {
	db *DB
}

// NewKeytermIndex creates a new KeytermIndex.
func NewKeytermIndex(db *DB) *KeytermIndex {
	return &KeytermIndex{db: db}
}

const entryColumns = "id, dir_name, term, file_path, content_hash, indexed_at"

// UpsertEntry creates an entry or replaces the one with the same directory name.
// The ID of an existing entry is kept.
func (s *KeytermIndex) UpsertEntry(ctx context.Context, entry *keyterm.IndexEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.IndexedAt = time.Now().UTC()

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO keyterm_entries (id, dir_name, term, file_path, content_hash, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(dir_name) DO UPDATE SET
			term = excluded.term,
			file_path = excluded.file_path,
			content_hash = excluded.content_hash,
			indexed_at = excluded.indexed_at
		RETURNING id
	`, uuid.New().String(), entry.DirName, entry.Term, entry.FilePath, entry.ContentHash,
		entry.IndexedAt.Format(time.RFC3339)).Scan(&id)
	if err != nil {
		return err
	}

	entry.ID = id
	return nil
}

// FindEntryByDirName retrieves an entry by directory name.
func (s *KeytermIndex) FindEntryByDirName(ctx context.Context, dirName string) (*keyterm.IndexEntry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM keyterm_entries WHERE dir_name = ?", dirName)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, keyterm.Errorf(keyterm.ENOTFOUND, "index entry %q not found", dirName)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FindEntries retrieves entries matching the filter, ordered by term then
// directory name.
func (s *KeytermIndex) FindEntries(ctx context.Context, filter keyterm.IndexFilter) ([]*keyterm.IndexEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + entryColumns + " FROM keyterm_entries WHERE 1=1")

	if filter.Term != nil {
		query.WriteString(" AND term = ?")
		args = append(args, *filter.Term)
	}
	if filter.DirName != nil {
		query.WriteString(" AND dir_name = ?")
		args = append(args, *filter.DirName)
	}

	query.WriteString(" ORDER BY term, dir_name")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*keyterm.IndexEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteEntry removes the entry for a directory name.
func (s *KeytermIndex) DeleteEntry(ctx context.Context, dirName string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM keyterm_entries WHERE dir_name = ?", dirName)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return keyterm.Errorf(keyterm.ENOTFOUND, "index entry %q not found", dirName)
	}

	return nil
}

// ContentHashes returns the content hash of every indexed entry.
func (s *KeytermIndex) ContentHashes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT content_hash FROM keyterm_entries")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*keyterm.IndexEntry, error) {
	var entry keyterm.IndexEntry
	var indexedAt string

	if err := row.Scan(&entry.ID, &entry.DirName, &entry.Term, &entry.FilePath,
		&entry.ContentHash, &indexedAt); err != nil {
		return nil, err
	}

	t, err := parseTimestamp(indexedAt, "indexed_at")
	if err != nil {
		return nil, err
	}
	entry.IndexedAt = t

	return &entry, nil
}
