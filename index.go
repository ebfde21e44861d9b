package keyterm

import (
	"context"
	"time"
)

// IndexEntry records where a persisted keyterm lives and what it contained
// when it was last indexed.
type IndexEntry struct {
	ID          string    `json:"id"`
	DirName     string    `json:"dirName"`
	Term        string    `json:"term"`
	FilePath    string    `json:"filePath"`
	ContentHash string    `json:"contentHash"`
	IndexedAt   time.Time `json:"indexedAt"`
}

// Validate returns an error if the index entry contains invalid fields.
func (e *IndexEntry) Validate() error {
	if e.DirName == "" {
		return Errorf(EINVALID, "index entry directory name required")
	}
	if e.Term == "" {
		return Errorf(EINVALID, "index entry term required")
	}
	return nil
}

// KeytermIndex represents a searchable index of persisted keyterms.
type KeytermIndex interface {
	// UpsertEntry creates the entry or replaces the one with the same DirName.
	UpsertEntry(ctx context.Context, entry *IndexEntry) error

	// FindEntryByDirName retrieves an entry by directory name.
	// Returns ENOTFOUND if the entry does not exist.
	FindEntryByDirName(ctx context.Context, dirName string) (*IndexEntry, error)

	// FindEntries retrieves entries matching the filter.
	FindEntries(ctx context.Context, filter IndexFilter) ([]*IndexEntry, error)

	// DeleteEntry removes the entry for a directory name.
	// Returns ENOTFOUND if the entry does not exist.
	DeleteEntry(ctx context.Context, dirName string) error

	// ContentHashes returns the content hash of every indexed entry.
	ContentHashes(ctx context.Context) ([]string, error)
}

// IndexFilter represents a filter for FindEntries.
type IndexFilter struct {
	Term    *string `json:"term"`
	DirName *string `json:"dirName"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
