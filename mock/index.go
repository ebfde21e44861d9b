package mock

import (
	"context"

	"github.com/fwojciec/keyterm"
)

var _ keyterm.KeytermIndex = (*KeytermIndex)(nil)

// KeytermIndex is a mock implementation of keyterm.KeytermIndex.
type KeytermIndex struct {
	UpsertEntryFn        func(ctx context.Context, entry *keyterm.IndexEntry) error
	FindEntryByDirNameFn func(ctx context.Context, dirName string) (*keyterm.IndexEntry, error)
	FindEntriesFn        func(ctx context.Context, filter keyterm.IndexFilter) ([]*keyterm.IndexEntry, error)
	DeleteEntryFn        func(ctx context.Context, dirName string) error
	ContentHashesFn      func(ctx context.Context) ([]string, error)
}

func (i *KeytermIndex) UpsertEntry(ctx context.Context, entry *keyterm.IndexEntry) error {
	return i.UpsertEntryFn(ctx, entry)
}

func (i *KeytermIndex) FindEntryByDirName(ctx context.Context, dirName string) (*keyterm.IndexEntry, error) {
	return i.FindEntryByDirNameFn(ctx, dirName)
}

func (i *KeytermIndex) FindEntries(ctx context.Context, filter keyterm.IndexFilter) ([]*keyterm.IndexEntry, error) {
	return i.FindEntriesFn(ctx, filter)
}

func (i *KeytermIndex) DeleteEntry(ctx context.Context, dirName string) error {
	return i.DeleteEntryFn(ctx, dirName)
}

func (i *KeytermIndex) ContentHashes(ctx context.Context) ([]string, error) {
	return i.ContentHashesFn(ctx)
}
