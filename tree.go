package keyterm

import (
	"context"
	"io"
)

// Entry is a directory entry considered as a keyterm directory.
type Entry struct {
	Name  string
	IsDir bool
}

// DocumentTree is the hierarchical file storage keyterms are persisted in.
//
// Failures are reported as absence: implementations return a false ok or a
// false existence result instead of an error when a path cannot be resolved,
// opened, or read.
type DocumentTree interface {
	// OpenChild opens a writer for filename beneath keyterms/<term>/<subPath>.
	// Content becomes visible once the writer is closed.
	OpenChild(ctx context.Context, filename, subPath, term string) (io.WriteCloser, bool)

	// ReadText returns the full content of relPath beneath rootLabel.
	ReadText(ctx context.Context, relPath, rootLabel string) (string, bool)

	// Exists reports whether relPath exists beneath rootLabel.
	Exists(ctx context.Context, relPath, rootLabel string) bool

	// Entries lists the entries directly beneath rootLabel.
	// A missing root yields no entries.
	Entries(ctx context.Context, rootLabel string) ([]Entry, error)
}

// Codec maps keyterms to and from UTF-8 JSON.
type Codec interface {
	EncodeKeyterm(k *Keyterm) ([]byte, error)
	DecodeKeyterm(data []byte) (*Keyterm, error)
}
