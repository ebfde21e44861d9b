// Package store implements keyterm persistence on top of a document tree
// and a JSON codec.
package store

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/fwojciec/keyterm"
	"golang.org/x/sync/errgroup"
)

// Ensure KeytermService implements keyterm.KeytermService at compile time.
var _ keyterm.KeytermService = (*KeytermService)(nil)

// KeytermService reads and writes keyterm JSON documents.
type KeytermService struct {
	Tree  keyterm.DocumentTree
	Codec keyterm.Codec

	// Concurrency bounds parallel lookups during ScanKeyterms.
	// Values below 1 scan sequentially.
	Concurrency int
}

// NewKeytermService creates a new KeytermService.
func NewKeytermService(tree keyterm.DocumentTree, codec keyterm.Codec) *KeytermService {
	return &KeytermService{Tree: tree, Codec: codec}
}

// FilePath returns the slash-separated path, relative to the tree, of the
// JSON file read for a keyterm directory.
func FilePath(dirName string) string {
	return path.Join(keyterm.RootLabel, dirName, keyterm.FileName(dirName))
}

// SaveKeyterm encodes k and writes it to keyterms/<term>/<term>.json.
// When the tree cannot provide a writer the call is a no-op. Terms containing
// an underscore are rejected with EINVALID.
func (s *KeytermService) SaveKeyterm(ctx context.Context, k *keyterm.Keyterm) error {
	if k == nil {
		return keyterm.Errorf(keyterm.EINVALID, "keyterm required")
	}
	if err := k.Validate(); err != nil {
		return err
	}
	if strings.Contains(k.Term, "_") {
		return keyterm.Errorf(keyterm.EINVALID, "keyterm term %q contains an underscore", k.Term)
	}

	data, err := s.Codec.EncodeKeyterm(k)
	if err != nil {
		return err
	}

	w, ok := s.Tree.OpenChild(ctx, k.Term+".json", "", k.Term)
	if !ok {
		return nil
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write keyterm %q: %w", k.Term, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write keyterm %q: %w", k.Term, err)
	}
	return nil
}

// FindKeyterm reads keyterms/<dirName>/<stem>.json where stem is the part of
// dirName before the first underscore. Returns nil with no error when the
// file is absent or dirName is not a single directory name, and EINVALID
// when it cannot be decoded.
func (s *KeytermService) FindKeyterm(ctx context.Context, dirName string) (*keyterm.Keyterm, error) {
	if keyterm.ValidateName(dirName) != nil {
		return nil, nil
	}

	relPath := dirName + "/" + keyterm.FileName(dirName)

	text, ok := s.Tree.ReadText(ctx, relPath, keyterm.RootLabel)
	if !ok {
		return nil, nil
	}

	k, err := s.Codec.DecodeKeyterm([]byte(text))
	if err != nil {
		return nil, err
	}
	return k, nil
}

// DetectKeyterm returns the keyterm stored in entry, or nil when entry is
// not a directory or has no counterpart under the keyterms root.
func (s *KeytermService) DetectKeyterm(ctx context.Context, entry keyterm.Entry) (*keyterm.Keyterm, error) {
	if !entry.IsDir {
		return nil, nil
	}
	if !s.Tree.Exists(ctx, entry.Name, keyterm.RootLabel) {
		return nil, nil
	}
	return s.FindKeyterm(ctx, entry.Name)
}

// ScanKeyterms runs DetectKeyterm for every entry under the keyterms root.
// Entries that are not keyterms are left out. A lookup failure is recorded
// on its result and does not stop the scan.
func (s *KeytermService) ScanKeyterms(ctx context.Context) ([]*keyterm.ScanResult, error) {
	entries, err := s.Tree.Entries(ctx, keyterm.RootLabel)
	if err != nil {
		return nil, err
	}

	concurrency := s.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*keyterm.ScanResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, entry := range entries {
		g.Go(func() error {
			k, err := s.DetectKeyterm(gctx, entry)
			if k != nil || err != nil {
				results[i] = &keyterm.ScanResult{Name: entry.Name, Keyterm: k, Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found := make([]*keyterm.ScanResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			found = append(found, r)
		}
	}
	return found, nil
}
