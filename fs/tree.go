// Package fs provides a directory-backed document tree for keyterms.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/keyterm"
)

// Ensure Tree implements keyterm.DocumentTree at compile time.
var _ keyterm.DocumentTree = (*Tree)(nil)

// Tree implements keyterm.DocumentTree on a local directory.
// Root labels map to subdirectories of the base directory.
type Tree struct {
	baseDir string
	logger  *slog.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger that records I/O failures the tree reports
// as absence. Defaults to discarding them.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// NewTree creates a Tree rooted at baseDir.
func NewTree(baseDir string, opts ...Option) *Tree {
	t := &Tree{
		baseDir: baseDir,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseDir returns the directory the tree is rooted at.
func (t *Tree) BaseDir() string {
	return t.baseDir
}

// resolve joins slash-separated path elements beneath the base directory,
// rejecting anything that would escape it.
func (t *Tree) resolve(elem ...string) (string, error) {
	for i := range elem {
		elem[i] = filepath.FromSlash(elem[i])
	}
	rel := filepath.Join(elem...)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("path traversal or empty path rejected: %q", rel)
	}
	return filepath.Join(t.baseDir, rel), nil
}

// OpenChild opens an atomic writer for keyterms/<term>/<subPath>/<filename>.
// Parent directories are created as needed.
func (t *Tree) OpenChild(ctx context.Context, filename, subPath, term string) (io.WriteCloser, bool) {
	if err := ctx.Err(); err != nil {
		return nil, false
	}
	if err := keyterm.ValidateName(term); err != nil {
		t.logger.Debug("open child", "term", term, "err", err)
		return nil, false
	}
	if err := keyterm.ValidateName(filename); err != nil {
		t.logger.Debug("open child", "filename", filename, "err", err)
		return nil, false
	}

	fullPath, err := t.resolve(keyterm.RootLabel, term, subPath, filename)
	if err != nil {
		t.logger.Debug("open child", "term", term, "subPath", subPath, "err", err)
		return nil, false
	}

	w, err := newAtomicWriter(fullPath)
	if err != nil {
		t.logger.Debug("open child", "path", fullPath, "err", err)
		return nil, false
	}
	return w, true
}

// ReadText returns the content of rootLabel/relPath.
func (t *Tree) ReadText(ctx context.Context, relPath, rootLabel string) (string, bool) {
	if err := ctx.Err(); err != nil {
		return "", false
	}

	fullPath, err := t.resolve(rootLabel, relPath)
	if err != nil {
		t.logger.Debug("read text", "path", relPath, "root", rootLabel, "err", err)
		return "", false
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			t.logger.Debug("read text", "path", fullPath, "err", err)
		}
		return "", false
	}
	return string(data), true
}

// Exists reports whether rootLabel/relPath exists.
func (t *Tree) Exists(ctx context.Context, relPath, rootLabel string) bool {
	if err := ctx.Err(); err != nil {
		return false
	}

	fullPath, err := t.resolve(rootLabel, relPath)
	if err != nil {
		return false
	}

	_, err = os.Stat(fullPath)
	return err == nil
}

// Entries lists the entries of rootLabel in name order.
func (t *Tree) Entries(ctx context.Context, rootLabel string) ([]keyterm.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := t.resolve(rootLabel)
	if err != nil {
		return nil, keyterm.Errorf(keyterm.EINVALID, "invalid root %q", rootLabel)
	}

	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", rootLabel, err)
	}

	entries := make([]keyterm.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, keyterm.Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return entries, nil
}
