package fs

import (
	"os"
	"path/filepath"
)

// atomicWriter writes to a temporary file next to its target and renames it
// into place on Close. A failed write discards the temporary file, so the
// target is either left untouched or fully replaced.
type atomicWriter struct {
	f      *os.File
	path   string
	err    error
	closed bool
}

func newAtomicWriter(path string) (*atomicWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &atomicWriter{f: f, path: path}, nil
}

func (w *atomicWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.f.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}

// Close commits the written content, or aborts if any write failed.
func (w *atomicWriter) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true

	tmp := w.f.Name()
	if err := w.f.Close(); err != nil && w.err == nil {
		w.err = err
	}
	if w.err == nil {
		w.err = os.Chmod(tmp, 0644)
	}
	if w.err == nil {
		w.err = os.Rename(tmp, w.path)
	}
	if w.err != nil {
		_ = os.Remove(tmp)
		return w.err
	}
	return nil
}
