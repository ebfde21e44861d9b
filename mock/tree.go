package mock

import (
	"bytes"
	"context"
	"io"

	"github.com/fwojciec/keyterm"
)

var _ keyterm.DocumentTree = (*DocumentTree)(nil)

// DocumentTree is a mock implementation of keyterm.DocumentTree.
type DocumentTree struct {
	OpenChildFn func(ctx context.Context, filename, subPath, term string) (io.WriteCloser, bool)
	ReadTextFn  func(ctx context.Context, relPath, rootLabel string) (string, bool)
	ExistsFn    func(ctx context.Context, relPath, rootLabel string) bool
	EntriesFn   func(ctx context.Context, rootLabel string) ([]keyterm.Entry, error)
}

func (t *DocumentTree) OpenChild(ctx context.Context, filename, subPath, term string) (io.WriteCloser, bool) {
	return t.OpenChildFn(ctx, filename, subPath, term)
}

func (t *DocumentTree) ReadText(ctx context.Context, relPath, rootLabel string) (string, bool) {
	return t.ReadTextFn(ctx, relPath, rootLabel)
}

func (t *DocumentTree) Exists(ctx context.Context, relPath, rootLabel string) bool {
	return t.ExistsFn(ctx, relPath, rootLabel)
}

func (t *DocumentTree) Entries(ctx context.Context, rootLabel string) ([]keyterm.Entry, error) {
	return t.EntriesFn(ctx, rootLabel)
}

// WriteCloser is an in-memory io.WriteCloser that records its content and
// whether it was closed.
type WriteCloser struct {
	bytes.Buffer

	WriteErr error
	CloseErr error
	Closed   bool
}

func (w *WriteCloser) Write(p []byte) (int, error) {
	if w.WriteErr != nil {
		return 0, w.WriteErr
	}
	return w.Buffer.Write(p)
}

func (w *WriteCloser) Close() error {
	w.Closed = true
	return w.CloseErr
}
