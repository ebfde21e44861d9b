package slog

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/keyterm"
)

// Ensure LoggingDocumentTree implements keyterm.DocumentTree.
var _ keyterm.DocumentTree = (*LoggingDocumentTree)(nil)

// LoggingDocumentTree wraps a DocumentTree with debug logging.
type LoggingDocumentTree struct {
	next   keyterm.DocumentTree
	logger *slog.Logger
}

// NewLoggingDocumentTree creates a new LoggingDocumentTree.
func NewLoggingDocumentTree(next keyterm.DocumentTree, logger *slog.Logger) *LoggingDocumentTree {
	return &LoggingDocumentTree{next: next, logger: logger}
}

// OpenChild delegates to the wrapped tree and logs whether a writer was opened.
func (t *LoggingDocumentTree) OpenChild(ctx context.Context, filename, subPath, term string) (io.WriteCloser, bool) {
	w, ok := t.next.OpenChild(ctx, filename, subPath, term)
	t.logger.Debug("open child",
		"term", term,
		"subPath", subPath,
		"filename", filename,
		"ok", ok,
	)
	return w, ok
}

// ReadText delegates to the wrapped tree and logs the outcome.
func (t *LoggingDocumentTree) ReadText(ctx context.Context, relPath, rootLabel string) (string, bool) {
	text, ok := t.next.ReadText(ctx, relPath, rootLabel)
	t.logger.Debug("read text",
		"root", rootLabel,
		"path", relPath,
		"bytes", len(text),
		"ok", ok,
	)
	return text, ok
}

// Exists delegates to the wrapped tree and logs the outcome.
func (t *LoggingDocumentTree) Exists(ctx context.Context, relPath, rootLabel string) bool {
	ok := t.next.Exists(ctx, relPath, rootLabel)
	t.logger.Debug("exists",
		"root", rootLabel,
		"path", relPath,
		"ok", ok,
	)
	return ok
}

// Entries delegates to the wrapped tree and logs the outcome.
func (t *LoggingDocumentTree) Entries(ctx context.Context, rootLabel string) ([]keyterm.Entry, error) {
	entries, err := t.next.Entries(ctx, rootLabel)
	t.logger.Debug("entries",
		"root", rootLabel,
		"count", len(entries),
		"err", err,
	)
	return entries, err
}
