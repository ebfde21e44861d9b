// Package slog provides logging decorators for keyterm services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/keyterm"
)

// Ensure LoggingKeytermService implements keyterm.KeytermService.
var _ keyterm.KeytermService = (*LoggingKeytermService)(nil)

// LoggingKeytermService wraps a KeytermService with logging.
type LoggingKeytermService struct {
	next   keyterm.KeytermService
	logger *slog.Logger
}

// NewLoggingKeytermService creates a new LoggingKeytermService.
func NewLoggingKeytermService(next keyterm.KeytermService, logger *slog.Logger) *LoggingKeytermService {
	return &LoggingKeytermService{next: next, logger: logger}
}

// SaveKeyterm delegates to the wrapped service and logs the operation.
func (s *LoggingKeytermService) SaveKeyterm(ctx context.Context, k *keyterm.Keyterm) (err error) {
	var term string
	if k != nil {
		term = k.Term
	}
	defer func(begin time.Time) {
		s.logger.Info("save keyterm",
			"term", term,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveKeyterm(ctx, k)
}

// FindKeyterm delegates to the wrapped service and logs the operation.
func (s *LoggingKeytermService) FindKeyterm(ctx context.Context, dirName string) (k *keyterm.Keyterm, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find keyterm",
			"dir", dirName,
			"found", k != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindKeyterm(ctx, dirName)
}

// DetectKeyterm delegates to the wrapped service and logs at debug level,
// since scans call it once per directory entry.
func (s *LoggingKeytermService) DetectKeyterm(ctx context.Context, entry keyterm.Entry) (k *keyterm.Keyterm, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("detect keyterm",
			"entry", entry.Name,
			"dir", entry.IsDir,
			"found", k != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DetectKeyterm(ctx, entry)
}

// ScanKeyterms delegates to the wrapped service and logs the operation.
func (s *LoggingKeytermService) ScanKeyterms(ctx context.Context) (results []*keyterm.ScanResult, err error) {
	defer func(begin time.Time) {
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		s.logger.Info("scan keyterms",
			"count", len(results),
			"failed", failed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ScanKeyterms(ctx)
}
