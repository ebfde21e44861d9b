package store

import (
	"context"

	"github.com/fwojciec/keyterm"
	"github.com/fwojciec/keyterm/bloom"
)

// IndexReport summarizes one indexing pass.
type IndexReport struct {
	Indexed   int
	Unchanged int
	Removed   int
	Failures  []*keyterm.ScanResult
}

// Indexer records every persisted keyterm in a KeytermIndex.
type Indexer struct {
	Keyterms keyterm.KeytermService
	Index    keyterm.KeytermIndex
	Codec    keyterm.Codec
}

// Run scans the tree, upserts new or changed keyterms, and removes index
// entries whose directory no longer holds a keyterm. Keyterms that fail to
// decode are reported and keep their previous index entry.
func (x *Indexer) Run(ctx context.Context) (*IndexReport, error) {
	hashes, err := x.Index.ContentHashes(ctx)
	if err != nil {
		return nil, err
	}

	// The filter answers "definitely new" without a lookup; positives are
	// confirmed against the stored entry.
	seen := bloom.NewFilter(uint(max(len(hashes)*2, 1024)), 0.01)
	for _, h := range hashes {
		seen.Add(h)
	}

	results, err := x.Keyterms.ScanKeyterms(ctx)
	if err != nil {
		return nil, err
	}

	report := &IndexReport{}
	present := make(map[string]bool, len(results))
	for _, r := range results {
		present[r.Name] = true
		if r.Err != nil {
			report.Failures = append(report.Failures, r)
			continue
		}

		data, err := x.Codec.EncodeKeyterm(r.Keyterm)
		if err != nil {
			report.Failures = append(report.Failures, &keyterm.ScanResult{Name: r.Name, Err: err})
			continue
		}
		hash := ComputeHash(data)

		if seen.Test(hash) {
			existing, err := x.Index.FindEntryByDirName(ctx, r.Name)
			if err != nil && keyterm.ErrorCode(err) != keyterm.ENOTFOUND {
				return nil, err
			}
			if existing != nil && existing.ContentHash == hash && existing.Term == r.Keyterm.Term {
				report.Unchanged++
				continue
			}
		}

		entry := &keyterm.IndexEntry{
			DirName:     r.Name,
			Term:        r.Keyterm.Term,
			FilePath:    FilePath(r.Name),
			ContentHash: hash,
		}
		if err := x.Index.UpsertEntry(ctx, entry); err != nil {
			return nil, err
		}
		seen.Add(hash)
		report.Indexed++
	}

	indexed, err := x.Index.FindEntries(ctx, keyterm.IndexFilter{})
	if err != nil {
		return nil, err
	}
	for _, e := range indexed {
		if present[e.DirName] {
			continue
		}
		if err := x.Index.DeleteEntry(ctx, e.DirName); err != nil {
			return nil, err
		}
		report.Removed++
	}

	return report, nil
}
