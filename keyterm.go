// Package keyterm persists keyterms (a term plus its metadata) as JSON
// documents inside term-scoped directories of a document tree.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, jsoniter/, sqlite/).
package keyterm

import (
	"context"
	"strings"
)

// RootLabel names the document tree root that holds keyterm directories.
const RootLabel = "keyterms"

// Keyterm represents a defined term and its metadata.
type Keyterm struct {
	Term                string      `json:"term"`
	TermForms           []string    `json:"termForms,omitempty"`
	AlternateRenderings []string    `json:"alternateRenderings,omitempty"`
	Explanation         string      `json:"explanation,omitempty"`
	Relevancy           string      `json:"relevancy,omitempty"`
	RelatedTerms        []string    `json:"relatedTerms,omitempty"`
	Notes               string      `json:"notes,omitempty"`
	Recordings          []Recording `json:"recordings,omitempty"`
	Audio               Locator     `json:"audio,omitempty"`
}

// Recording is a recorded rendering of a keyterm with its backtranslation.
type Recording struct {
	Text            string  `json:"text"`
	Backtranslation string  `json:"backtranslation,omitempty"`
	Audio           Locator `json:"audio,omitempty"`
}

// Validate returns an error if the keyterm contains invalid fields.
func (k *Keyterm) Validate() error {
	return ValidateName(k.Term)
}

// ValidateName returns an error unless name can be used as a single
// directory or file name inside the document tree.
func ValidateName(name string) error {
	switch {
	case name == "":
		return Errorf(EINVALID, "keyterm term required")
	case name == "." || name == "..":
		return Errorf(EINVALID, "keyterm term %q is not a valid name", name)
	case strings.ContainsAny(name, `/\`):
		return Errorf(EINVALID, "keyterm term %q contains a path separator", name)
	case strings.ContainsRune(name, 0):
		return Errorf(EINVALID, "keyterm term contains a NUL byte")
	}
	return nil
}

// FileStem returns the JSON file stem for a keyterm directory name: the part
// before the first underscore, or the whole name if there is none.
// Example: love_noun → love
func FileStem(dirName string) string {
	stem, _, _ := strings.Cut(dirName, "_")
	return stem
}

// FileName returns the JSON file name stored inside a keyterm directory.
func FileName(dirName string) string {
	return FileStem(dirName) + ".json"
}

// ScanResult is the outcome of a single keyterm lookup during a scan.
// Exactly one of Keyterm and Err is set.
type ScanResult struct {
	Name    string
	Keyterm *Keyterm
	Err     error
}

// KeytermService represents a service for persisting keyterms.
type KeytermService interface {
	// SaveKeyterm writes the keyterm to keyterms/<term>/<term>.json.
	// If the tree cannot provide a writable target, nothing is written
	// and no error is returned.
	SaveKeyterm(ctx context.Context, k *Keyterm) error

	// FindKeyterm reads the keyterm stored in the named keyterm directory.
	// Returns nil with no error if the file does not exist.
	// Returns EINVALID if the file exists but cannot be decoded.
	FindKeyterm(ctx context.Context, dirName string) (*Keyterm, error)

	// DetectKeyterm returns the keyterm for a directory entry, or nil if
	// the entry is not a persisted keyterm directory.
	DetectKeyterm(ctx context.Context, entry Entry) (*Keyterm, error)

	// ScanKeyterms detects keyterms for every entry under the keyterms
	// root. Per-entry decode failures are reported in the results.
	ScanKeyterms(ctx context.Context) ([]*ScanResult, error)
}
