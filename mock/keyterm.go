package mock

import (
	"context"

	"github.com/fwojciec/keyterm"
)

// Compile-time interface verification.
var (
	_ keyterm.KeytermService = (*KeytermService)(nil)
	_ keyterm.Codec          = (*Codec)(nil)
)

// KeytermService is a mock implementation of keyterm.KeytermService.
type KeytermService struct {
	SaveKeytermFn   func(ctx context.Context, k *keyterm.Keyterm) error
	FindKeytermFn   func(ctx context.Context, dirName string) (*keyterm.Keyterm, error)
	DetectKeytermFn func(ctx context.Context, entry keyterm.Entry) (*keyterm.Keyterm, error)
	ScanKeytermsFn  func(ctx context.Context) ([]*keyterm.ScanResult, error)
}

func (s *KeytermService) SaveKeyterm(ctx context.Context, k *keyterm.Keyterm) error {
	return s.SaveKeytermFn(ctx, k)
}

func (s *KeytermService) FindKeyterm(ctx context.Context, dirName string) (*keyterm.Keyterm, error) {
	return s.FindKeytermFn(ctx, dirName)
}

func (s *KeytermService) DetectKeyterm(ctx context.Context, entry keyterm.Entry) (*keyterm.Keyterm, error) {
	return s.DetectKeytermFn(ctx, entry)
}

func (s *KeytermService) ScanKeyterms(ctx context.Context) ([]*keyterm.ScanResult, error) {
	return s.ScanKeytermsFn(ctx)
}

// Codec is a mock implementation of keyterm.Codec.
type Codec struct {
	EncodeKeytermFn func(k *keyterm.Keyterm) ([]byte, error)
	DecodeKeytermFn func(data []byte) (*keyterm.Keyterm, error)
}

func (c *Codec) EncodeKeyterm(k *keyterm.Keyterm) ([]byte, error) {
	return c.EncodeKeytermFn(k)
}

func (c *Codec) DecodeKeyterm(data []byte) (*keyterm.Keyterm, error) {
	return c.DecodeKeytermFn(data)
}
