// Package jsoniter provides the keyterm JSON codec built on json-iterator.
package jsoniter

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/fwojciec/keyterm"
)

// Ensure Codec implements keyterm.Codec at compile time.
var _ keyterm.Codec = (*Codec)(nil)

// LocatorRule encodes keyterm.Locator values as their canonical URI string.
func LocatorRule() *StringRule[keyterm.Locator] {
	return &StringRule[keyterm.Locator]{
		Name:   "locator",
		Format: keyterm.Locator.String,
		Parse:  keyterm.ParseLocator,
	}
}

// Codec encodes and decodes keyterms as UTF-8 JSON.
type Codec struct {
	api        jsoniter.API
	extensions []jsoniter.Extension
}

// Option configures a Codec.
type Option func(*Codec)

// WithExtension registers an additional json-iterator extension, such as a
// StringRule for another opaque field type.
func WithExtension(ext jsoniter.Extension) Option {
	return func(c *Codec) {
		c.extensions = append(c.extensions, ext)
	}
}

// NewCodec creates a Codec with the locator rule registered.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		extensions: []jsoniter.Extension{LocatorRule()},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.api = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		CaseSensitive:          true,
	}.Froze()
	for _, ext := range c.extensions {
		c.api.RegisterExtension(ext)
	}

	return c
}

// EncodeKeyterm encodes k as compact JSON.
func (c *Codec) EncodeKeyterm(k *keyterm.Keyterm) ([]byte, error) {
	data, err := c.api.Marshal(k)
	if err != nil {
		return nil, fmt.Errorf("failed to encode keyterm %q: %w", k.Term, err)
	}
	return data, nil
}

// DecodeKeyterm decodes data into a new keyterm.
// Returns EINVALID if data is not a well-formed keyterm document.
func (c *Codec) DecodeKeyterm(data []byte) (*keyterm.Keyterm, error) {
	var k keyterm.Keyterm
	if err := c.api.Unmarshal(data, &k); err != nil {
		return nil, keyterm.Errorf(keyterm.EINVALID, "malformed keyterm document: %s", err)
	}
	if err := k.Validate(); err != nil {
		return nil, keyterm.Errorf(keyterm.EINVALID, "malformed keyterm document: %s", keyterm.ErrorMessage(err))
	}
	return &k, nil
}

// API returns the frozen json-iterator configuration with all rules registered.
func (c *Codec) API() jsoniter.API {
	return c.api
}
