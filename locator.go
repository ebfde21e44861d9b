package keyterm

import "net/url"

// Locator is an opaque reference to an external resource such as an audio
// recording. Its canonical form is a URI string.
//
// Locator deliberately has no JSON methods. Codecs encode it through a
// registered rule that maps the canonical string to and from JSON.
type Locator struct {
	raw string
}

// ParseLocator parses s into a Locator. An empty string yields the zero Locator.
func ParseLocator(s string) (Locator, error) {
	if s == "" {
		return Locator{}, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return Locator{}, Errorf(EINVALID, "invalid locator %q: %s", s, err)
	}
	return Locator{raw: u.String()}, nil
}

// MustParseLocator is like ParseLocator but panics on error.
func MustParseLocator(s string) Locator {
	l, err := ParseLocator(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the canonical form of the locator.
func (l Locator) String() string {
	return l.raw
}

// IsZero reports whether the locator is empty.
func (l Locator) IsZero() bool {
	return l.raw == ""
}
