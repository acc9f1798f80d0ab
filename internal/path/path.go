package path

import "strings"

// Path is an ordered, non-empty sequence of identifiers, built once from a
// ':'-delimited textual path and thereafter walked forward only via a
// cursor. Paths are immutable after construction and own their storage;
// the zero value is not a usable Path (use New).
type Path struct {
	items   []Identifier
	current int
}

// New parses a ':'-delimited textual path into a Path positioned at its
// first segment. Returns ErrPathEmpty for an empty string and
// ErrIdentifierTooLong if any segment does not fit in an Identifier.
func New(text string) (*Path, error) {
	if text == "" {
		return nil, ErrPathEmpty
	}

	parts := strings.Split(text, ":")
	items := make([]Identifier, len(parts))
	for i, p := range parts {
		id, err := EncodeIdentifier(p)
		if err != nil {
			return nil, err
		}
		items[i] = id
	}

	return &Path{items: items}, nil
}

// Count returns the number of segments in the path.
func (p *Path) Count() int { return len(p.items) }

// Current returns the identifier at the cursor position.
func (p *Path) Current() Identifier {
	if p.current >= len(p.items) {
		return Invalid
	}
	return p.items[p.current]
}

// PeekNext returns the identifier one past the cursor without advancing,
// or Invalid if the cursor is already on the last segment.
func (p *Path) PeekNext() Identifier {
	if p.current+1 >= len(p.items) {
		return Invalid
	}
	return p.items[p.current+1]
}

// Advance moves the cursor forward one segment and returns the new
// current identifier, or Invalid if already on the last segment.
func (p *Path) Advance() Identifier {
	if p.current+1 >= len(p.items) {
		return Invalid
	}
	p.current++
	return p.items[p.current]
}

// Reset moves the cursor back to the first segment.
func (p *Path) Reset() { p.current = 0 }

// IsLast reports whether the cursor is on the final segment.
func (p *Path) IsLast() bool { return p.current == len(p.items)-1 }

// HasMore reports whether Advance would move to a new segment.
func (p *Path) HasMore() bool { return p.current < len(p.items)-1 }

// String renders the full path, independent of cursor position, for
// diagnostics and error messages.
func (p *Path) String() string {
	parts := make([]string, len(p.items))
	for i, id := range p.items {
		parts[i] = id.String()
	}
	return strings.Join(parts, ":")
}
