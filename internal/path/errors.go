// Package path implements the fixed-width identifier encoding and the
// immutable, forward-only path cursor used to address devices in the
// registry (spec.md §3 "Path").
package path

import "errors"

var (
	// ErrIdentifierTooLong is returned when a path segment exceeds MaxIdentifierLength.
	ErrIdentifierTooLong = errors.New("path: identifier exceeds maximum length")
	// ErrPathEmpty is returned when constructing a Path from an empty string.
	ErrPathEmpty = errors.New("path: uid path is empty")
)
