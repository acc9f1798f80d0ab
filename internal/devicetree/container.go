package devicetree

import (
	"fmt"

	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
)

// NewContainer builds a device that owns children; destruction cascades
// (the Go garbage collector handles this once the tree is unreferenced).
// The root of the configuration tree is a container built with
// path.Invalid as its UID — see LoadTree in config.go.
func NewContainer(uid path.Identifier, typeName string, children []*Device) *Device {
	d := &Device{
		UID:      uid,
		TypeName: typeName,
		Children: children,
	}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,children=%d", d.UID.String(), d.TypeName, len(d.Children))
	}
	return d
}

// findDevice resolves p against container's direct children, descending
// into nested containers one segment at a time.
func findDevice(container *Device, p *path.Path) (*Device, error) {
	target := p.Current()
	for _, child := range container.Children {
		if child.UID != target {
			continue
		}
		if p.IsLast() {
			return child, nil
		}
		if !child.IsContainer() {
			return nil, opresult.ErrUIDPathTooDeep
		}
		p.Advance()
		return findDevice(child, p)
	}
	return nil, opresult.ErrUIDPathNotFound
}

// FindDevice resolves a path against the tree rooted at root (spec.md
// §4.1): a forward walk from the root matching each segment against a
// child identifier. The cursor is reset to the first segment before the
// walk so callers may reuse the same *path.Path across repeated lookups.
func FindDevice(root *Device, p *path.Path) (*Device, error) {
	if p == nil || p.Count() == 0 {
		return nil, opresult.ErrUIDPathEmpty
	}
	p.Reset()
	return findDevice(root, p)
}

// Walk visits d and every descendant in pre-order (parent before
// children, siblings in configuration order). The dispatch loop uses
// this to run `loop`/`begin` hooks in tree order (spec.md §4.9).
func Walk(d *Device, fn func(*Device)) {
	fn(d)
	for _, child := range d.Children {
		Walk(child, fn)
	}
}
