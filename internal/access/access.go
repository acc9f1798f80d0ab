// Package access implements the cached access handle (spec.md §4.2): a
// pre-resolved bundle of device reference, bound operation closures, and
// an optional indexed sub-handle, built once from a textual expression
// `<path>[#<func>][[<index-expr>]]` and reused for the life of the tree.
// Grounded on the source's DALHAL_CachedDeviceAccess.
package access

import (
	"github.com/nerrad567/gray-logic-core/internal/devicetree"
	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
	"github.com/nerrad567/gray-logic-core/internal/zcstring"
)

// Handle is a pre-resolved path+function+subscript bundle. A Handle
// built from an unresolvable path is inert: it reports
// ErrUnsupportedOperation on every use rather than failing construction,
// matching the source's tolerance for scripts that reference a device
// dropped by a later reload.
type Handle struct {
	device *devicetree.Device
	name   string

	// sub is the indexed subscript's own handle, built recursively from
	// the expression inside the matching '[' ']' pair. Only one level
	// of indexing is modelled, matching every concrete device kind's
	// read/write-by-index signature.
	sub *Handle
}

// New builds a Handle from a textual expression. It never fails: an
// unresolved path or function yields an inert handle so that building
// all of a script's handles can proceed and validation (internal/script)
// reports every unresolved reference rather than stopping at the first.
func New(root *devicetree.Device, expr string) *Handle {
	z := zcstring.New(expr)

	var sub *Handle
	if open := z.FindChar('['); open >= 0 {
		inner := zcstring.Slice(expr, open+1, len(expr)-1)
		sub = New(root, inner.String())
		z = zcstring.Slice(expr, 0, open)
	}

	pathPart := z.SplitOffHead('#')
	funcPart := z

	h := &Handle{name: funcPart.String(), sub: sub}

	p, err := path.New(pathPart.String())
	if err != nil {
		return h
	}
	dev, err := devicetree.FindDevice(root, p)
	if err != nil {
		return h
	}
	h.device = dev
	return h
}

// Resolved reports whether the handle's path resolved to a device.
func (h *Handle) Resolved() bool { return h.device != nil }

// Device returns the resolved device, or nil.
func (h *Handle) Device() *devicetree.Device { return h.device }

// CanRead reports whether a read through this handle would succeed
// structurally (spec.md §4.6 validation at script-load time).
func (h *Handle) CanRead() bool {
	if h.device == nil {
		return false
	}
	if h.sub != nil {
		return h.sub.CanRead() && (h.device.ReadIndexFunc(h.name) != nil || h.device.Caps&devicetree.CapReadIndex != 0)
	}
	if h.name != "" {
		return h.device.ReadFunc(h.name) != nil
	}
	if h.device.ReadFunc("") != nil {
		return true
	}
	_, ok := h.device.DirectPointer()
	return ok
}

// CanWrite reports whether a write through this handle would succeed
// structurally.
func (h *Handle) CanWrite() bool {
	if h.device == nil {
		return false
	}
	if h.sub != nil {
		return h.sub.CanRead() && (h.device.WriteIndexFunc(h.name) != nil || h.device.Caps&devicetree.CapWriteIndex != 0)
	}
	if h.name != "" {
		return h.device.WriteFunc(h.name) != nil
	}
	if h.device.WriteFunc("") != nil {
		return true
	}
	_, ok := h.device.DirectPointer()
	return ok
}

// CanExec reports whether Exec would succeed structurally.
func (h *Handle) CanExec() bool {
	if h.device == nil || h.sub != nil {
		return false
	}
	if h.name != "" {
		return h.device.ExecFunc(h.name) != nil
	}
	return h.device.ExecFunc("") != nil
}

// Exec performs the handle's bound exec operation.
func (h *Handle) Exec() error {
	if h.device == nil {
		return opresult.ErrUnsupportedOperation
	}
	if fn := h.device.ExecFunc(h.name); fn != nil {
		return fn()
	}
	return opresult.ErrUnsupportedOperation
}

// Read performs the handle's dispatch priority for read (spec.md §4.2):
// indexed sub-handle first, then the named/default bound read, then the
// direct pointer, falling back to the device's generic read.
func (h *Handle) Read() (value.Value, error) {
	if h.device == nil {
		return value.Value{}, opresult.ErrUnsupportedOperation
	}
	if h.sub != nil {
		idx, err := h.sub.Read()
		if err != nil {
			return value.Value{}, err
		}
		if fn := h.device.ReadIndexFunc(h.name); fn != nil {
			return fn(idx)
		}
		return h.device.ReadByIndex(idx)
	}
	if fn := h.device.ReadFunc(h.name); fn != nil {
		return fn()
	}
	if ptr, ok := h.device.DirectPointer(); ok && h.name == "" {
		return *ptr, nil
	}
	if h.name == "" {
		return h.device.ReadValue()
	}
	return value.Value{}, opresult.ErrUnsupportedOperation
}

// Write performs the handle's dispatch priority for write (spec.md
// §4.2), symmetric with Read.
func (h *Handle) Write(v value.Value) error {
	if h.device == nil {
		return opresult.ErrUnsupportedOperation
	}
	if h.sub != nil {
		idx, err := h.sub.Read()
		if err != nil {
			return err
		}
		if fn := h.device.WriteIndexFunc(h.name); fn != nil {
			if v.IsTest() {
				return nil
			}
			if v.IsNaN() {
				return opresult.ErrWriteValueNaN
			}
			return fn(idx, v)
		}
		return h.device.WriteByIndex(idx, v)
	}
	if fn := h.device.WriteFunc(h.name); fn != nil {
		if v.IsTest() {
			return nil
		}
		if v.IsNaN() {
			return opresult.ErrWriteValueNaN
		}
		return fn(v)
	}
	if ptr, ok := h.device.DirectPointer(); ok && h.name == "" {
		if v.IsTest() {
			return nil
		}
		if v.IsNaN() {
			return opresult.ErrWriteValueNaN
		}
		*ptr = v
		return nil
	}
	if h.name == "" {
		return h.device.WriteValue(v)
	}
	return opresult.ErrUnsupportedOperation
}
