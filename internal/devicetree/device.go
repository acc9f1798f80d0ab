// Package devicetree implements the addressable device namespace
// (spec.md §2 components D and E): a polymorphic device contract modeled
// as a variant with a common header and a per-instance capability table,
// nested container devices, and a two-pass (verify, then construct)
// configuration loader.
//
// Rather than a vtable-style interface hierarchy, a Device is a single
// struct whose behaviour is supplied as closures at construction time —
// the "explicit capability table" called for in place of the source's
// virtual dispatch. Concrete device constructors (gpio.go, i2c.go,
// ha_entity.go, http_sensor.go, scriptvar.go, timer.go, array.go) each
// populate only the fields their device kind supports; every other
// operation falls back to the capability check in the methods below and
// returns opresult.ErrUnsupportedOperation.
package devicetree

import (
	"fmt"

	"github.com/nerrad567/gray-logic-core/internal/event"
	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// Capability is a bitmask of the operations a Device instance supports.
type Capability uint16

const (
	CapRead Capability = 1 << iota
	CapWrite
	CapReadIndex
	CapWriteIndex
	CapExec
	CapExecCommand
	CapReadString
	CapWriteString
	CapEventSubscribe
	CapDirectPointer
)

func (c Capability) has(bit Capability) bool { return c&bit != 0 }

// FuncBinding is the set of operations a named function (the part after
// `#` in a path expression, spec.md §4.2) resolves to for one device.
// The zero-named binding ("") is the device's default/generic behaviour.
type FuncBinding struct {
	Read       func() (value.Value, error)
	Write      func(value.Value) error
	Exec       func() error
	ReadIndex  func(value.Value) (value.Value, error)
	WriteIndex func(value.Value, value.Value) error
}

// Device is one node of the configuration tree. Concrete device kinds
// are built by constructors in this package that populate Caps and the
// Functions table; Device itself carries only the behaviour common to
// every kind.
type Device struct {
	UID      path.Identifier
	TypeName string
	Caps     Capability

	// Children holds the nested devices of a container; nil for leaves.
	Children []*Device

	// Functions maps a function name (possibly "") to its bound
	// operations. The "" entry backs the bare read/write/exec methods.
	Functions map[string]FuncBinding

	// DirectPtr, if non-nil, is the device's internal value cell,
	// offered as a fast path for script-local variables (spec.md §4.2).
	DirectPtr *value.Value

	// History opts this device into value-change telemetry: set from
	// the common "history" configuration key (any device type), it is
	// consulted by the dispatch loop's tick phase, never by the device
	// itself.
	History bool

	LoopFn       func()
	BeginFn      func()
	ToStringFn   func() string
	ExecCmdFn    func(cmd string) error
	ReadStrFn    func(cmd string) (string, error)
	WriteStrFn   func(cmd string) (string, error)
	SubscribeFn  func(name string) (*event.Event, error)
}

// binding returns the FuncBinding for name, or the zero value if none
// was registered — callers then see unpopulated (nil) operation fields,
// which the dispatch methods below treat as unsupported.
func (d *Device) binding(name string) FuncBinding {
	if d.Functions == nil {
		return FuncBinding{}
	}
	return d.Functions[name]
}

// HasFunction reports whether name resolves to any operation on this
// device. The cached access handle and script validation do not call it;
// they check the individual ReadFunc/WriteFunc/ExecFunc lookups instead.
func (d *Device) HasFunction(name string) bool {
	b := d.binding(name)
	return b.Read != nil || b.Write != nil || b.Exec != nil || b.ReadIndex != nil || b.WriteIndex != nil
}

// ReadFunc returns the read closure bound to name, or nil.
func (d *Device) ReadFunc(name string) func() (value.Value, error) { return d.binding(name).Read }

// WriteFunc returns the write closure bound to name, or nil.
func (d *Device) WriteFunc(name string) func(value.Value) error { return d.binding(name).Write }

// ExecFunc returns the exec closure bound to name, or nil.
func (d *Device) ExecFunc(name string) func() error { return d.binding(name).Exec }

// ReadIndexFunc returns the indexed-read closure bound to name, or nil.
func (d *Device) ReadIndexFunc(name string) func(value.Value) (value.Value, error) {
	return d.binding(name).ReadIndex
}

// WriteIndexFunc returns the indexed-write closure bound to name, or nil.
func (d *Device) WriteIndexFunc(name string) func(value.Value, value.Value) error {
	return d.binding(name).WriteIndex
}

// ReadValue performs the bare read operation (spec.md §4.1).
func (d *Device) ReadValue() (value.Value, error) {
	if !d.Caps.has(CapRead) {
		return value.Value{}, opresult.ErrUnsupportedOperation
	}
	return d.binding("").Read()
}

// WriteValue performs the bare write operation. A Test value always
// succeeds without side effect (spec.md §3, §9); NaN is rejected.
func (d *Device) WriteValue(v value.Value) error {
	if !d.Caps.has(CapWrite) {
		return opresult.ErrUnsupportedOperation
	}
	if v.IsTest() {
		return nil
	}
	if v.IsNaN() {
		return opresult.ErrWriteValueNaN
	}
	return d.binding("").Write(v)
}

// ReadByIndex performs an indexed read (spec.md §4.1).
func (d *Device) ReadByIndex(idx value.Value) (value.Value, error) {
	if !d.Caps.has(CapReadIndex) {
		return value.Value{}, opresult.ErrUnsupportedOperation
	}
	return d.binding("").ReadIndex(idx)
}

// WriteByIndex performs an indexed write (spec.md §4.1).
func (d *Device) WriteByIndex(idx, v value.Value) error {
	if !d.Caps.has(CapWriteIndex) {
		return opresult.ErrUnsupportedOperation
	}
	if v.IsTest() {
		return nil
	}
	if v.IsNaN() {
		return opresult.ErrWriteValueNaN
	}
	return d.binding("").WriteIndex(idx, v)
}

// Exec performs the stateless trigger operation.
func (d *Device) Exec() error {
	if !d.Caps.has(CapExec) {
		return opresult.ErrUnsupportedOperation
	}
	return d.binding("").Exec()
}

// ExecCommand performs a named command exec; unknown commands are the
// concrete device's responsibility to reject with ErrUnsupportedCommand.
func (d *Device) ExecCommand(cmd string) error {
	if !d.Caps.has(CapExecCommand) {
		return opresult.ErrUnsupportedOperation
	}
	return d.ExecCmdFn(cmd)
}

// ReadString performs a textual introspection command.
func (d *Device) ReadString(cmd string) (string, error) {
	if !d.Caps.has(CapReadString) {
		return "", opresult.ErrUnsupportedOperation
	}
	return d.ReadStrFn(cmd)
}

// WriteString performs a typed free-form textual mutation.
func (d *Device) WriteString(cmd string) (string, error) {
	if !d.Caps.has(CapWriteString) {
		return "", opresult.ErrUnsupportedOperation
	}
	return d.WriteStrFn(cmd)
}

// Subscribe returns an event handle for the named event, or
// ErrDeviceEventsNotSupported / ErrDeviceEventByNameNotFound.
func (d *Device) Subscribe(name string) (*event.Event, error) {
	if !d.Caps.has(CapEventSubscribe) {
		return nil, opresult.ErrDeviceEventsNotSupported
	}
	return d.SubscribeFn(name)
}

// DirectPointer returns the device's internal value cell, if offered.
func (d *Device) DirectPointer() (*value.Value, bool) {
	if !d.Caps.has(CapDirectPointer) || d.DirectPtr == nil {
		return nil, false
	}
	return d.DirectPtr, true
}

// Loop runs the device's per-tick hook, if any. It does not descend into
// children; the dispatch loop reaches them through Walk (container.go).
func (d *Device) Loop() {
	if d.LoopFn != nil {
		d.LoopFn()
	}
}

// Begin runs the device's one-time post-construction hook, if any.
func (d *Device) Begin() {
	if d.BeginFn != nil {
		d.BeginFn()
	}
}

// ToString renders a diagnostic line for `printDevices` (spec.md §6).
func (d *Device) ToString() string {
	if d.ToStringFn != nil {
		return d.ToStringFn()
	}
	return fmt.Sprintf("uid=%q,type=%q", d.UID.String(), d.TypeName)
}

// IsContainer reports whether this device owns children.
func (d *Device) IsContainer() bool { return d.Children != nil }
