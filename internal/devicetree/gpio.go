package devicetree

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// GPIOBus is the narrow HAL collaborator gpio_input/gpio_output devices
// bind to. It is out of scope for this specification (spec.md §1); a
// nil BuildContext.GPIO degrades a gpio device to an in-memory cell,
// which keeps configuration loadable and scriptable on hosts without
// real GPIO hardware (desktop simulation, unit tests).
type GPIOBus interface {
	ReadPin(pin uint32) (bool, error)
	WritePin(pin uint32, high bool) error
}

func init() {
	Register("gpio_input", TypeEntry{Verify: verifyGPIOSpec, Create: createGPIOInput})
	Register("gpio_output", TypeEntry{Verify: verifyGPIOSpec, Create: createGPIOOutput})
}

type gpioSpec struct {
	Pin uint32 `json:"pin"`
}

func verifyGPIOSpec(raw json.RawMessage) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	if _, ok := m["pin"]; !ok {
		return fmt.Errorf("%w: \"pin\"", opresult.ErrMissingKey)
	}
	return nil
}

// createGPIOInput mirrors the source's AnalogInput device: a one-shot
// read of a pin state, reservation against other devices is the bus's
// responsibility (not modelled here, see GPIOBus).
func createGPIOInput(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec gpioSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	bus := ctx.GPIO

	d := &Device{UID: uid, TypeName: "gpio_input", Caps: CapRead}
	read := func() (value.Value, error) {
		if bus == nil {
			return value.Uint32(0), nil
		}
		high, err := bus.ReadPin(spec.Pin)
		if err != nil {
			return value.Value{}, opresult.ErrHardwareFault
		}
		if high {
			return value.Uint32(1), nil
		}
		return value.Uint32(0), nil
	}
	d.Functions = map[string]FuncBinding{"": {Read: read}}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,pin=%d", uid.String(), "gpio_input", spec.Pin)
	}
	return d, nil
}

// createGPIOOutput tracks the last value written so a script can read
// back the output state without round-tripping through the bus.
func createGPIOOutput(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec gpioSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	bus := ctx.GPIO
	last := value.Uint32(0)

	d := &Device{UID: uid, TypeName: "gpio_output", Caps: CapRead | CapWrite}
	read := func() (value.Value, error) { return last, nil }
	write := func(v value.Value) error {
		high := v.AsUint32() != 0
		if bus != nil {
			if err := bus.WritePin(spec.Pin, high); err != nil {
				return opresult.ErrHardwareFault
			}
		}
		last = v
		return nil
	}
	d.Functions = map[string]FuncBinding{"": {Read: read, Write: write}}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,pin=%d,value=%s", uid.String(), "gpio_output", spec.Pin, last.String())
	}
	return d, nil
}
