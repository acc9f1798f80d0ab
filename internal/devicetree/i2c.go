package devicetree

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// I2CBus is the narrow HAL collaborator i2c_register devices bind to,
// grounded on the source's PCF8574x/I2C_BUS_DeviceTypeReg pattern of a
// single-register read/write against a 7-bit address.
type I2CBus interface {
	ReadRegister(addr uint8) (uint32, error)
	WriteRegister(addr uint8, v uint32) error
}

func init() {
	Register("i2c_register", TypeEntry{Verify: verifyI2CRegister, Create: createI2CRegister})
}

type i2cRegisterSpec struct {
	Addr string `json:"addr"`
}

func verifyI2CRegister(raw json.RawMessage) error {
	var s i2cRegisterSpec
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if s.Addr == "" {
		return fmt.Errorf("%w: \"addr\"", opresult.ErrMissingKey)
	}
	if _, err := parseI2CAddr(s.Addr); err != nil {
		return fmt.Errorf("%w: \"addr\" %q is not hex", opresult.ErrInvalidArgument, s.Addr)
	}
	return nil
}

func parseI2CAddr(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 8)
	return uint8(v), err
}

// createI2CRegister mirrors the source's PCF8574x: a one-register
// device whose read fails ExecutionFailed-equivalent (here
// ErrHardwareFault) when the bus transaction fails, and whose write
// honours the Test/NaN write contract before touching the bus.
func createI2CRegister(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec i2cRegisterSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	addr, err := parseI2CAddr(spec.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: \"addr\" %q", opresult.ErrInvalidArgument, spec.Addr)
	}
	bus := ctx.I2C

	d := &Device{UID: uid, TypeName: "i2c_register", Caps: CapRead | CapWrite}
	read := func() (value.Value, error) {
		if bus == nil {
			return value.Value{}, opresult.ErrHardwareFault
		}
		raw, err := bus.ReadRegister(addr)
		if err != nil {
			return value.Value{}, opresult.ErrHardwareFault
		}
		return value.Uint32(raw), nil
	}
	write := func(v value.Value) error {
		if bus == nil {
			return opresult.ErrHardwareFault
		}
		if err := bus.WriteRegister(addr, v.AsUint32()); err != nil {
			return opresult.ErrHardwareFault
		}
		return nil
	}
	d.Functions = map[string]FuncBinding{"": {Read: read, Write: write}}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,addr=\"0x%02x\"", uid.String(), "i2c_register", addr)
	}
	return d, nil
}
