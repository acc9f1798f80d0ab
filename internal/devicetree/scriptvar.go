package devicetree

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-core/internal/event"
	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

func init() {
	Register("script_var", TypeEntry{Verify: verifyScriptVar, Create: createScriptVar})
}

type scriptVarSpec struct {
	Val *uint32 `json:"val"`
}

// verifyScriptVar has no validation beyond the common uid/type header —
// "val" is optional and defaults to 0, mirroring the source's
// ScriptVariable::VerifyJSON, which always returns true.
func verifyScriptVar(raw json.RawMessage) error { return nil }

// createScriptVar builds a script-local variable device: the simplest
// device kind, holding a single Value cell offered both through the
// generic read/write operations and as a direct pointer for fast
// script-local access (spec.md §4.2), and firing a value_change event
// on every successful write (grounded on
// DALHAL_ScriptVariable/DALHAL_ValueReactive).
func createScriptVar(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec scriptVarSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	initial := value.Uint32(0)
	if spec.Val != nil {
		initial = value.Uint32(*spec.Val)
	}

	cell := initial
	var changeCount uint64

	d := &Device{
		UID:      uid,
		TypeName: "script_var",
		Caps:     CapRead | CapWrite | CapDirectPointer | CapEventSubscribe,
	}
	read := func() (value.Value, error) { return cell, nil }
	write := func(v value.Value) error {
		cell = v
		changeCount++
		return nil
	}
	d.Functions = map[string]FuncBinding{"": {Read: read, Write: write}}
	d.DirectPtr = &cell
	d.SubscribeFn = func(name string) (*event.Event, error) {
		if name != "value_change" {
			return nil, opresult.ErrDeviceEventByNameNotFound
		}
		return event.NewCounterWatcher(func() uint64 { return changeCount }), nil
	}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,value=%s", uid.String(), "script_var", cell.String())
	}
	return d, nil
}
