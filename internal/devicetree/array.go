package devicetree

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

func init() {
	Register("value_array", TypeEntry{Verify: verifyValueArray, Create: createValueArray})
}

type valueArraySpec struct {
	Values []uint32 `json:"values"`
	Size   uint32   `json:"size"`
}

func verifyValueArray(raw json.RawMessage) error {
	var s valueArraySpec
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if len(s.Values) == 0 && s.Size == 0 {
		return fmt.Errorf("%w: \"values\" or \"size\"", opresult.ErrMissingKey)
	}
	return nil
}

// createValueArray builds a fixed-length indexed device (spec.md §8
// scenario 3, `arr:a[var:i]`). Index bounds are checked against the
// slice length; an out-of-range index reports
// BracketOpSubscriptOutOffRange, a non-integer index reports
// BracketOpSubscriptInvalid.
func createValueArray(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec valueArraySpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	n := spec.Size
	if len(spec.Values) > 0 {
		n = uint32(len(spec.Values))
	}
	cells := make([]value.Value, n)
	for i := range cells {
		if i < len(spec.Values) {
			cells[i] = value.Uint32(spec.Values[i])
		} else {
			cells[i] = value.Uint32(0)
		}
	}

	d := &Device{UID: uid, TypeName: "value_array", Caps: CapReadIndex | CapWriteIndex}
	readIndex := func(idx value.Value) (value.Value, error) {
		if idx.IsNaN() || (idx.Kind() == value.KindFloat32 && idx.AsFloat32() != float32(idx.AsInt32())) {
			return value.Value{}, opresult.ErrBracketOpSubscriptInvalid
		}
		i, ok := indexOf(idx, len(cells))
		if !ok {
			return value.Value{}, opresult.ErrBracketOpSubscriptOutOfRange
		}
		return cells[i], nil
	}
	writeIndex := func(idx, v value.Value) error {
		if idx.IsNaN() || (idx.Kind() == value.KindFloat32 && idx.AsFloat32() != float32(idx.AsInt32())) {
			return opresult.ErrBracketOpSubscriptInvalid
		}
		i, ok := indexOf(idx, len(cells))
		if !ok {
			return opresult.ErrBracketOpSubscriptOutOfRange
		}
		cells[i] = v
		return nil
	}
	d.Functions = map[string]FuncBinding{"": {ReadIndex: readIndex, WriteIndex: writeIndex}}
	d.ToStringFn = func() string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c.String()
		}
		return fmt.Sprintf("uid=%q,type=%q,values=[%s]", uid.String(), "value_array", strings.Join(parts, ","))
	}
	return d, nil
}

func indexOf(idx value.Value, n int) (int, bool) {
	i := idx.AsInt32()
	if i < 0 || int(i) >= n {
		return 0, false
	}
	return int(i), true
}
