package value

import (
	"fmt"
	"math"
)

// Kind tags which member of the Value union is live.
type Kind uint8

const (
	// KindUint32 holds an unsigned 32-bit integer.
	KindUint32 Kind = iota
	// KindInt32 holds a signed 32-bit integer.
	KindInt32
	// KindFloat32 holds a single-precision float.
	KindFloat32
	// KindNaN marks a first-class not-a-number value. Writing it to a
	// device always fails with ErrWriteValueNaN.
	KindNaN
	// KindTest is a probe value: writing it must succeed without any
	// side effect, so device config validation can test that a write
	// function is wired without mutating state.
	KindTest
)

func (k Kind) String() string {
	switch k {
	case KindUint32:
		return "uint32"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindNaN:
		return "nan"
	case KindTest:
		return "test"
	default:
		return "unknown"
	}
}

// Value is a tagged numeric cell. The zero Value is the unsigned integer 0.
type Value struct {
	kind Kind
	u    uint32
	i    int32
	f    float32
}

// Uint32 constructs an unsigned-integer Value.
func Uint32(v uint32) Value { return Value{kind: KindUint32, u: v} }

// Int32 constructs a signed-integer Value.
func Int32(v int32) Value { return Value{kind: KindInt32, i: v} }

// Float32 constructs a float Value.
func Float32(v float32) Value { return Value{kind: KindFloat32, f: v} }

// NaN returns the first-class not-a-number value.
func NaN() Value { return Value{kind: KindNaN, f: float32(math.NaN())} }

// Test returns the validation probe value.
func Test() Value { return Value{kind: KindTest} }

// Kind reports which member of the union is live.
func (v Value) Kind() Kind { return v.kind }

// IsNaN reports whether v is the NaN sentinel.
func (v Value) IsNaN() bool { return v.kind == KindNaN }

// IsTest reports whether v is the validation probe value.
func (v Value) IsTest() bool { return v.kind == KindTest }

// AsUint32 returns v truncated toward zero and reinterpreted as unsigned.
func (v Value) AsUint32() uint32 {
	switch v.kind {
	case KindUint32:
		return v.u
	case KindInt32:
		return uint32(v.i)
	case KindFloat32, KindNaN:
		return uint32(int64(v.f))
	default:
		return 0
	}
}

// AsInt32 returns v truncated toward zero and reinterpreted as signed.
func (v Value) AsInt32() int32 {
	switch v.kind {
	case KindUint32:
		return int32(v.u)
	case KindInt32:
		return v.i
	case KindFloat32, KindNaN:
		return int32(v.f)
	default:
		return 0
	}
}

// AsFloat32 returns v promoted to float32.
func (v Value) AsFloat32() float32 {
	switch v.kind {
	case KindUint32:
		return float32(v.u)
	case KindInt32:
		return float32(v.i)
	case KindFloat32, KindNaN:
		return v.f
	default:
		return 0
	}
}

// IsZero reports whether the numeric content of v is zero, independent of kind.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindUint32:
		return v.u == 0
	case KindInt32:
		return v.i == 0
	case KindFloat32:
		return v.f == 0
	default:
		return false
	}
}

// Truthy reports whether v should be treated as the boolean "true" in a
// condition: any non-zero numeric value.
func (v Value) Truthy() bool { return !v.IsZero() }

// Bool converts a Go bool to the canonical comparison result: 1 or 0, signed.
func Bool(b bool) Value {
	if b {
		return Int32(1)
	}
	return Int32(0)
}

func (v Value) String() string {
	switch v.kind {
	case KindUint32:
		return fmt.Sprintf("%d", v.u)
	case KindInt32:
		return fmt.Sprintf("%d", v.i)
	case KindFloat32:
		return fmt.Sprintf("%g", v.f)
	case KindNaN:
		return "NaN"
	case KindTest:
		return "Test"
	default:
		return "?"
	}
}

// isFloaty reports whether a or b requires promotion to float for a binary
// numeric operation (either operand is float or NaN).
func isFloaty(a, b Value) bool {
	return a.kind == KindFloat32 || a.kind == KindNaN || b.kind == KindFloat32 || b.kind == KindNaN
}

// bothUnsigned reports whether a and b are both unsigned integers, the only
// case where unsigned arithmetic (rather than promotion to signed) applies.
func bothUnsigned(a, b Value) bool {
	return a.kind == KindUint32 && b.kind == KindUint32
}
