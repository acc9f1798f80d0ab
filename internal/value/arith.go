package value

// Arithmetic and comparison operations with the promotion rules of
// spec.md §3 and §9: mixed integer/float operands promote to float;
// comparisons always yield a signed 0/1; division by zero is a reported
// error rather than a silent NaN or wrap; subtraction that would
// underflow an unsigned result promotes to signed instead of wrapping.

// Add returns a + b.
func Add(a, b Value) (Value, error) {
	if isFloaty(a, b) {
		return Float32(a.AsFloat32() + b.AsFloat32()), nil
	}
	if bothUnsigned(a, b) {
		return Uint32(a.u + b.u), nil
	}
	return Int32(a.AsInt32() + b.AsInt32()), nil
}

// Sub returns a - b. An unsigned subtraction that would underflow promotes
// to a signed result instead of wrapping around, per spec.md §9.
func Sub(a, b Value) (Value, error) {
	if isFloaty(a, b) {
		return Float32(a.AsFloat32() - b.AsFloat32()), nil
	}
	if bothUnsigned(a, b) {
		if b.u > a.u {
			return Int32(int32(a.u) - int32(b.u)), nil
		}
		return Uint32(a.u - b.u), nil
	}
	return Int32(a.AsInt32() - b.AsInt32()), nil
}

// Mul returns a * b.
func Mul(a, b Value) (Value, error) {
	if isFloaty(a, b) {
		return Float32(a.AsFloat32() * b.AsFloat32()), nil
	}
	if bothUnsigned(a, b) {
		return Uint32(a.u * b.u), nil
	}
	return Int32(a.AsInt32() * b.AsInt32()), nil
}

// Div returns a / b. Integer division truncates toward zero. Division by
// zero is always ErrDivideByZero, whether the operands are integer or
// float — the runtime never produces a silent Inf/NaN from a script.
func Div(a, b Value) (Value, error) {
	if isFloaty(a, b) {
		bf := b.AsFloat32()
		if bf == 0 {
			return Value{}, ErrDivideByZero
		}
		return Float32(a.AsFloat32() / bf), nil
	}
	if bothUnsigned(a, b) {
		if b.u == 0 {
			return Value{}, ErrDivideByZero
		}
		return Uint32(a.u / b.u), nil
	}
	bi := b.AsInt32()
	if bi == 0 {
		return Value{}, ErrDivideByZero
	}
	return Int32(a.AsInt32() / bi), nil
}

// Mod returns a % b (truncating remainder for integers, math.Mod-style for floats).
func Mod(a, b Value) (Value, error) {
	if isFloaty(a, b) {
		bf := b.AsFloat32()
		if bf == 0 {
			return Value{}, ErrDivideByZero
		}
		af := a.AsFloat32()
		return Float32(af - bf*float32(int64(af/bf))), nil
	}
	if bothUnsigned(a, b) {
		if b.u == 0 {
			return Value{}, ErrDivideByZero
		}
		return Uint32(a.u % b.u), nil
	}
	bi := b.AsInt32()
	if bi == 0 {
		return Value{}, ErrDivideByZero
	}
	return Int32(a.AsInt32() % bi), nil
}

// bitwiseOperands truncates both operands toward zero into int32 for the
// bitwise family (&, |, ^, <<, >>), which have no float interpretation.
func bitwiseOperands(a, b Value) (int32, int32) {
	return a.AsInt32(), b.AsInt32()
}

// And returns a & b.
func And(a, b Value) (Value, error) {
	ai, bi := bitwiseOperands(a, b)
	return Int32(ai & bi), nil
}

// Or returns a | b.
func Or(a, b Value) (Value, error) {
	ai, bi := bitwiseOperands(a, b)
	return Int32(ai | bi), nil
}

// Xor returns a ^ b.
func Xor(a, b Value) (Value, error) {
	ai, bi := bitwiseOperands(a, b)
	return Int32(ai ^ bi), nil
}

// Shl returns a << b.
func Shl(a, b Value) (Value, error) {
	ai, bi := bitwiseOperands(a, b)
	if bi < 0 || bi > 31 {
		return Value{}, ErrInvalidArgument
	}
	return Int32(ai << uint(bi)), nil
}

// Shr returns a >> b (arithmetic shift).
func Shr(a, b Value) (Value, error) {
	ai, bi := bitwiseOperands(a, b)
	if bi < 0 || bi > 31 {
		return Value{}, ErrInvalidArgument
	}
	return Int32(ai >> uint(bi)), nil
}

// compare returns -1, 0, or 1 for a relative to b, promoting per the same
// rules as the arithmetic operators.
func compare(a, b Value) int {
	switch {
	case isFloaty(a, b):
		af, bf := a.AsFloat32(), b.AsFloat32()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case bothUnsigned(a, b):
		switch {
		case a.u < b.u:
			return -1
		case a.u > b.u:
			return 1
		default:
			return 0
		}
	default:
		ai, bi := a.AsInt32(), b.AsInt32()
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
}

// Eq returns 1 if a == b else 0.
func Eq(a, b Value) (Value, error) { return Bool(compare(a, b) == 0), nil }

// Ne returns 1 if a != b else 0.
func Ne(a, b Value) (Value, error) { return Bool(compare(a, b) != 0), nil }

// Lt returns 1 if a < b else 0.
func Lt(a, b Value) (Value, error) { return Bool(compare(a, b) < 0), nil }

// Gt returns 1 if a > b else 0.
func Gt(a, b Value) (Value, error) { return Bool(compare(a, b) > 0), nil }

// Le returns 1 if a <= b else 0.
func Le(a, b Value) (Value, error) { return Bool(compare(a, b) <= 0), nil }

// Ge returns 1 if a >= b else 0.
func Ge(a, b Value) (Value, error) { return Bool(compare(a, b) >= 0), nil }
