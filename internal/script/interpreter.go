package script

import (
	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// Eval walks the logic tree with short-circuit semantics: && returns
// false without evaluating its right side when the left side is
// falsy, and otherwise returns the right side's result directly (which
// need not itself be boolean); || mirrors this for a truthy left side.
// Grounded on the source's BuildLogicTree/CalcRPN evaluation pair.
func Eval(n *LogicNode) (value.Value, error) {
	if n.isLeaf() {
		return evalLeaf(n.Leaf)
	}
	left, err := Eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case OpLAnd:
		if !left.Truthy() {
			return value.Bool(false), nil
		}
		return Eval(n.Right)
	case OpLOr:
		if left.Truthy() {
			return value.Bool(true), nil
		}
		return Eval(n.Right)
	}
	return value.Value{}, opresult.ErrExecutionFailed
}

// evalLeaf runs one RPN slice on a private value stack, cleared before
// each leaf — leaves never carry state between evaluations (spec.md
// §4.8). Grounded on DALHAL_SCRIPT_ENGINE_CalcRPN.cpp's per-token
// dispatch loop.
func evalLeaf(tokens []CToken) (value.Value, error) {
	var stack []value.Value
	pop := func() (value.Value, error) {
		if len(stack) == 0 {
			return value.Value{}, opresult.ErrStackUnderflow
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, t := range tokens {
		if !t.IsOperator {
			v, err := t.Operand.Read()
			if err != nil {
				return value.Value{}, err
			}
			stack = append(stack, v)
			continue
		}
		b, err := pop()
		if err != nil {
			return value.Value{}, err
		}
		a, err := pop()
		if err != nil {
			return value.Value{}, err
		}
		var r value.Value
		switch t.Op {
		case OpAdd:
			r, err = value.Add(a, b)
		case OpSub:
			r, err = value.Sub(a, b)
		case OpMul:
			r, err = value.Mul(a, b)
		case OpDiv:
			r, err = value.Div(a, b)
		case OpMod:
			r, err = value.Mod(a, b)
		case OpShl:
			r, err = value.Shl(a, b)
		case OpShr:
			r, err = value.Shr(a, b)
		case OpBitAnd:
			r, err = value.And(a, b)
		case OpBitOr:
			r, err = value.Or(a, b)
		case OpBitXor:
			r, err = value.Xor(a, b)
		case OpLt:
			r, err = value.Lt(a, b)
		case OpGt:
			r, err = value.Gt(a, b)
		case OpLe:
			r, err = value.Le(a, b)
		case OpGe:
			r, err = value.Ge(a, b)
		case OpEq:
			r, err = value.Eq(a, b)
		case OpNe:
			r, err = value.Ne(a, b)
		default:
			return value.Value{}, opresult.ErrExecutionFailed
		}
		if err != nil {
			return value.Value{}, err
		}
		stack = append(stack, r)
	}
	if len(stack) != 1 {
		return value.Value{}, opresult.ErrStackUnderflow
	}
	return stack[0], nil
}
