package script

import (
	"github.com/nerrad567/gray-logic-core/internal/access"
	"github.com/nerrad567/gray-logic-core/internal/devicetree"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// Operand is a compiled RPN operand: either a numeric literal or a
// cached access handle, resolved once when the script is loaded and
// reused for the life of the tree (spec.md §4.2, §4.6).
type Operand struct {
	literal value.Value
	isLit   bool
	handle  *access.Handle
}

func compileOperand(root *devicetree.Device, raw string) Operand {
	if v, ok := value.ParseLiteral(raw); ok {
		return Operand{literal: v, isLit: true}
	}
	return Operand{handle: access.New(root, raw)}
}

// Read resolves the operand's current value.
func (o Operand) Read() (value.Value, error) {
	if o.isLit {
		return o.literal, nil
	}
	return o.handle.Read()
}

// CanRead reports whether the operand would resolve structurally.
func (o Operand) CanRead() bool {
	if o.isLit {
		return true
	}
	return o.handle.CanRead()
}

// CToken is a compiled RPN element: an operator or a compiled operand.
type CToken struct {
	IsOperator bool
	Op         OpCode
	Operand    Operand
}

// Compile resolves every operand in an RPN stream against root,
// binding each to a literal or a cached access handle.
func Compile(root *devicetree.Device, rpn []RPNToken) []CToken {
	out := make([]CToken, len(rpn))
	for i, t := range rpn {
		if t.IsOperator {
			out[i] = CToken{IsOperator: true, Op: t.Op}
			continue
		}
		out[i] = CToken{Operand: compileOperand(root, t.Operand)}
	}
	return out
}
