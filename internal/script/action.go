package script

import (
	"strings"

	"github.com/nerrad567/gray-logic-core/internal/access"
	"github.com/nerrad567/gray-logic-core/internal/devicetree"
	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// AssignOp names one of the compound assignment operators (spec.md
// §4.8). AssignNone marks a bare exec action.
type AssignOp int

const (
	AssignNone AssignOp = iota
	AssignSet
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignAnd
	AssignOr
	AssignXor
	AssignShl
	AssignShr
)

// splitAssignment locates the top-level assignment operator in expr,
// if any, scanning outside any '[' ']' subscript. It checks
// three-char, then two-char, then the bare '=' forms, skipping '==',
// '!=', '<=', '>=' which are comparisons rather than assignment.
func splitAssignment(expr string) (lhs, rhs string, op AssignOp, ok bool) {
	depth := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == '[' {
			depth++
			continue
		}
		if c == ']' {
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if c != '=' {
			continue
		}
		if i+1 < len(expr) && expr[i+1] == '=' {
			i++ // "==": comparison, not assignment
			continue
		}
		if i == 0 {
			return expr[:i], expr[i+1:], AssignSet, true
		}
		switch expr[i-1] {
		case '!':
			continue // "!=": comparison
		case '<':
			if i >= 2 && expr[i-2] == '<' {
				return expr[:i-2], expr[i+1:], AssignShl, true
			}
			continue // "<=": comparison
		case '>':
			if i >= 2 && expr[i-2] == '>' {
				return expr[:i-2], expr[i+1:], AssignShr, true
			}
			continue // ">=": comparison
		case '+':
			return expr[:i-1], expr[i+1:], AssignAdd, true
		case '-':
			return expr[:i-1], expr[i+1:], AssignSub, true
		case '*':
			return expr[:i-1], expr[i+1:], AssignMul, true
		case '/':
			return expr[:i-1], expr[i+1:], AssignDiv, true
		case '%':
			return expr[:i-1], expr[i+1:], AssignMod, true
		case '&':
			return expr[:i-1], expr[i+1:], AssignAnd, true
		case '|':
			return expr[:i-1], expr[i+1:], AssignOr, true
		case '^':
			return expr[:i-1], expr[i+1:], AssignXor, true
		}
		return expr[:i], expr[i+1:], AssignSet, true
	}
	return "", "", AssignNone, false
}

// Action is one statement inside an on/if body: an assignment with a
// compound operator, or a bare exec invocation (spec.md §4.8).
type Action struct {
	lhs *access.Handle
	op  AssignOp
	rhs *LogicNode

	exec *access.Handle
}

// compileAction parses one action's raw source text.
func compileAction(root *devicetree.Device, text string) (*Action, error) {
	if lhs, rhs, op, ok := splitAssignment(text); ok {
		lhsHandle := access.New(root, strings.TrimSpace(lhs))
		if !lhsHandle.CanWrite() {
			return nil, opresult.ErrScriptOperandNotWritable
		}
		tree, err := compileExpression(root, strings.TrimSpace(rhs))
		if err != nil {
			return nil, err
		}
		return &Action{lhs: lhsHandle, op: op, rhs: tree}, nil
	}

	h := access.New(root, strings.TrimSpace(text))
	if !h.CanExec() {
		return nil, opresult.ErrScriptOperandUnresolved
	}
	return &Action{exec: h}, nil
}

func compileExpression(root *devicetree.Device, expr string) (*LogicNode, error) {
	rpn, err := BuildRPN(expr)
	if err != nil {
		return nil, err
	}
	compiled := Compile(root, rpn)
	for _, t := range compiled {
		if !t.IsOperator && !t.Operand.CanRead() {
			return nil, opresult.ErrScriptOperandUnresolved
		}
	}
	return BuildLogicTree(compiled)
}

// Run executes one action: for an assignment, evaluates the RHS tree,
// combines it with the current LHS value per op (AssignSet takes the
// RHS directly), and writes through the cached handle; for a bare
// action, invokes the handle's exec operation.
func (a *Action) Run() error {
	if a.exec != nil {
		return a.exec.Exec()
	}

	rhs, err := Eval(a.rhs)
	if err != nil {
		return err
	}

	if a.op == AssignSet {
		return a.lhs.Write(rhs)
	}

	cur, err := a.lhs.Read()
	if err != nil {
		return err
	}
	var result value.Value
	switch a.op {
	case AssignAdd:
		result, err = value.Add(cur, rhs)
	case AssignSub:
		result, err = value.Sub(cur, rhs)
	case AssignMul:
		result, err = value.Mul(cur, rhs)
	case AssignDiv:
		result, err = value.Div(cur, rhs)
	case AssignMod:
		result, err = value.Mod(cur, rhs)
	case AssignAnd:
		result, err = value.And(cur, rhs)
	case AssignOr:
		result, err = value.Or(cur, rhs)
	case AssignXor:
		result, err = value.Xor(cur, rhs)
	case AssignShl:
		result, err = value.Shl(cur, rhs)
	case AssignShr:
		result, err = value.Shr(cur, rhs)
	default:
		return opresult.ErrExecutionFailed
	}
	if err != nil {
		return err
	}
	return a.lhs.Write(result)
}
