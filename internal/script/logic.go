package script

import "github.com/nerrad567/gray-logic-core/internal/opresult"

// LogicNode is one node of the logic tree folded from a compiled RPN
// stream (spec.md §4.7): a leaf holds an arithmetic+comparison RPN
// slice evaluated on the interpreter's value stack; an inner node
// holds a short-circuiting && or || over two subtrees.
type LogicNode struct {
	Leaf  []CToken // non-nil only on leaves
	Op    OpCode   // OpLAnd or OpLOr, valid only on inner nodes
	Left  *LogicNode
	Right *LogicNode
}

func (n *LogicNode) isLeaf() bool { return n.Leaf != nil }

// pending is a build-stack entry: either an already-folded subtree
// (from a nested &&/||) or an arithmetic/comparison leaf still being
// extended token by token. start is the index of the first RPN token
// the entry covers, in both cases.
type pending struct {
	tree  *LogicNode
	start int
}

func (p pending) finalize(rpn []CToken, end int) *LogicNode {
	if p.tree != nil {
		return p.tree
	}
	return &LogicNode{Leaf: rpn[p.start:end]}
}

// BuildLogicTree scans a compiled RPN stream left to right on a small
// build stack: each operand opens a one-token pending leaf; each
// arithmetic or comparison operator merges the top two pending leaves
// into one (extending its span to cover the operator); each logic
// operator (&&/||) closes its top two stack entries into finished
// subtrees and pushes a new inner node. A well-formed stream ends with
// exactly one entry on the stack. Grounded on the source's
// BuildLogicTree, generalised from its flat-slice description to
// handle two bare operands joined directly by a logic operator with
// no intervening comparison (e.g. `x && y`).
func BuildLogicTree(rpn []CToken) (*LogicNode, error) {
	if len(rpn) == 0 {
		return nil, opresult.ErrExpressionEmpty
	}

	var stack []pending
	pop := func() (pending, error) {
		if len(stack) == 0 {
			return pending{}, opresult.ErrLogicRPNUnbalanced
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return p, nil
	}

	for i, t := range rpn {
		if !t.IsOperator {
			stack = append(stack, pending{start: i})
			continue
		}
		if t.Op.IsLogic() {
			b, err := pop()
			if err != nil {
				return nil, err
			}
			a, err := pop()
			if err != nil {
				return nil, err
			}
			bNode := b.finalize(rpn, i)
			aNode := a.finalize(rpn, b.start)
			stack = append(stack, pending{tree: &LogicNode{Op: t.Op, Left: aNode, Right: bNode}, start: a.start})
			continue
		}
		// Arithmetic or comparison operator: merge the two operands
		// immediately below it into one extended pending leaf.
		b, err := pop()
		if err != nil {
			return nil, err
		}
		a, err := pop()
		if err != nil {
			return nil, err
		}
		if a.tree != nil || b.tree != nil {
			return nil, opresult.ErrLogicRPNUnbalanced
		}
		stack = append(stack, pending{start: a.start})
	}

	if len(stack) != 1 {
		return nil, opresult.ErrLogicRPNUnbalanced
	}
	return stack[0].finalize(rpn, len(rpn)), nil
}
