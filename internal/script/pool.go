package script

// StackDepth estimates the operator-stack depth BuildRPN needs for expr
// (spec.md §4.5's dry run). It scans expr once, adds one at each
// operator and each '(', subtracts one at each ')', and returns the
// largest count seen at an operator. Operators are not popped by
// precedence as BuildRPN pops them, so the result is not BuildRPN's
// exact operator-stack peak: it is higher for most expressions with
// several operators, and lower when parentheses enclose a lone operand.
// The RPN output length is not computed.
func StackDepth(expr string) (int, error) {
	items, err := scan(expr)
	if err != nil {
		return 0, err
	}
	depth, maxDepth := 0, 0
	for _, it := range items {
		switch it.kind {
		case scanOpenParen:
			depth++
		case scanCloseParen:
			depth--
		case scanOperator:
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		}
	}
	return maxDepth, nil
}
