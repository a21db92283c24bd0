package kb

import (
	"fmt"
	"strings"

	"geoproof/internal/gradertypes"
)

// factKey builds the canonical (predicate, item) index key. Item equality
// is tuple equality, not set equality — two facts differ if their letters
// are in a different order.
func factKey(predicate string, item []string) string {
	return predicate + "|" + strings.Join(item, ",")
}

// exprKey renders an Expression tree into a canonical string so structurally
// identical equations compare equal regardless of how they were built.
func exprKey(e *gradertypes.Expression) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case gradertypes.ExprEqual:
		// Equal is algebraically symmetric (lhs=rhs entails rhs=lhs, the
		// same way the source's sympy-backed equation system treats an
		// equation as lhs-rhs=0 regardless of which side was written
		// first), so the two operand keys are order-independent here.
		left, right := exprKey(e.Left), exprKey(e.Right)
		if left > right {
			left, right = right, left
		}
		return "Equal(" + left + "," + right + ")"
	case gradertypes.ExprAdd:
		return "Add(" + exprKey(e.Left) + "," + exprKey(e.Right) + ")"
	case gradertypes.ExprMul:
		return "Mul(" + exprKey(e.Left) + "," + exprKey(e.Right) + ")"
	case gradertypes.ExprMeasure:
		return "MeasureOfAngle(" + strings.Join(e.Item, "") + ")"
	case gradertypes.ExprLength:
		return "LengthOfLine(" + strings.Join(e.Item, "") + ")"
	case gradertypes.ExprLiteral:
		return formatLiteral(e.Value)
	case gradertypes.ExprSymbol:
		return e.Name
	default:
		return ""
	}
}

func formatLiteral(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
