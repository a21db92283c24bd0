package cdl

import (
	"regexp"
	"strings"

	"geoproof/internal/gradertypes"
)

var (
	reDegreeSymbol   = regexp.MustCompile(`[°]`)
	reAnglePrefix    = regexp.MustCompile(`m?∠`)
	reOuterPredicate = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)
)

// ParseClaim runs the full C1 pipeline over one claim's raw CDL text:
// strip decorations, repair legacy shorthand, rewrite bare equality,
// extract the outer predicate, and (for Equal) normalize both operands
// into an Expression tree. centerHint is the circle-center letter needed
// by the CYCLIC_QUADRILATERAL repair, taken from the owning ProblemSpec.
func ParseClaim(claimCDL string, centerHint string) (*gradertypes.Claim, error) {
	text := stripDecorations(claimCDL)

	if isLegacyShorthand(text) {
		repaired := RepairLegacyShorthand(text, centerHint)
		if repaired == text && strings.Contains(strings.ToUpper(text), "CYCLIC_QUADRILATERAL") {
			return nil, newSyntaxError(claimCDL, "CYCLIC_QUADRILATERAL repair requires a known circle center")
		}
		text = repaired
	}

	text = rewriteBareEquality(text)

	if !bracketsBalanced(text) {
		return nil, newSyntaxError(claimCDL, "unbalanced brackets")
	}

	match := reOuterPredicate.FindStringSubmatch(text)
	if match == nil {
		return nil, newSyntaxError(claimCDL, "top-level shape is not Name(args)")
	}
	predicate, args := match[1], match[2]

	if predicate == gradertypes.PredEqual {
		tree, err := parseEqualOperands(args)
		if err != nil {
			return nil, err
		}
		return &gradertypes.Claim{Predicate: gradertypes.PredEqual, ExpressionTree: tree}, nil
	}

	item := flattenPoints(args)
	if predicate == gradertypes.PredMeasureOfAngle {
		item = canonicalAngleItem(item)
	}
	return &gradertypes.Claim{Predicate: predicate, Item: item}, nil
}

// stripDecorations removes degree symbols and angle-measure prefixes the
// student may have typed around an otherwise well-formed claim.
func stripDecorations(cdl string) string {
	text := reDegreeSymbol.ReplaceAllString(cdl, "")
	text = reAnglePrefix.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// rewriteBareEquality rewrites a top-level "lhs = rhs" not already wrapped
// in Equal(...) into Equal(lhs,rhs), before any arity or bracket check
// runs — the rewrite happens inline, ahead of validation, not as a
// post-processing step.
func rewriteBareEquality(cdl string) string {
	text := strings.TrimSpace(cdl)
	if strings.HasPrefix(text, gradertypes.PredEqual+"(") {
		return text
	}
	parts := splitTopLevel(text, '=')
	if len(parts) != 2 {
		return text
	}
	lhs := strings.TrimSpace(parts[0])
	rhs := strings.TrimSpace(parts[1])
	if lhs == "" || rhs == "" {
		return text
	}
	return gradertypes.PredEqual + "(" + lhs + "," + rhs + ")"
}

// parseEqualOperands splits an Equal(...) argument string at the top-level
// comma and normalizes each side into an Expression tree.
func parseEqualOperands(args string) (*gradertypes.Expression, error) {
	parts := splitByComma(args)
	if len(parts) != 2 {
		return nil, newSyntaxError(args, "Equal requires exactly two operands")
	}
	lhs, err := normalizeExpression(parts[0])
	if err != nil {
		return nil, err
	}
	rhs, err := normalizeExpression(parts[1])
	if err != nil {
		return nil, err
	}
	return gradertypes.Equal(lhs, rhs), nil
}
