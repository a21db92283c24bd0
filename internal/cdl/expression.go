package cdl

import (
	"regexp"
	"strconv"
	"strings"

	"geoproof/internal/gradertypes"
)

var (
	reFunctionCall = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)
	reMultiply     = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*\*\s*(.+)$`)
	reNumber       = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?$`)
	rePointToken   = regexp.MustCompile(`[A-Za-z]+`)
)

// normalizeExpression folds a single Equal operand into a canonical
// Expression tree: Add/Mul wrappers around Measure/Length/Literal/Symbol
// leaves, matching formalgeo_grader.py's _normalize_expression.
func normalizeExpression(expr string) (*gradertypes.Expression, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, newSyntaxError(expr, "empty expression")
	}

	if terms := splitTopLevel(expr, '+'); len(terms) > 1 {
		left, err := normalizeExpression(terms[0])
		if err != nil {
			return nil, err
		}
		for _, term := range terms[1:] {
			right, err := normalizeExpression(term)
			if err != nil {
				return nil, err
			}
			left = gradertypes.Add(left, right)
		}
		return left, nil
	}

	if m := reMultiply.FindStringSubmatch(expr); m != nil {
		scalar, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, newSyntaxError(expr, "malformed scalar in multiplication")
		}
		operand, err := normalizeExpression(m[2])
		if err != nil {
			return nil, err
		}
		return gradertypes.Mul(gradertypes.Literal(scalar), operand), nil
	}

	if reNumber.MatchString(expr) {
		value, _ := strconv.ParseFloat(expr, 64)
		return gradertypes.Literal(value), nil
	}

	if m := reFunctionCall.FindStringSubmatch(expr); m != nil {
		name, args := m[1], m[2]
		item := flattenPoints(args)
		switch name {
		case gradertypes.PredMeasureOfAngle:
			item = canonicalAngleItem(item)
			return gradertypes.Measure(item), nil
		case gradertypes.PredLengthOfLine:
			return gradertypes.Length(item), nil
		default:
			return nil, newSyntaxError(expr, "unsupported attribution predicate "+name)
		}
	}

	// A bare point or symbolic token (e.g. a letter standing for an unknown
	// quantity in an algebraic claim).
	if rePointToken.MatchString(expr) {
		return gradertypes.Symbol(expr), nil
	}

	return nil, newSyntaxError(expr, "unrecognized expression")
}

// flattenPoints extracts point letters from a predicate argument string,
// flattening multi-letter tokens into individual letters while preserving
// order, mirroring parse_claim_to_predicate's regex-based extraction.
func flattenPoints(args string) []string {
	tokens := rePointToken.FindAllString(args, -1)
	points := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) == 1 {
			points = append(points, tok)
			continue
		}
		for _, r := range tok {
			points = append(points, string(r))
		}
	}
	return points
}

// canonicalAngleItem applies the angle-letter canonicalization rule: for a
// three-point item (P1, V, P2), reverse to (P2, V, P1) when P1 lexically
// exceeds P2, so MeasureOfAngle(XYZ) and MeasureOfAngle(ZYX) compare equal.
func canonicalAngleItem(item []string) []string {
	if len(item) != 3 {
		return item
	}
	if item[0] > item[2] {
		return []string{item[2], item[1], item[0]}
	}
	return item
}
