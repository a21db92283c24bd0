package cdl

import (
	"regexp"
	"strings"

	"geoproof/internal/gradertypes"
)

var (
	reIsoscelesTri3      = regexp.MustCompile(`IsoscelesTriangle\(\s*([A-Z]{3})\s*\)`)
	reRightTri3          = regexp.MustCompile(`RightTriangle\(\s*([A-Z]{3})\s*\)`)
	reCongruentTriangles = regexp.MustCompile(`CongruentBetweenTriangle\(\s*([A-Z]{3})\s*,\s*([A-Z]{3})\s*\)`)
	reMeasureOfAngle3    = regexp.MustCompile(`MeasureOfAngle\(\s*([A-Z]{3})\s*\)`)

	reGoalValue       = regexp.MustCompile(`^Value\((.*)\)$`)
	reEqualToLiteralL = regexp.MustCompile(`^Equal\(\s*([^,]+)\s*,\s*([0-9]+(?:\.[0-9]+)?)\s*\)$`)
	reEqualToLiteralR = regexp.MustCompile(`^Equal\(\s*([0-9]+(?:\.[0-9]+)?)\s*,\s*([^,]+)\s*\)$`)
)

// LoadProblemSpec builds the working ProblemSpec the grading core operates
// on from the raw construction/text/goal CDL lists the formalizer produced.
// It defensively re-runs the promotion steps formalgeo's app.py performs
// (_ensure_triangle_constructions, _promote_construction_predicates) so a
// slightly malformed upstream problem still loads instead of failing
// outright. Returns InitError when the construction cannot be resolved at
// all.
func LoadProblemSpec(constructionCDL, textCDL []string, goalCDL string, problemAnswer string) (*gradertypes.ProblemSpec, error) {
	construction := append([]string(nil), constructionCDL...)
	text := append([]string(nil), textCDL...)

	construction = ensureTriangleConstructions(construction, text)
	construction, text = promoteConstructionPredicates(construction, text)

	for _, cdl := range construction {
		segments, err := ParseShapeSegments(cdl)
		if err != nil {
			continue // not a Shape(...) declaration; nothing to validate
		}
		if err := ValidateShapeChain(segments); err != nil {
			return nil, &InitError{Reason: err.Error()}
		}
	}

	goal, err := parseGoal(goalCDL)
	if err != nil {
		return nil, &InitError{Reason: err.Error()}
	}

	return &gradertypes.ProblemSpec{
		ConstructionCDL: construction,
		TextCDL:         text,
		GoalCDL:         goalCDL,
		Goal:            goal,
		ProblemAnswer:   problemAnswer,
	}, nil
}

// parseGoal decodes goal_cdl into one of its two recognized shapes:
// Value(expr) or Equal(lhs,rhs).
func parseGoal(goalCDL string) (*gradertypes.Goal, error) {
	goalCDL = strings.TrimSpace(goalCDL)
	if m := reGoalValue.FindStringSubmatch(goalCDL); m != nil {
		expr, err := normalizeExpression(m[1])
		if err != nil {
			return nil, err
		}
		return &gradertypes.Goal{Kind: gradertypes.GoalValue, Value: expr}, nil
	}
	if strings.HasPrefix(goalCDL, gradertypes.PredEqual+"(") {
		claim, err := ParseClaim(goalCDL, "")
		if err != nil {
			return nil, err
		}
		return &gradertypes.Goal{Kind: gradertypes.GoalEqual, LHS: claim.ExpressionTree.Left, RHS: claim.ExpressionTree.Right}, nil
	}
	return nil, newSyntaxError(goalCDL, "unrecognized goal shape")
}

// ensureTriangleConstructions scans text_cdl for IsoscelesTriangle,
// RightTriangle, CongruentBetweenTriangle, and MeasureOfAngle references and
// adds the implied Shape(...) declaration to construction_cdl when absent,
// mirroring _ensure_triangle_constructions.
func ensureTriangleConstructions(construction, text []string) []string {
	existing := make(map[string]bool, len(construction))
	for _, c := range construction {
		existing[c] = true
	}

	var triangles []string
	for _, cdl := range text {
		triangles = append(triangles, extractTriangleLetters(cdl)...)
	}

	for _, tri := range triangles {
		if len(tri) != 3 {
			continue
		}
		a, b, c := tri[0:1], tri[1:2], tri[2:3]
		shape := "Shape(" + a + b + "," + b + c + "," + c + a + ")"
		if !existing[shape] {
			construction = append(construction, shape)
			existing[shape] = true
		}
	}
	return construction
}

func extractTriangleLetters(cdl string) []string {
	var out []string
	if m := reIsoscelesTri3.FindStringSubmatch(cdl); m != nil {
		out = append(out, m[1])
	}
	if m := reRightTri3.FindStringSubmatch(cdl); m != nil {
		out = append(out, m[1])
	}
	if m := reCongruentTriangles.FindStringSubmatch(cdl); m != nil {
		out = append(out, m[1], m[2])
	}
	for _, m := range reMeasureOfAngle3.FindAllStringSubmatch(cdl, -1) {
		out = append(out, m[1])
	}
	return out
}

// promoteConstructionPredicates moves any Cocircular/Collinear/Shape (or
// legacy Cyclic) entries that landed in text_cdl into construction_cdl,
// mirroring _promote_construction_predicates.
func promoteConstructionPredicates(construction, text []string) ([]string, []string) {
	existing := make(map[string]bool, len(construction))
	for _, c := range construction {
		existing[c] = true
	}

	kept := make([]string, 0, len(text))
	for _, cdl := range text {
		promoted := cdl
		if strings.HasPrefix(promoted, "Cyclic(") {
			promoted = strings.Replace(promoted, "Cyclic(", "Cocircular(", 1)
		}
		if strings.HasPrefix(promoted, "Cocircular(") || strings.HasPrefix(promoted, "Collinear(") || strings.HasPrefix(promoted, "Shape(") {
			if !existing[promoted] {
				construction = append(construction, promoted)
				existing[promoted] = true
			}
			continue
		}
		kept = append(kept, cdl)
	}
	return construction, kept
}

// InferGoalEqualFromClaims recognizes a Value(expr) goal as already proved
// by a step claim Equal(expr, N) for a literal N, comparing under angle
// canonicalization rather than only via the equation system. Returns the
// matched claim string, or "" when no claim establishes the goal directly.
func InferGoalEqualFromClaims(goalCDL string, claimCDLs []string) string {
	if !strings.HasPrefix(goalCDL, "Value(") || !strings.HasSuffix(goalCDL, ")") {
		return ""
	}
	target := strings.TrimSpace(goalCDL[len("Value(") : len(goalCDL)-1])
	if target == "" {
		return ""
	}
	normalizedTarget := normalizeAngleNotationText(target)

	for _, claim := range claimCDLs {
		if m := reEqualToLiteralL.FindStringSubmatch(claim); m != nil {
			expr := strings.ReplaceAll(m[1], " ", "")
			if normalizeAngleNotationText(expr) == strings.ReplaceAll(normalizedTarget, " ", "") {
				return "Equal(" + m[1] + "," + m[2] + ")"
			}
		}
		if m := reEqualToLiteralR.FindStringSubmatch(claim); m != nil {
			expr := strings.ReplaceAll(m[2], " ", "")
			if normalizeAngleNotationText(expr) == strings.ReplaceAll(normalizedTarget, " ", "") {
				return "Equal(" + m[2] + "," + m[1] + ")"
			}
		}
	}
	return ""
}

var reMeasureOfAngleNotation = regexp.MustCompile(`^MeasureOfAngle\(([A-Z])([A-Z])([A-Z])\)$`)

// normalizeAngleNotationText canonicalizes a bare MeasureOfAngle(XYZ) text
// form the same way canonicalAngleItem does for parsed expressions, so
// string-level goal inference agrees with the parser's own canonicalization.
func normalizeAngleNotationText(text string) string {
	text = strings.TrimSpace(text)
	m := reMeasureOfAngleNotation.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	p1, vertex, p3 := m[1], m[2], m[3]
	if p1 > p3 {
		return "MeasureOfAngle(" + p3 + vertex + p1 + ")"
	}
	return text
}
