package cdl

import (
	"regexp"
	"strings"
)

var (
	reCollinear           = regexp.MustCompile(`(?i)^COLLINEAR\((.*)\)$`)
	reCyclicQuadrilateral = regexp.MustCompile(`(?i)^CYCLIC_QUADRILATERAL\(([A-Za-z]{4})\)$`)
	reEqualAngle          = regexp.MustCompile(`(?i)^EQUAL_ANGLE\(([A-Za-z]{3}),([A-Za-z]{3})\)$`)
	reEqualLength         = regexp.MustCompile(`(?i)^EQUAL_LENGTH\(([A-Za-z]{2}),([A-Za-z]{2})\)$`)
	reMeasureEquals       = regexp.MustCompile(`^(MeasureOfAngle|LengthOfLine)\(([A-Za-z0-9]+)\)\s*=\s*(.+)$`)
	reAngleMeasure        = regexp.MustCompile(`(?i)^ANGLE_MEASURE\(([A-Za-z]{3}),\s*([0-9]+(?:\.[0-9]+)?)\)$`)
	reAngleMeasureRel     = regexp.MustCompile(`(?i)^ANGLE_MEASURE_RELATION\(([A-Za-z]{3}),\s*([0-9]+)\*([A-Za-z]{3})\)$`)
	reAngleRelation       = regexp.MustCompile(`(?i)^ANGLE_RELATION\(([A-Za-z]{3}),\s*([0-9]+)\*([A-Za-z]{3})\)$`)

	reCentreOfCircleSelf = regexp.MustCompile(`^IsCentreOfCircle\(([A-Z]),([A-Z])\)$`)
	reCocircularPrefix   = regexp.MustCompile(`^Cocircular\(([A-Z]),`)
)

// RepairLegacyShorthand rewrites a known legacy shorthand predicate into
// its canonical CDL form. centerHint supplies the circle-center letter
// needed to rewrite CYCLIC_QUADRILATERAL; when that rewrite is attempted
// without a hint, the shorthand is left untouched and the caller's
// subsequent parse will fail with a SyntaxError — a center hint is
// required, not optional, for this rewrite.
func RepairLegacyShorthand(cdl string, centerHint string) string {
	text := strings.TrimSpace(cdl)

	if m := reCollinear.FindStringSubmatch(text); m != nil {
		inner := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(m[1], ",", ""), " ", ""))
		if len(inner) >= 3 {
			return "Collinear(" + inner + ")"
		}
	}

	if m := reCyclicQuadrilateral.FindStringSubmatch(text); m != nil && centerHint != "" {
		return "Cocircular(" + centerHint + "," + strings.ToUpper(m[1]) + ")"
	}

	if m := reEqualAngle.FindStringSubmatch(text); m != nil {
		return "Equal(MeasureOfAngle(" + strings.ToUpper(m[1]) + "),MeasureOfAngle(" + strings.ToUpper(m[2]) + "))"
	}

	if m := reEqualLength.FindStringSubmatch(text); m != nil {
		return "Equal(LengthOfLine(" + strings.ToUpper(m[1]) + "),LengthOfLine(" + strings.ToUpper(m[2]) + "))"
	}

	if m := reMeasureEquals.FindStringSubmatch(text); m != nil {
		return "Equal(" + m[1] + "(" + m[2] + ")," + strings.TrimSpace(m[3]) + ")"
	}

	if m := reAngleMeasure.FindStringSubmatch(text); m != nil {
		return "Equal(MeasureOfAngle(" + strings.ToUpper(m[1]) + ")," + m[2] + ")"
	}

	if m := reAngleMeasureRel.FindStringSubmatch(text); m != nil {
		return "Equal(MeasureOfAngle(" + strings.ToUpper(m[1]) + ")," + m[2] + "*MeasureOfAngle(" + strings.ToUpper(m[3]) + "))"
	}

	if m := reAngleRelation.FindStringSubmatch(text); m != nil {
		return "Equal(MeasureOfAngle(" + strings.ToUpper(m[1]) + ")," + m[2] + "*MeasureOfAngle(" + strings.ToUpper(m[3]) + "))"
	}

	return text
}

// isLegacyShorthand reports whether cdl begins with a predicate name this
// package knows how to repair, so callers can decide whether to attempt
// RepairLegacyShorthand before parsing.
func isLegacyShorthand(cdl string) bool {
	for _, prefix := range []string{
		"COLLINEAR(", "CYCLIC_QUADRILATERAL(", "EQUAL_ANGLE(", "EQUAL_LENGTH(",
		"ANGLE_MEASURE(", "ANGLE_MEASURE_RELATION(", "ANGLE_RELATION(",
	} {
		if strings.HasPrefix(strings.ToUpper(cdl), prefix) {
			return true
		}
	}
	return false
}

// InferCenterHint finds the circle-center letter declared by the problem,
// either via a self-referential IsCentreOfCircle(P,P) entry in text_cdl or
// the first letter of a Cocircular(...) declaration in construction_cdl.
func InferCenterHint(textCDL, constructionCDL []string) string {
	for _, item := range textCDL {
		if m := reCentreOfCircleSelf.FindStringSubmatch(strings.TrimSpace(item)); m != nil && m[1] == m[2] {
			return m[1]
		}
	}
	for _, item := range constructionCDL {
		if m := reCocircularPrefix.FindStringSubmatch(strings.TrimSpace(item)); m != nil {
			return m[1]
		}
	}
	return ""
}
