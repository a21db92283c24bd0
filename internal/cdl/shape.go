package cdl

import "strings"

// ParseShapeSegments splits a Shape(s1,...,sk) construction declaration's
// argument list into its two-letter edge segments, preserving order.
func ParseShapeSegments(cdl string) ([]string, error) {
	match := reOuterPredicate.FindStringSubmatch(strings.TrimSpace(cdl))
	if match == nil || match[1] != "Shape" {
		return nil, newSyntaxError(cdl, "not a Shape(...) declaration")
	}
	segments := splitByComma(match[2])
	for i, seg := range segments {
		segments[i] = strings.TrimSpace(seg)
	}
	return segments, nil
}

// ValidateShapeChain enforces the Shape invariant: every segment is
// exactly two letters, consecutive segments chain head-to-tail around the
// cycle, and no undirected edge repeats.
func ValidateShapeChain(segments []string) error {
	if len(segments) == 0 {
		return newSyntaxError("", "shape has no segments")
	}
	seen := make(map[string]bool, len(segments))
	for i, seg := range segments {
		if len(seg) != 2 {
			return newSyntaxError(seg, "shape segment must be exactly two letters")
		}
		next := segments[(i+1)%len(segments)]
		if len(next) != 2 {
			return newSyntaxError(next, "shape segment must be exactly two letters")
		}
		if seg[1] != next[0] {
			return newSyntaxError(seg, "shape segments do not chain")
		}
		edge := undirectedEdgeKey(seg)
		if seen[edge] {
			return newSyntaxError(seg, "shape repeats an undirected edge")
		}
		seen[edge] = true
	}
	return nil
}

// undirectedEdgeKey canonicalizes a two-letter segment so AB and BA collide.
func undirectedEdgeKey(segment string) string {
	if segment[0] <= segment[1] {
		return segment
	}
	return string(segment[1]) + string(segment[0])
}
