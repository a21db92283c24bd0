// Package cdl parses and normalizes Condition Description Language strings
// into gradertypes.Claim values, and loads a gradertypes.ProblemSpec from
// its raw construction/text/goal CDL lists.
package cdl

import "strings"

// splitTopLevel splits expr on every occurrence of sep that is not nested
// inside parentheses. It mirrors the source grader's depth-tracking split,
// used both for comma-separated Equal operands and for +/ * operator terms.
func splitTopLevel(expr string, sep byte) []string {
	var parts []string
	var current strings.Builder
	depth := 0

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '(':
			depth++
			current.WriteByte(c)
		case c == ')':
			depth--
			current.WriteByte(c)
		case c == sep && depth == 0:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// splitByComma splits a comma-separated argument list at depth 0.
func splitByComma(expr string) []string {
	return splitTopLevel(expr, ',')
}

// bracketsBalanced reports whether every '(' in s is matched and never goes
// negative, the cheapest possible well-formedness check before attempting a
// structural parse.
func bracketsBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
