package cdl

import "fmt"

// SyntaxError reports a CDL string the parser could not make sense of:
// unbalanced brackets, a top-level shape other than Name(args), or a broken
// arity/letter-count invariant.
type SyntaxError struct {
	Reason string
	CDL    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cdl syntax error: %s (in %q)", e.Reason, e.CDL)
}

func newSyntaxError(cdl, reason string) error {
	return &SyntaxError{Reason: reason, CDL: cdl}
}

// InitError reports a ProblemSpec the loader could not construct a
// consistent initial knowledge base from.
type InitError struct {
	Reason string
}

func (e *InitError) Error() string {
	return fmt.Sprintf("problem spec init error: %s", e.Reason)
}
