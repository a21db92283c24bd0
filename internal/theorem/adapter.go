// Package theorem implements the theorem engine adapter boundary and the
// informal-to-canonical theorem name matcher the step verifier consults
// when a student cites a theorem by name.
//
// The adapter is an opaque facade: the verifier never inspects how a
// theorem was checked, only whether Load/ApplyTheorem/CheckGoal succeeded.
// MinimalAdapter is the in-process implementation this core ships with; it
// knows a small, explicit set of canonical theorems rather than performing
// general geometric deduction — a minimal implementation may provide only
// has/add semantics and return Unproved from CheckGoal.
package theorem

import "geoproof/internal/gradertypes"

// Update is the set of new facts a successful ApplyTheorem call produced.
// An empty, non-nil Update still counts as success (the theorem's
// preconditions held, it simply had nothing new to contribute).
type Update struct {
	NewFactIDs []int
}

// GoalStatusKind distinguishes the three shapes a goal check can resolve to.
type GoalStatusKind string

const (
	GoalProved           GoalStatusKind = "proved"
	GoalProvedWithAnswer GoalStatusKind = "proved_with_answer"
	GoalUnproved         GoalStatusKind = "unproved"
)

// GoalStatus is the result of Adapter.CheckGoal.
type GoalStatus struct {
	Kind   GoalStatusKind
	Answer float64 // meaningful only when Kind == GoalProvedWithAnswer
}

// Adapter is the theorem engine boundary consumed by the step verifier (C5).
// An implementation may delegate to an external deductive solver or may be
// purely KB-driven; either is acceptable and the verifier is unchanged.
type Adapter interface {
	// Load seeds the adapter's view of the problem from a ProblemSpec. It
	// is called once, before any step is verified.
	Load(spec *gradertypes.ProblemSpec) error

	// ApplyTheorem attempts to apply a canonical theorem with a flattened
	// parameter tuple derived from the claim's item. Returns nil, false
	// when the theorem's preconditions are not met in the current KB
	// state. Must be deterministic given KB state and params.
	ApplyTheorem(name string, params []string) (*Update, bool)

	// CheckGoal reports whether the loaded ProblemSpec's goal is currently
	// entailed by the knowledge base.
	CheckGoal() GoalStatus

	// KnownTheorems lists the adapter's canonical theorem name vocabulary,
	// the dictionary the name matcher (C4) searches.
	KnownTheorems() []string
}
