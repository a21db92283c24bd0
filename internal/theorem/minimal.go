package theorem

import (
	"sort"

	"geoproof/internal/gradertypes"
	"geoproof/internal/kb"
)

// Canonical theorem names MinimalAdapter recognizes. This vocabulary also
// doubles as the Matcher's dictionary — see NewMinimalAdapter.
const (
	TheoremCircleRadiusEqual = "circle_property_radius_equal"
	TheoremTwoSidesEqual     = "two_sides_equal"
)

type theoremRule func(k *kb.KB, params []string) (*Update, bool)

// MinimalAdapter is an in-process Adapter backed directly by the knowledge
// base, with a small fixed registry of theorem rules rather than a general
// deductive solver. It is grounded on the subset of circle and triangle
// reasoning the worked examples exercise; anything outside that registry
// reports InvalidTheorem via a failed ApplyTheorem, which the verifier
// handles the same way it would a solver that ran out of moves.
type MinimalAdapter struct {
	kb    *kb.KB
	goal  *gradertypes.Goal
	rules map[string]theoremRule
}

// NewMinimalAdapter builds an adapter over a live knowledge base. The KB is
// expected to already hold the ProblemSpec's given facts by the time any
// step is verified — seeding the KB from CDL text is the grader's job
// (internal/grader's seedGivens, parsing through internal/cdl), not the
// adapter's.
func NewMinimalAdapter(k *kb.KB) *MinimalAdapter {
	return &MinimalAdapter{
		kb: k,
		rules: map[string]theoremRule{
			TheoremCircleRadiusEqual: circlePropertyRadiusEqual,
			TheoremTwoSidesEqual:     twoSidesEqual,
		},
	}
}

// Load records the problem's goal. The knowledge base itself is seeded
// separately, before the first step is verified.
func (a *MinimalAdapter) Load(spec *gradertypes.ProblemSpec) error {
	a.goal = spec.Goal
	return nil
}

// KnownTheorems returns the adapter's registered rule names, sorted.
func (a *MinimalAdapter) KnownTheorems() []string {
	names := make([]string, 0, len(a.rules))
	for name := range a.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheorem dispatches to the matching registered rule. An unregistered
// canonical name is a programmer error from the caller (the matcher must
// only ever return a name from KnownTheorems), surfaced here as failure
// rather than a panic.
func (a *MinimalAdapter) ApplyTheorem(name string, params []string) (*Update, bool) {
	rule, ok := a.rules[name]
	if !ok {
		return nil, false
	}
	return rule(a.kb, params)
}

// CheckGoal resolves the loaded ProblemSpec's goal against current
// knowledge base state: Equal goals check equation-system entailment
// directly; Value goals scan for a recorded equation whose one side
// structurally matches the requested expression and reports the other
// side's literal as the answer.
func (a *MinimalAdapter) CheckGoal() GoalStatus {
	if a.goal == nil {
		return GoalStatus{Kind: GoalUnproved}
	}

	switch a.goal.Kind {
	case gradertypes.GoalEqual:
		if a.kb.HasEquation(gradertypes.Equal(a.goal.LHS, a.goal.RHS)) {
			return GoalStatus{Kind: GoalProved}
		}
		return GoalStatus{Kind: GoalUnproved}

	case gradertypes.GoalValue:
		for _, eqn := range a.kb.Equations() {
			if answer, ok := resolveValueGoal(a.goal.Value, eqn.Expression); ok {
				return GoalStatus{Kind: GoalProvedWithAnswer, Answer: answer}
			}
		}
		return GoalStatus{Kind: GoalUnproved}

	default:
		return GoalStatus{Kind: GoalUnproved}
	}
}

// resolveValueGoal checks whether eqn (an Equal-kind expression) pins down
// target's value, returning the literal on the opposite side when it does.
func resolveValueGoal(target, eqn *gradertypes.Expression) (float64, bool) {
	if eqn == nil || eqn.Kind != gradertypes.ExprEqual {
		return 0, false
	}
	if exprEqual(eqn.Left, target) && eqn.Right != nil && eqn.Right.Kind == gradertypes.ExprLiteral {
		return eqn.Right.Value, true
	}
	if exprEqual(eqn.Right, target) && eqn.Left != nil && eqn.Left.Kind == gradertypes.ExprLiteral {
		return eqn.Left.Value, true
	}
	return 0, false
}

// exprEqual is a structural equality check over normalized expression
// trees. Angle/length items are already canonicalized by the CDL parser at
// construction time, so a plain recursive comparison suffices here without
// re-invoking any parsing logic.
func exprEqual(a, b *gradertypes.Expression) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case gradertypes.ExprEqual, gradertypes.ExprAdd, gradertypes.ExprMul:
		return exprEqual(a.Left, b.Left) && exprEqual(a.Right, b.Right)
	case gradertypes.ExprMeasure, gradertypes.ExprLength:
		return itemEqual(a.Item, b.Item)
	case gradertypes.ExprLiteral:
		return a.Value == b.Value
	case gradertypes.ExprSymbol:
		return a.Name == b.Name
	default:
		return false
	}
}

func itemEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// circlePropertyRadiusEqual treats params[0] as the circle center: it
// confirms the center is known (IsCentreOfCircle(center,center)) and a
// Cocircular fact names it as center, then records Equal(Length) equations
// for every pair of the circle's actual member points. It is deliberately
// not restricted to the student's specific claimed pair — Scenario B's
// "point not on the circle" case must still find a circle and succeed at
// this layer, failing instead at the claimed-conclusion check the step
// verifier performs afterward (WrongConclusion, not InvalidTheorem).
func circlePropertyRadiusEqual(k *kb.KB, params []string) (*Update, bool) {
	if len(params) < 1 {
		return nil, false
	}
	center := params[0]
	if !k.Has(gradertypes.PredIsCentreOfCircle, []string{center, center}) {
		return nil, false
	}

	var members []string
	for _, fact := range k.ItemsOf(gradertypes.PredCocircular) {
		if len(fact.Item) > 0 && fact.Item[0] == center {
			members = fact.Item[1:]
			break
		}
	}
	if len(members) < 2 {
		return nil, false
	}

	var newIDs []int
	tag := gradertypes.TheoremAppliedTag(TheoremCircleRadiusEqual, params)
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			expr := gradertypes.Equal(
				gradertypes.Length([]string{center, members[i]}),
				gradertypes.Length([]string{center, members[j]}),
			)
			if added, id := k.AddEquation(expr, nil, tag); added {
				newIDs = append(newIDs, id)
			}
		}
	}
	return &Update{NewFactIDs: newIDs}, true
}

// twoSidesEqual treats params as an ordered (A, O, C) triangle with O as
// apex: if any pairing of its sides is already known equal in the equation
// system, it records IsoscelesTriangle(A,O,C).
func twoSidesEqual(k *kb.KB, params []string) (*Update, bool) {
	if len(params) != 3 {
		return nil, false
	}
	a, o, c := params[0], params[1], params[2]

	candidatePairs := [][2][]string{
		{{o, a}, {o, c}},
		{{a, o}, {a, c}},
		{{c, o}, {c, a}},
	}
	for _, pair := range candidatePairs {
		expr := gradertypes.Equal(gradertypes.Length(pair[0]), gradertypes.Length(pair[1]))
		if k.HasEquation(expr) {
			_, id := k.Add(gradertypes.PredIsoscelesTriangle, []string{a, o, c}, nil,
				gradertypes.TheoremAppliedTag(TheoremTwoSidesEqual, params))
			return &Update{NewFactIDs: []int{id}}, true
		}
	}
	return nil, false
}
