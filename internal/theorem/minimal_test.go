package theorem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoproof/internal/gradertypes"
	"geoproof/internal/kb"
)

func seedCircle(t *testing.T, k *kb.KB) {
	t.Helper()
	k.Add(gradertypes.PredCocircular, []string{"O", "A", "B", "C"}, nil, gradertypes.GivenTag())
	k.Add(gradertypes.PredIsCentreOfCircle, []string{"O", "O"}, nil, gradertypes.GivenTag())
}

func TestCirclePropertyRadiusEqual_SucceedsAndRecordsPairwiseEquations(t *testing.T) {
	k := kb.New()
	seedCircle(t, k)
	a := NewMinimalAdapter(k)

	update, ok := a.ApplyTheorem(TheoremCircleRadiusEqual, []string{"O"})
	require.True(t, ok)
	assert.NotEmpty(t, update.NewFactIDs)

	expr := gradertypes.Equal(gradertypes.Length([]string{"O", "A"}), gradertypes.Length([]string{"O", "B"}))
	assert.True(t, k.HasEquation(expr))
}

func TestCirclePropertyRadiusEqual_UnknownCenterFails(t *testing.T) {
	k := kb.New()
	seedCircle(t, k)
	a := NewMinimalAdapter(k)

	_, ok := a.ApplyTheorem(TheoremCircleRadiusEqual, []string{"Z"})
	assert.False(t, ok)
}

func TestCirclePropertyRadiusEqual_ClaimedPointOffCircleStillSucceedsAtThisLayer(t *testing.T) {
	// Scenario B: D is not on the circle, but the theorem still finds a
	// valid circle+center and produces equations over the real members —
	// the mismatch is caught later by the step verifier's has(claim) check,
	// not by ApplyTheorem itself.
	k := kb.New()
	seedCircle(t, k)
	a := NewMinimalAdapter(k)

	update, ok := a.ApplyTheorem(TheoremCircleRadiusEqual, []string{"O"})
	require.True(t, ok)
	assert.NotEmpty(t, update.NewFactIDs)

	claimedExpr := gradertypes.Equal(gradertypes.Length([]string{"O", "A"}), gradertypes.Length([]string{"O", "D"}))
	assert.False(t, k.HasEquation(claimedExpr))
}

func TestTwoSidesEqual_SucceedsWhenSidesAlreadyEqual(t *testing.T) {
	k := kb.New()
	expr := gradertypes.Equal(gradertypes.Length([]string{"O", "A"}), gradertypes.Length([]string{"O", "C"}))
	k.AddEquation(expr, nil, gradertypes.AlgebraicConstraintTag(1))

	a := NewMinimalAdapter(k)
	update, ok := a.ApplyTheorem(TheoremTwoSidesEqual, []string{"A", "O", "C"})
	require.True(t, ok)
	require.Len(t, update.NewFactIDs, 1)
	assert.True(t, k.Has(gradertypes.PredIsoscelesTriangle, []string{"A", "O", "C"}))
}

func TestTwoSidesEqual_FailsWithoutKnownEqualSides(t *testing.T) {
	k := kb.New()
	a := NewMinimalAdapter(k)
	_, ok := a.ApplyTheorem(TheoremTwoSidesEqual, []string{"A", "O", "C"})
	assert.False(t, ok)
}

func TestApplyTheorem_UnknownNameFails(t *testing.T) {
	k := kb.New()
	a := NewMinimalAdapter(k)
	_, ok := a.ApplyTheorem("magic_angle_thm", []string{"A"})
	assert.False(t, ok)
}

func TestCheckGoal_EqualGoalProved(t *testing.T) {
	k := kb.New()
	expr := gradertypes.Equal(gradertypes.Measure([]string{"A", "C", "B"}), gradertypes.Literal(90))
	k.AddEquation(expr, nil, gradertypes.AlgebraicConstraintTag(1))

	a := NewMinimalAdapter(k)
	require.NoError(t, a.Load(&gradertypes.ProblemSpec{
		Goal: &gradertypes.Goal{Kind: gradertypes.GoalEqual, LHS: expr.Left, RHS: expr.Right},
	}))

	status := a.CheckGoal()
	assert.Equal(t, GoalProved, status.Kind)
}

func TestCheckGoal_EqualGoalUnproved(t *testing.T) {
	k := kb.New()
	a := NewMinimalAdapter(k)
	require.NoError(t, a.Load(&gradertypes.ProblemSpec{
		Goal: &gradertypes.Goal{
			Kind: gradertypes.GoalEqual,
			LHS:  gradertypes.Measure([]string{"A", "C", "B"}),
			RHS:  gradertypes.Literal(90),
		},
	}))

	assert.Equal(t, GoalUnproved, a.CheckGoal().Kind)
}

func TestCheckGoal_ValueGoalResolvesAnswer(t *testing.T) {
	k := kb.New()
	target := gradertypes.Measure([]string{"D", "E", "F"})
	k.AddEquation(gradertypes.Equal(target, gradertypes.Literal(40)), nil, gradertypes.AlgebraicConstraintTag(1))

	a := NewMinimalAdapter(k)
	require.NoError(t, a.Load(&gradertypes.ProblemSpec{
		Goal: &gradertypes.Goal{Kind: gradertypes.GoalValue, Value: gradertypes.Measure([]string{"D", "E", "F"})},
	}))

	status := a.CheckGoal()
	require.Equal(t, GoalProvedWithAnswer, status.Kind)
	assert.Equal(t, 40.0, status.Answer)
}

func TestCheckGoal_NoGoalLoadedIsUnproved(t *testing.T) {
	k := kb.New()
	a := NewMinimalAdapter(k)
	assert.Equal(t, GoalUnproved, a.CheckGoal().Kind)
}

func TestKnownTheorems_IsSortedAndComplete(t *testing.T) {
	a := NewMinimalAdapter(kb.New())
	assert.Equal(t, []string{TheoremCircleRadiusEqual, TheoremTwoSidesEqual}, a.KnownTheorems())
}
