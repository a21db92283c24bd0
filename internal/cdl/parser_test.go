package cdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoproof/internal/gradertypes"
)

func TestParseClaim_SimplePredicate(t *testing.T) {
	claim, err := ParseClaim("IsoscelesTriangle(ABC)", "")

	require.NoError(t, err)
	assert.Equal(t, "IsoscelesTriangle", claim.Predicate)
	assert.Equal(t, []string{"A", "B", "C"}, claim.Item)
}

func TestParseClaim_EqualLengths(t *testing.T) {
	claim, err := ParseClaim("Equal(LengthOfLine(OA),LengthOfLine(OC))", "")

	require.NoError(t, err)
	assert.Equal(t, gradertypes.PredEqual, claim.Predicate)
	require.NotNil(t, claim.ExpressionTree)
	assert.Equal(t, gradertypes.ExprEqual, claim.ExpressionTree.Kind)
	assert.Equal(t, gradertypes.ExprLength, claim.ExpressionTree.Left.Kind)
	assert.Equal(t, []string{"O", "A"}, claim.ExpressionTree.Left.Item)
	assert.Equal(t, []string{"O", "C"}, claim.ExpressionTree.Right.Item)
}

func TestParseClaim_BareEqualityRewrite(t *testing.T) {
	claim, err := ParseClaim("MeasureOfAngle(ABC) = 40", "")

	require.NoError(t, err)
	assert.Equal(t, gradertypes.PredEqual, claim.Predicate)
	assert.Equal(t, gradertypes.ExprMeasure, claim.ExpressionTree.Left.Kind)
	assert.Equal(t, float64(40), claim.ExpressionTree.Right.Value)
}

func TestParseClaim_AngleCanonicalization(t *testing.T) {
	claim, err := ParseClaim("MeasureOfAngle(CBA)", "")

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, claim.Item)
}

func TestParseClaim_AddExpansion(t *testing.T) {
	claim, err := ParseClaim("Equal(MeasureOfAngle(ABC)+MeasureOfAngle(DEF),180)", "")

	require.NoError(t, err)
	lhs := claim.ExpressionTree.Left
	assert.Equal(t, gradertypes.ExprAdd, lhs.Kind)
	assert.Equal(t, gradertypes.ExprMeasure, lhs.Left.Kind)
	assert.Equal(t, gradertypes.ExprMeasure, lhs.Right.Kind)
}

func TestParseClaim_MulExpansion(t *testing.T) {
	claim, err := ParseClaim("Equal(MeasureOfAngle(BOD),2*MeasureOfAngle(BAD))", "")

	require.NoError(t, err)
	rhs := claim.ExpressionTree.Right
	assert.Equal(t, gradertypes.ExprMul, rhs.Kind)
	assert.Equal(t, float64(2), rhs.Left.Value)
}

func TestParseClaim_UnbalancedBrackets(t *testing.T) {
	_, err := ParseClaim("IsoscelesTriangle(ABC", "")

	require.Error(t, err)
	var synErr *SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestParseClaim_LegacyAngleMeasure(t *testing.T) {
	claim, err := ParseClaim("ANGLE_MEASURE(ABC,70)", "")

	require.NoError(t, err)
	assert.Equal(t, gradertypes.PredEqual, claim.Predicate)
	assert.Equal(t, float64(70), claim.ExpressionTree.Right.Value)
}

func TestParseClaim_LegacyCollinear(t *testing.T) {
	claim, err := ParseClaim("COLLINEAR(A,B,C)", "")

	require.NoError(t, err)
	assert.Equal(t, "Collinear", claim.Predicate)
	assert.Equal(t, []string{"A", "B", "C"}, claim.Item)
}

func TestParseClaim_LegacyCyclicQuadrilateralRequiresCenterHint(t *testing.T) {
	_, err := ParseClaim("CYCLIC_QUADRILATERAL(ABCD)", "")
	require.Error(t, err)

	claim, err := ParseClaim("CYCLIC_QUADRILATERAL(ABCD)", "O")
	require.NoError(t, err)
	assert.Equal(t, "Cocircular", claim.Predicate)
	assert.Equal(t, []string{"O", "A", "B", "C", "D"}, claim.Item)
}

func TestParseClaim_RoundTripIdempotent(t *testing.T) {
	first, err := ParseClaim("MeasureOfAngle(CBA) = 40", "")
	require.NoError(t, err)

	second, err := ParseClaim("Equal(MeasureOfAngle(ABC),40)", "")
	require.NoError(t, err)

	assert.Equal(t, first.ExpressionTree.Left.Item, second.ExpressionTree.Left.Item)
	assert.Equal(t, first.ExpressionTree.Right.Value, second.ExpressionTree.Right.Value)
}
