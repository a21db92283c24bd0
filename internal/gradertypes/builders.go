package gradertypes

import "fmt"

// ValidVerdict builds a StepVerdict for a successfully admitted claim.
func ValidVerdict(stepID int, confidence float64, redundant bool) StepVerdict {
	return StepVerdict{
		StepID:     stepID,
		Status:     VerdictValid,
		Redundant:  redundant,
		Confidence: confidence,
	}
}

// ValidVerdictWithTheorem builds a StepVerdict for a claim discharged by a
// successful theorem application.
func ValidVerdictWithTheorem(stepID int, theorem string, confidence float64) StepVerdict {
	v := ValidVerdict(stepID, confidence, false)
	v.Theorem = theorem
	return v
}

// InvalidVerdict builds a StepVerdict for a rejected claim.
func InvalidVerdict(stepID int, kind ErrorKind, details string, points int, confidence float64) StepVerdict {
	return StepVerdict{
		StepID:         stepID,
		Status:         VerdictInvalid,
		Kind:           kind,
		Details:        details,
		PointsDeducted: points,
		Confidence:     confidence,
	}
}

// InvalidVerdictWithCause builds an Invalid StepVerdict that also records
// the earlier step responsible for the failure (the cascade case).
func InvalidVerdictWithCause(stepID int, kind ErrorKind, details string, points int, confidence float64, rootCause int) StepVerdict {
	v := InvalidVerdict(stepID, kind, details, points, confidence)
	v.RootCause = rootCause
	v.HasRootCause = true
	return v
}

// UnknownVerdict builds a StepVerdict when the core cannot determine
// validity at all (reserved for adapter-unavailable degraded operation).
func UnknownVerdict(stepID int, reason string, confidence float64) StepVerdict {
	return StepVerdict{
		StepID:     stepID,
		Status:     VerdictUnknown,
		Reason:     reason,
		Confidence: confidence,
	}
}

// IsValid reports whether the verdict admitted the claim.
func (v StepVerdict) IsValid() bool {
	return v.Status == VerdictValid
}

// ToStepFeedback renders a StepVerdict into the wire-shaped StepFeedback
// entry used by GradingReport.step_feedback.
func (v StepVerdict) ToStepFeedback() StepFeedback {
	fb := StepFeedback{
		StepID:         v.StepID,
		IsValid:        v.Status == VerdictValid,
		Confidence:     v.Confidence,
		IsRedundant:    v.Redundant,
		TheoremApplied: v.Theorem,
	}
	if v.Status == VerdictInvalid {
		fb.ErrorType = string(v.Kind)
		fb.ErrorDetails = v.Details
		if v.HasRootCause {
			fb.RootCause = fmt.Sprintf("step %d", v.RootCause)
		}
	}
	return fb
}

// ToDeduction renders an Invalid StepVerdict into the Deduction it
// contributes, if any. Valid and Unknown verdicts contribute none.
func (v StepVerdict) ToDeduction(reason string) (Deduction, bool) {
	if v.Status != VerdictInvalid {
		return Deduction{}, false
	}
	return Deduction{
		Points:     v.PointsDeducted,
		Reason:     reason,
		Confidence: v.Confidence,
		StepRef:    fmt.Sprintf("step %d", v.StepID),
		ErrorKind:  v.Kind,
	}, true
}

// NewFact builds a Fact awaiting an ID, assigned by the knowledge base on
// insertion.
func NewFact(predicate string, item []string, premiseIDs []int, tag ProvenanceTag) Fact {
	return Fact{
		Predicate:  predicate,
		Item:       append([]string(nil), item...),
		PremiseIDs: append([]int(nil), premiseIDs...),
		Tag:        tag,
	}
}

// Symbol builds a Symbol-kind expression leaf.
func Symbol(name string) *Expression {
	return &Expression{Kind: ExprSymbol, Name: name}
}

// Literal builds a Literal-kind expression leaf.
func Literal(value float64) *Expression {
	return &Expression{Kind: ExprLiteral, Value: value}
}

// Measure builds a MeasureOfAngle expression leaf over an item tuple.
func Measure(item []string) *Expression {
	return &Expression{Kind: ExprMeasure, Item: append([]string(nil), item...)}
}

// Length builds a LengthOfLine expression leaf over an item tuple.
func Length(item []string) *Expression {
	return &Expression{Kind: ExprLength, Item: append([]string(nil), item...)}
}

// Add builds an Add expression node over its two operands. The CDL parser
// folds longer sums to the left with it: a+b+c becomes Add(Add(a,b),c).
func Add(left, right *Expression) *Expression {
	return &Expression{Kind: ExprAdd, Left: left, Right: right}
}

// Mul builds a Mul expression node.
func Mul(left, right *Expression) *Expression {
	return &Expression{Kind: ExprMul, Left: left, Right: right}
}

// Equal builds the root node of an Equal claim's expression tree.
func Equal(lhs, rhs *Expression) *Expression {
	return &Expression{Kind: ExprEqual, Left: lhs, Right: rhs}
}
