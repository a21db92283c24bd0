// Package verifier implements the step verifier (C5): the per-step
// pipeline that routes a parsed claim through the cascade check, the
// equal-claim fast path, the unknown-predicate assumption path,
// membership lookup, theorem application, and the assumption fallback,
// producing exactly one StepVerdict per step.
//
// Grounded on formalgeo_grader.py's verify_single_step /
// verify_theorem_application, generalized from that function's untyped
// dict-based dispatch into the explicit state machine below.
package verifier

import (
	"fmt"
	"sort"

	"geoproof/internal/cdl"
	"geoproof/internal/gradertypes"
	"geoproof/internal/kb"
	"geoproof/internal/theorem"
)

// VerifyStep runs the full S1-S7 pipeline for one step. priorVerdicts maps
// already-verified step_ids to their verdicts, consulted by the cascade
// check; dep is the dependency graph built from every step_id's depends_on
// seen so far, including this step's (the caller registers it before
// calling VerifyStep); centerHint is the circle-center letter the CDL
// parser needs for CYCLIC_QUADRILATERAL repair, carried from the owning
// ProblemSpec.
func VerifyStep(
	k *kb.KB,
	adapter theorem.Adapter,
	matcher *theorem.Matcher,
	dep *DepGraph,
	step gradertypes.Step,
	priorVerdicts map[int]gradertypes.StepVerdict,
	centerHint string,
) gradertypes.StepVerdict {
	if v, cascaded := cascadeCheck(step, priorVerdicts, dep); cascaded {
		return v
	}

	claim, err := parseClaimForStep(step, centerHint)
	if err != nil {
		return gradertypes.InvalidVerdict(step.StepID, gradertypes.ErrSyntaxError, err.Error(), 10, 0.85)
	}

	// An Equal claim with no theorem_name takes the algebraic fast path;
	// one that names a theorem is routed to theorem application instead,
	// using the points named inside its expression tree as parameters
	// (Equal claims carry no Item — see DESIGN.md's Open Question entry
	// on S3/S6 routing).
	if claim.Predicate == gradertypes.PredEqual {
		if step.TheoremName == "" {
			return verifyEqualFastPath(k, step, claim)
		}
		return verifyTheoremApplication(k, adapter, matcher, step, claim, exprPoints(claim.ExpressionTree))
	}

	if !k.KnowsPredicate(claim.Predicate) {
		return verifyUnknownPredicate(k, step, claim)
	}

	if k.Has(claim.Predicate, claim.Item) {
		return gradertypes.ValidVerdict(step.StepID, 0.90, false)
	}

	if step.TheoremName != "" {
		return verifyTheoremApplication(k, adapter, matcher, step, claim, claim.Item)
	}

	return verifyAssumptionFallback(k, step, claim)
}

// parseClaimForStep runs C1 over step's CDL text and stamps the resulting
// Claim's ClaimID as S{step_id}C{index}. This pipeline parses exactly one
// claim per step, so the index is always 0.
func parseClaimForStep(step gradertypes.Step, centerHint string) (*gradertypes.Claim, error) {
	claim, err := cdl.ParseClaim(step.ClaimCDL, centerHint)
	if err != nil {
		return nil, err
	}
	claim.ClaimID = fmt.Sprintf("S%dC%d", step.StepID, 0)
	return claim, nil
}

// cascadeCheck is S1: an Invalid prior step short-circuits this step
// without re-examining its own claim. A direct depends_on entry that is
// Invalid is reported as the root cause first (the first such entry, in
// depends_on order); failing that, any Invalid prior step reachable through
// a transitive chain of depends_on edges cascades too, with candidates
// walked in step_id order so the reported root cause is deterministic when
// more than one qualifies.
func cascadeCheck(step gradertypes.Step, priorVerdicts map[int]gradertypes.StepVerdict, dep *DepGraph) (gradertypes.StepVerdict, bool) {
	for _, id := range step.DependsOn {
		if v, ok := priorVerdicts[id]; ok && id < step.StepID && v.Status == gradertypes.VerdictInvalid {
			details := fmt.Sprintf("step %d depends on invalid step %d", step.StepID, id)
			return gradertypes.InvalidVerdictWithCause(step.StepID, gradertypes.ErrCascadingError, details, 10, 0.85, id), true
		}
	}

	invalidIDs := make([]int, 0, len(priorVerdicts))
	for id, v := range priorVerdicts {
		if v.Status == gradertypes.VerdictInvalid {
			invalidIDs = append(invalidIDs, id)
		}
	}
	sort.Ints(invalidIDs)

	for _, id := range invalidIDs {
		if !dep.Reachable(id, step.StepID) {
			continue
		}
		details := fmt.Sprintf("step %d depends on invalid step %d", step.StepID, id)
		return gradertypes.InvalidVerdictWithCause(step.StepID, gradertypes.ErrCascadingError, details, 10, 0.85, id), true
	}
	return gradertypes.StepVerdict{}, false
}

// verifyEqualFastPath is S3: lower the Equal claim to an equation record
// and always admit it. A nil expression tree (the algebraic normalizer
// defensively never produces one, but S2 has already rejected anything it
// could not build at all) downgrades to the lowest-confidence Valid
// rather than penalizing — algebra is the equation sub-store's concern.
func verifyEqualFastPath(k *kb.KB, step gradertypes.Step, claim *gradertypes.Claim) gradertypes.StepVerdict {
	if claim.ExpressionTree == nil {
		return gradertypes.ValidVerdict(step.StepID, 0.75, false)
	}
	accepted, _ := k.AddEquation(claim.ExpressionTree, nil, gradertypes.AlgebraicConstraintTag(step.StepID))
	confidence := 0.85
	if !accepted {
		confidence = 0.80
	}
	return gradertypes.ValidVerdict(step.StepID, confidence, !accepted)
}

// verifyUnknownPredicate is S4: the predicate has never been seen before,
// so it is introduced as a bounded assumption rather than rejected outright.
func verifyUnknownPredicate(k *kb.KB, step gradertypes.Step, claim *gradertypes.Claim) gradertypes.StepVerdict {
	k.EnsurePredicateSlot(claim.Predicate)
	accepted, _ := k.Add(claim.Predicate, claim.Item, nil, gradertypes.AssumptionTag(step.StepID))
	if accepted {
		return gradertypes.ValidVerdict(step.StepID, 0.70, false)
	}
	details := fmt.Sprintf("predicate %q could not be admitted as an assumption", claim.Predicate)
	return gradertypes.InvalidVerdict(step.StepID, gradertypes.ErrUnknownPredicate, details, 15, 0.60)
}

// verifyTheoremApplication is S6, reached either because the claim names a
// theorem directly (Equal claims) or because membership lookup missed and
// a theorem_name was offered. The caller guarantees step.TheoremName is
// non-empty.
func verifyTheoremApplication(
	k *kb.KB,
	adapter theorem.Adapter,
	matcher *theorem.Matcher,
	step gradertypes.Step,
	claim *gradertypes.Claim,
	params []string,
) gradertypes.StepVerdict {
	canonical, matched := matcher.Match(step.TheoremName)
	if !matched {
		details := fmt.Sprintf("no known theorem matches %q", step.TheoremName)
		return gradertypes.InvalidVerdict(step.StepID, gradertypes.ErrUnknownTheorem, details, 20, 0.87)
	}

	snap := k.Snapshot()
	update, applied := adapter.ApplyTheorem(canonical, params)
	if !applied {
		k.Restore(snap)
		details := fmt.Sprintf("theorem %q preconditions not satisfied", canonical)
		return gradertypes.InvalidVerdict(step.StepID, gradertypes.ErrInvalidTheorem, details, 20, 0.88)
	}
	_ = update

	if claimHolds(k, claim) {
		return gradertypes.ValidVerdictWithTheorem(step.StepID, canonical, 0.92)
	}

	k.Restore(snap)
	details := fmt.Sprintf("theorem %q did not produce the claimed conclusion", canonical)
	return gradertypes.InvalidVerdict(step.StepID, gradertypes.ErrWrongConclusion, details, 20, 0.92)
}

// verifyAssumptionFallback is S7: no theorem was offered and the claim was
// not already known, so the last resort is admitting it as an assumption.
func verifyAssumptionFallback(k *kb.KB, step gradertypes.Step, claim *gradertypes.Claim) gradertypes.StepVerdict {
	accepted, _ := k.Add(claim.Predicate, claim.Item, nil, gradertypes.AssumptionTag(step.StepID))
	if accepted {
		return gradertypes.ValidVerdict(step.StepID, 0.75, false)
	}
	return gradertypes.InvalidVerdict(step.StepID, gradertypes.ErrNotDerivable, "claim could not be admitted as an assumption", 20, 0.50)
}

// claimHolds reports whether claim is now entailed by the knowledge base —
// equation-store membership for Equal claims, fact membership otherwise.
func claimHolds(k *kb.KB, claim *gradertypes.Claim) bool {
	if claim.Predicate == gradertypes.PredEqual {
		return k.HasEquation(claim.ExpressionTree)
	}
	return k.Has(claim.Predicate, claim.Item)
}

// exprPoints collects the distinct point letters named inside expr's
// Measure/Length leaves, in traversal order, for use as a theorem's
// flattened parameter tuple when the claim itself is an Equal expression
// (which carries no Item of its own).
func exprPoints(expr *gradertypes.Expression) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(e *gradertypes.Expression)
	walk = func(e *gradertypes.Expression) {
		if e == nil {
			return
		}
		switch e.Kind {
		case gradertypes.ExprEqual, gradertypes.ExprAdd, gradertypes.ExprMul:
			walk(e.Left)
			walk(e.Right)
		case gradertypes.ExprMeasure, gradertypes.ExprLength:
			for _, p := range e.Item {
				if !seen[p] {
					seen[p] = true
					out = append(out, p)
				}
			}
		}
	}
	walk(expr)
	return out
}
