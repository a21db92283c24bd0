// Package grader implements the grader (C6): the orchestration loop that
// seeds the knowledge base from a ProblemSpec, walks the student's step
// sequence through the step verifier, accumulates deductions, checks goal
// entailment, and composes the final GradingReport.
//
// Grounded on formalgeo_grader.py's grade_geometry_solution /
// calculate_deduction / generate_summary / calculate_overall_confidence,
// ported line for line: point values and confidence floors match that
// deduction table exactly.
package grader

import (
	"fmt"

	"geoproof/internal/cdl"
	"geoproof/internal/config"
	"geoproof/internal/gradertypes"
	"geoproof/internal/kb"
	"geoproof/internal/theorem"
	"geoproof/internal/verifier"
)

// Grade runs the full grading procedure under config.Default() — the
// confidence floor, matcher strictness, and goal-string-inference fallback
// all take their stock settings. Most callers want this; GradeWithConfig
// exists for a deployment that tunes those knobs.
func Grade(spec *gradertypes.ProblemSpec, steps []gradertypes.Step) *gradertypes.GradingReport {
	return GradeWithConfig(config.Default(), spec, steps)
}

// GradeWithConfig runs the full grading procedure for one solution: seed,
// verify every step in order, check the goal, and assemble the report. It
// never returns an error for grading-domain failures — those become
// verdicts and deductions within the report itself. Only a
// ProblemSpec that cannot be loaded at all degrades the report to the
// single synthetic initialization deduction.
func GradeWithConfig(cfg *config.Config, spec *gradertypes.ProblemSpec, steps []gradertypes.Step) *gradertypes.GradingReport {
	if cfg.Grading.MaxStepsPerSolution > 0 && len(steps) > cfg.Grading.MaxStepsPerSolution {
		steps = steps[:cfg.Grading.MaxStepsPerSolution]
	}

	k := kb.New()
	centerHint := cdl.InferCenterHint(spec.TextCDL, spec.ConstructionCDL)

	if err := seedGivens(k, spec, centerHint); err != nil {
		return infrastructureErrorReport(err)
	}

	adapter := theorem.NewMinimalAdapter(k)
	if err := adapter.Load(spec); err != nil {
		return infrastructureErrorReport(err)
	}

	var matcher *theorem.Matcher
	if cfg.Features.StrictTheoremMatching {
		matcher = theorem.NewStrictMatcher(adapter.KnownTheorems())
	} else {
		matcher = theorem.NewMatcher(adapter.KnownTheorems(), cfg.Grading.SimilarityThreshold)
	}

	dep := verifier.NewDepGraph()
	priorVerdicts := make(map[int]gradertypes.StepVerdict, len(steps))
	feedback := make([]gradertypes.StepFeedback, 0, len(steps))
	var deductions []gradertypes.Deduction

	for _, step := range steps {
		dep.AddStep(step.StepID, step.DependsOn)

		verdict := verifier.VerifyStep(k, adapter, matcher, dep, step, priorVerdicts, centerHint)
		priorVerdicts[step.StepID] = verdict
		feedback = append(feedback, verdict.ToStepFeedback())

		if d, ok := verdict.ToDeduction(deductionReason(verdict)); ok {
			deductions = append(deductions, d)
		}
	}

	goalReached, missing := checkGoal(adapter, spec.GoalCDL, steps, cfg.Features.EnableGoalStringInference)
	if !goalReached {
		deductions = append(deductions, gradertypes.Deduction{
			Points:     20,
			Reason:     "goal not reached",
			Confidence: 0.85,
			StepRef:    "goal",
			ErrorKind:  gradertypes.ErrNotDerivable,
		})
	}

	accepted := filterByConfidence(deductions, cfg.Grading.ConfidenceFloor)
	total := 100
	for _, d := range accepted {
		total -= d.Points
	}
	if total < 0 {
		total = 0
	}

	return &gradertypes.GradingReport{
		TotalPoints:  total,
		GoalReached:  goalReached,
		Confidence:   aggregateConfidence(feedback),
		Summary:      composeSummary(feedback, goalReached),
		StepFeedback: feedback,
		Deductions:   accepted,
		MissingSteps: missing,
	}
}

// seedGivens parses every construction_cdl/text_cdl entry and loads it
// into the knowledge base as a Given fact, or an equation when the given
// is itself an Equal claim.
func seedGivens(k *kb.KB, spec *gradertypes.ProblemSpec, centerHint string) error {
	all := make([]string, 0, len(spec.ConstructionCDL)+len(spec.TextCDL))
	all = append(all, spec.ConstructionCDL...)
	all = append(all, spec.TextCDL...)

	for _, raw := range all {
		claim, err := cdl.ParseClaim(raw, centerHint)
		if err != nil {
			return fmt.Errorf("parsing given %q: %w", raw, err)
		}
		if claim.Predicate == gradertypes.PredEqual {
			k.AddEquation(claim.ExpressionTree, nil, gradertypes.GivenTag())
			continue
		}
		k.Add(claim.Predicate, claim.Item, nil, gradertypes.GivenTag())
	}
	return nil
}

// checkGoal asks the adapter whether the stated goal is entailed. When the
// adapter's equation-system lookup misses and inferFromClaims is set
// (Features.EnableGoalStringInference), it falls back to a direct
// string-level match between a step's raw claim and the goal expression
// (original_source's _infer_goal_equal_from_claims, folded in here rather
// than into the adapter itself since only the grader holds every step's
// raw claim_cdl text), covering the case where the goal's canonical angle
// notation differs from what the equation store happened to record. It
// also builds the synthetic missing_step descriptor used when nothing
// entails the goal at all.
func checkGoal(adapter theorem.Adapter, goalCDL string, steps []gradertypes.Step, inferFromClaims bool) (bool, []gradertypes.MissingStep) {
	status := adapter.CheckGoal()
	if status.Kind == theorem.GoalProved || status.Kind == theorem.GoalProvedWithAnswer {
		return true, nil
	}

	if inferFromClaims {
		claims := make([]string, len(steps))
		for i, s := range steps {
			claims[i] = s.ClaimCDL
		}
		if cdl.InferGoalEqualFromClaims(goalCDL, claims) != "" {
			return true, nil
		}
	}

	return false, []gradertypes.MissingStep{{
		Description: "goal not reached",
		Note:        "the submitted steps did not entail the problem's stated goal",
	}}
}

// deductionReason renders a human-readable reason string from a verdict's
// structured Kind/Details for the Deduction.Reason field.
func deductionReason(v gradertypes.StepVerdict) string {
	if v.Details != "" {
		return v.Details
	}
	return string(v.Kind)
}

// filterByConfidence drops any deduction whose confidence falls below
// floor — applied uniformly to every deduction, including the synthetic
// goal-not-reached one, unifying what the original grader treated as two
// separate confidence-filtering passes.
func filterByConfidence(deductions []gradertypes.Deduction, floor float64) []gradertypes.Deduction {
	out := make([]gradertypes.Deduction, 0, len(deductions))
	for _, d := range deductions {
		if d.Confidence >= floor {
			out = append(out, d)
		}
	}
	return out
}

// aggregateConfidence is the arithmetic mean of every step's verdict
// confidence; an empty step list reports 0.
func aggregateConfidence(feedback []gradertypes.StepFeedback) float64 {
	if len(feedback) == 0 {
		return 0
	}
	var sum float64
	for _, f := range feedback {
		sum += f.Confidence
	}
	return sum / float64(len(feedback))
}

// composeSummary builds the prose summary: valid-to-total ratio, plus
// weakness phrases keyed off which error kinds appeared anywhere in the
// step feedback.
func composeSummary(feedback []gradertypes.StepFeedback, goalReached bool) string {
	if len(feedback) == 0 {
		return "No steps were submitted."
	}

	valid := 0
	kinds := make(map[string]bool)
	for _, f := range feedback {
		if f.IsValid {
			valid++
		} else {
			kinds[f.ErrorType] = true
		}
	}

	summary := fmt.Sprintf("%d of %d steps valid.", valid, len(feedback))
	if kinds[string(gradertypes.ErrInvalidTheorem)] {
		summary += " Needs improvement in theorem application."
	}
	if kinds[string(gradertypes.ErrWrongConclusion)] {
		summary += " Logical reasoning needs strengthening."
	}
	if !goalReached {
		summary += " Solution incomplete."
	}
	return summary
}

// infrastructureErrorReport degrades grading when a ProblemSpec cannot
// even be loaded: it produces a single synthetic,
// maximal deduction and no step feedback, rather than propagating an error
// through a path upstream layers expect to always succeed.
func infrastructureErrorReport(cause error) *gradertypes.GradingReport {
	return &gradertypes.GradingReport{
		TotalPoints: 0,
		GoalReached: false,
		Confidence:  1.0,
		Summary:     "Grading could not proceed: " + cause.Error(),
		Deductions: []gradertypes.Deduction{{
			Points:     100,
			Reason:     cause.Error(),
			Confidence: 1.0,
			StepRef:    "initialization",
			ErrorKind:  gradertypes.ErrSyntaxError,
		}},
	}
}
