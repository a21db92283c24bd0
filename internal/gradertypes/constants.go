package gradertypes

// Predicate family names recognized by the CDL parser and knowledge base.
// Grouped the way the source vocabulary groups them: construction, relational,
// entity, attribution, goal.
const (
	PredShape       = "Shape"
	PredCollinear   = "Collinear"
	PredCocircular  = "Cocircular"

	PredEqual                        = "Equal"
	PredParallelBetweenLine          = "ParallelBetweenLine"
	PredPerpendicularBetweenLine     = "PerpendicularBetweenLine"
	PredCongruentBetweenTriangle     = "CongruentBetweenTriangle"
	PredIsCentreOfCircle             = "IsCentreOfCircle"
	PredIsDiameterOfCircle           = "IsDiameterOfCircle"
	PredIsTangentOfCircle            = "IsTangentOfCircle"

	PredAngle             = "Angle"
	PredTriangle          = "Triangle"
	PredIsoscelesTriangle = "IsoscelesTriangle"
	PredRightTriangle     = "RightTriangle"
	PredKite              = "Kite"
	PredQuadrilateral     = "Quadrilateral"

	PredMeasureOfAngle = "MeasureOfAngle"
	PredLengthOfLine   = "LengthOfLine"

	PredValue = "Value"

	// PredEquation is the synthetic predicate exposed by the knowledge base
	// over the parallel equation system, so lookups need not distinguish
	// stored forms.
	PredEquation = "Equation"
)

// ConstructionPredicates names predicates a ProblemSpec declares under
// construction_cdl rather than text_cdl.
var ConstructionPredicates = []string{PredShape, PredCollinear, PredCocircular}

// KnownPredicates is the full predicate schema the knowledge base is seeded
// with at construction, mirroring FormalGeo's predicate_GDL ontology: a
// fixed vocabulary an Interactor pre-populates up front, not one a verifier
// accumulates step by step. Without this, the first claim naming any entity
// predicate here would be misrouted into the unknown-predicate assumption
// path regardless of whether a theorem_name was offered for it.
var KnownPredicates = []string{
	PredShape,
	PredCollinear,
	PredCocircular,
	PredEqual,
	PredParallelBetweenLine,
	PredPerpendicularBetweenLine,
	PredCongruentBetweenTriangle,
	PredIsCentreOfCircle,
	PredIsDiameterOfCircle,
	PredIsTangentOfCircle,
	PredAngle,
	PredTriangle,
	PredIsoscelesTriangle,
	PredRightTriangle,
	PredKite,
	PredQuadrilateral,
	PredMeasureOfAngle,
	PredLengthOfLine,
	PredValue,
}

// legacy shorthand predicate names repaired by the CDL parser into their
// canonical form before parsing.
const (
	LegacyAngleMeasure        = "ANGLE_MEASURE"
	LegacyEqualLength         = "EQUAL_LENGTH"
	LegacyEqualAngle          = "EQUAL_ANGLE"
	LegacyCollinear           = "COLLINEAR"
	LegacyCyclicQuadrilateral = "CYCLIC_QUADRILATERAL"
)
