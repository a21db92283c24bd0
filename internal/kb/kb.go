// Package kb implements the versioned knowledge-base store the grading
// core reads and writes while verifying a student's step sequence.
//
// The store is mutex-guarded and deep-copies on snapshot, in the idiom of
// the storage layer it is grounded on: facts are appended, never mutated,
// and rollback replaces the live state wholesale rather than editing it in
// place.
package kb

import (
	"sync"

	"geoproof/internal/gradertypes"
)

// KB is a versioned, in-memory store of derived facts grouped by
// predicate, plus a parallel equation system for algebraic constraints.
// One KB is owned exclusively by a single grading call; it makes no
// thread-safety claim across concurrent Grade invocations sharing an
// instance.
type KB struct {
	mu sync.RWMutex

	facts      []gradertypes.Fact
	factIndex  map[string]int // factKey -> fact id
	nextFactID int

	equations    []gradertypes.EquationRecord
	equationKeys map[string]int // exprKey -> equation id
	nextEqnID    int

	vocabulary map[string]bool // canonical schema plus any predicate since added or slotted
}

// New constructs an empty knowledge base, its vocabulary pre-seeded with
// the full canonical predicate schema (gradertypes.KnownPredicates) rather
// than left to accumulate from whatever a solution happens to assert.
func New() *KB {
	k := &KB{
		facts:        make([]gradertypes.Fact, 0, 32),
		factIndex:    make(map[string]int),
		equations:    make([]gradertypes.EquationRecord, 0, 8),
		equationKeys: make(map[string]int),
		vocabulary:   make(map[string]bool, len(gradertypes.KnownPredicates)),
	}
	for _, p := range gradertypes.KnownPredicates {
		k.vocabulary[p] = true
	}
	return k
}

// Has reports exact (predicate, item) membership.
func (k *KB) Has(predicate string, item []string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.factIndex[factKey(predicate, item)]
	return ok
}

// HasEquation reports whether an equivalent equation (by canonical
// structural form) is already recorded.
func (k *KB) HasEquation(expr *gradertypes.Expression) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.equationKeys[exprKey(expr)]
	return ok
}

// KnowsPredicate reports whether predicate is part of the canonical schema
// this KB was seeded with, or was introduced afterward via
// EnsurePredicateSlot or by a successful Add (or, for Equation, AddEquation)
// under that name.
func (k *KB) KnowsPredicate(predicate string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.vocabulary[predicate]
}

// EnsurePredicateSlot introduces an initially empty predicate family when
// the vocabulary does not yet know it — reached only for a predicate name
// outside the canonical schema entirely. Used by the step verifier's
// unknown-predicate assumption path.
func (k *KB) EnsurePredicateSlot(predicate string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.vocabulary[predicate] = true
}

// Add appends a fact if not already present, assigning a fresh monotonic
// id. Returns (false, existing id) when the fact is already known. On a
// successful Angle(X,Y,Z) add, the mirrored Angle(Z,Y,X) fact is added
// immediately with provenance Symmetry(base).
func (k *KB) Add(predicate string, item []string, premiseIDs []int, tag gradertypes.ProvenanceTag) (bool, int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.addLocked(predicate, item, premiseIDs, tag)
}

func (k *KB) addLocked(predicate string, item []string, premiseIDs []int, tag gradertypes.ProvenanceTag) (bool, int) {
	key := factKey(predicate, item)
	if existing, ok := k.factIndex[key]; ok {
		return false, existing
	}

	k.nextFactID++
	id := k.nextFactID
	fact := gradertypes.NewFact(predicate, item, premiseIDs, tag)
	fact.ID = id

	k.facts = append(k.facts, fact)
	k.factIndex[key] = id
	k.vocabulary[predicate] = true

	if predicate == gradertypes.PredAngle && len(item) == 3 {
		reversed := []string{item[2], item[1], item[0]}
		if _, already := k.factIndex[factKey(predicate, reversed)]; !already {
			k.addLocked(predicate, reversed, []int{id}, gradertypes.SymmetryTag(id))
		}
	}

	return true, id
}

// AddEquation lowers an Equal claim's expression tree to a single equation
// record. Returns (false, existing id) when an equivalent equation (by
// canonical structural form) is already recorded.
func (k *KB) AddEquation(expr *gradertypes.Expression, premiseIDs []int, tag gradertypes.ProvenanceTag) (bool, int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	key := exprKey(expr)
	if existing, ok := k.equationKeys[key]; ok {
		return false, existing
	}

	k.nextEqnID++
	id := k.nextEqnID
	k.equations = append(k.equations, gradertypes.EquationRecord{
		ID:         id,
		Expression: expr,
		PremiseIDs: append([]int(nil), premiseIDs...),
		Tag:        tag,
	})
	k.equationKeys[key] = id
	k.vocabulary[gradertypes.PredEquation] = true
	return true, id
}

// ItemsOf returns every fact currently recorded for predicate, in
// insertion order.
func (k *KB) ItemsOf(predicate string) []gradertypes.Fact {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var out []gradertypes.Fact
	for _, f := range k.facts {
		if f.Predicate == predicate {
			out = append(out, f)
		}
	}
	return out
}

// Equations returns every equation record currently held, in insertion
// order.
func (k *KB) Equations() []gradertypes.EquationRecord {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]gradertypes.EquationRecord(nil), k.equations...)
}

// MaxFactID returns the highest fact id issued so far. Add does not itself
// check premise ids against it.
func (k *KB) MaxFactID() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.nextFactID
}
