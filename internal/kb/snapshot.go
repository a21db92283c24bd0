package kb

import "geoproof/internal/gradertypes"

// Snapshot takes a deep, value-semantic copy of the full KB state,
// sufficient to restore after a failed speculative theorem application.
// The fact/equation slices and their indices are all copied independently
// of the live state — aliasing with it would be a correctness bug.
func (k *KB) Snapshot() gradertypes.Snapshot {
	k.mu.RLock()
	defer k.mu.RUnlock()

	facts := make([]gradertypes.Fact, len(k.facts))
	copy(facts, k.facts)

	equations := make([]gradertypes.EquationRecord, len(k.equations))
	copy(equations, k.equations)

	index := make(map[string]int, len(k.factIndex))
	for key, id := range k.factIndex {
		index[key] = id
	}

	return gradertypes.Snapshot{
		Facts:     facts,
		Equations: equations,
		Index:     index,
		NextFact:  k.nextFactID,
		NextEqn:   k.nextEqnID,
	}
}

// Restore replaces the live state with a previously taken Snapshot,
// atomically from the perspective of any concurrent reader (guarded by the
// same mutex as every mutation).
func (k *KB) Restore(snap gradertypes.Snapshot) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.facts = make([]gradertypes.Fact, len(snap.Facts))
	copy(k.facts, snap.Facts)

	k.equations = make([]gradertypes.EquationRecord, len(snap.Equations))
	copy(k.equations, snap.Equations)

	k.factIndex = make(map[string]int, len(snap.Index))
	for key, id := range snap.Index {
		k.factIndex[key] = id
	}

	k.equationKeys = make(map[string]int, len(k.equations))
	for _, eqn := range k.equations {
		k.equationKeys[exprKey(eqn.Expression)] = eqn.ID
	}

	k.nextFactID = snap.NextFact
	k.nextEqnID = snap.NextEqn
}
