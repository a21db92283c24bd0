package verifier

import (
	"github.com/dominikbraun/graph"
)

// DepGraph tracks the directed acyclic graph formed by steps' depends_on
// declarations. The graph points backward only: a step may depend on an
// earlier step_id, never a later or equal one — forward and self
// references are treated as missing references rather than graph errors.
type DepGraph struct {
	g    graph.Graph[int, int]
	seen map[int]bool
}

func stepIDHash(id int) int { return id }

// NewDepGraph builds an empty dependency graph.
func NewDepGraph() *DepGraph {
	return &DepGraph{
		g:    graph.New(stepIDHash, graph.Directed(), graph.PreventCycles()),
		seen: make(map[int]bool),
	}
}

// AddStep registers stepID and its declared dependencies in order. It
// returns the subset of dependsOn that resolved to a real, earlier,
// already-registered step (valid) and the subset that did not (missing:
// forward reference, self-reference, or an id never registered).
func (d *DepGraph) AddStep(stepID int, dependsOn []int) (valid, missing []int) {
	if !d.seen[stepID] {
		_ = d.g.AddVertex(stepID)
		d.seen[stepID] = true
	}

	for _, dep := range dependsOn {
		if dep >= stepID || !d.seen[dep] {
			missing = append(missing, dep)
			continue
		}
		if err := d.g.AddEdge(dep, stepID); err != nil {
			missing = append(missing, dep)
			continue
		}
		valid = append(valid, dep)
	}
	return valid, missing
}

// Reachable reports whether to is reachable from from by following one or
// more dependency edges — used for multi-hop cascade queries beyond the
// direct depends_on check S1 performs.
func (d *DepGraph) Reachable(from, to int) bool {
	if from == to {
		return false
	}
	path, err := graph.ShortestPath(d.g, from, to)
	return err == nil && len(path) > 0
}
