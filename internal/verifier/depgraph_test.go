package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepGraph_ValidBackwardReferenceAccepted(t *testing.T) {
	d := NewDepGraph()
	d.AddStep(1, nil)
	valid, missing := d.AddStep(2, []int{1})
	assert.Equal(t, []int{1}, valid)
	assert.Empty(t, missing)
}

func TestDepGraph_SelfReferenceIsMissing(t *testing.T) {
	d := NewDepGraph()
	_, missing := d.AddStep(1, []int{1})
	assert.Equal(t, []int{1}, missing)
}

func TestDepGraph_ForwardReferenceIsMissing(t *testing.T) {
	d := NewDepGraph()
	d.AddStep(1, nil)
	_, missing := d.AddStep(2, []int{3})
	assert.Equal(t, []int{3}, missing)
}

func TestDepGraph_UnknownIDIsMissing(t *testing.T) {
	d := NewDepGraph()
	_, missing := d.AddStep(5, []int{99})
	assert.Equal(t, []int{99}, missing)
}

func TestDepGraph_ReachableAcrossMultipleHops(t *testing.T) {
	d := NewDepGraph()
	d.AddStep(1, nil)
	d.AddStep(2, []int{1})
	d.AddStep(3, []int{2})

	assert.True(t, d.Reachable(1, 3))
	assert.False(t, d.Reachable(3, 1))
	assert.False(t, d.Reachable(1, 1))
}

func TestDepGraph_UnrelatedStepsNotReachable(t *testing.T) {
	d := NewDepGraph()
	d.AddStep(1, nil)
	d.AddStep(2, nil)
	assert.False(t, d.Reachable(1, 2))
}
