package vp3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHilbertWalkStaysWithinPlaneBounds(t *testing.T) {
	store := NewBlockStore(32, 32)
	sched := NewScheduler(store)
	walk := sched.HilbertWalk(0, 0, 0)
	require.Len(t, walk, 16)
}

func TestReconstructBlockWritesFlatDCOutput(t *testing.T) {
	store := NewBlockStore(16, 16)
	sched := NewScheduler(store)
	var m QuantMatrix
	for i := range m {
		m[i] = 4
	}
	b := &store.Blocks[0]
	b.DCPredicted = 20
	b.LastNonZero = 0

	pred := make([]byte, 64)
	for i := range pred {
		pred[i] = 128
	}
	dst := make([]byte, 64)
	sched.ReconstructBlock(b, &m, pred, 8, dst, 8)

	dc := 20 * 4
	want := byte(128 + dc/8)
	require.Equal(t, want, dst[0])
}

func TestShouldFilterEdgeRequiresBothReconstructed(t *testing.T) {
	store := NewBlockStore(16, 16)
	sched := NewScheduler(store)
	require.False(t, sched.ShouldFilterEdge(0, 1))
}
