package vp3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredictDCNoNeighboursIsZero(t *testing.T) {
	require.Equal(t, int32(0), PredictDC(neighbourDC{}, neighbourDC{}, neighbourDC{}, neighbourDC{}))
}

func TestPredictDCSingleNeighbourUsesItsWeight(t *testing.T) {
	got := PredictDC(neighbourDC{}, neighbourDC{present: true, dc: 64}, neighbourDC{}, neighbourDC{})
	require.Equal(t, int32(64), got)
}

func TestPredictDCAllPresentClampsToOrthogonalRange(t *testing.T) {
	got := PredictDC(
		neighbourDC{present: true, dc: 1000},
		neighbourDC{present: true, dc: 10},
		neighbourDC{present: true, dc: 1000},
		neighbourDC{present: true, dc: 20},
	)
	require.GreaterOrEqual(t, got, int32(10))
	require.LessOrEqual(t, got, int32(20))
}
