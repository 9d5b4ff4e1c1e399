package dirac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredictDCRequiresAllNeighbours(t *testing.T) {
	require.Equal(t, int32(0), PredictDC(1, 2, 3, true, true, false))
	require.Equal(t, int32(2), PredictDC(1, 2, 3, true, true, true))
}

func TestPredictMVIsPerAxisMedian(t *testing.T) {
	mv := PredictMV([2]int32{1, 10}, [2]int32{5, 2}, [2]int32{9, 6})
	require.Equal(t, [2]int32{5, 6}, mv)
}

func TestDecodeModeBitRoundTrips(t *testing.T) {
	for _, v := range []bool{true, false} {
		pred := PredictMode(true, false, false)
		coded := pred != v
		require.Equal(t, v, DecodeModeBit(coded, true, false, false))
	}
}
