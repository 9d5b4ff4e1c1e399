package dirac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInverseDWTAllZeroIsZero(t *testing.T) {
	dc := NewSubband(2, 2, 1)
	var detail [3]*Subband
	out := InverseDWT(dc, detail)
	for _, v := range out {
		require.Equal(t, int32(0), v)
	}
}

func TestInverseDWTDCOnlyIsFlat(t *testing.T) {
	dc := NewSubband(2, 2, 1)
	for i := range dc.Coeffs {
		dc.Coeffs[i] = 50
	}
	var detail [3]*Subband
	out := InverseDWT(dc, detail)
	for _, v := range out {
		require.Equal(t, int32(50), v)
	}
}
