package dirac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDequantZeroStaysZero(t *testing.T) {
	require.Equal(t, int32(0), Dequant(0, 5))
}

func TestDequantIsOddSymmetric(t *testing.T) {
	require.Equal(t, -Dequant(7, 3), Dequant(-7, 3))
}
