package dirac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubbandZeroBlockFlagSkipsAllCoefficients(t *testing.T) {
	// ctxZeroBlock starts at probability 1/2; with all-0xFF input the
	// first decision of a fresh decoder is 1, so the zero-block flag is set.
	d := NewDecoder([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	sb := NewSubband(4, 4, 2)
	sb.Unpack(d, nil)
	for _, c := range sb.Coeffs {
		require.Equal(t, int32(0), c)
	}
}

func TestSubbandUnpackDoesNotPanicWithParent(t *testing.T) {
	d := NewDecoder([]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc})
	parent := NewSubband(2, 2, 1)
	sb := NewSubband(4, 4, 1)
	require.NotPanics(t, func() { sb.Unpack(d, parent) })
}
