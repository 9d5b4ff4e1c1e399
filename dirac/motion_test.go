package dirac

import (
	"testing"

	"github.com/gowave/dwvdec/bitio"
	"github.com/gowave/dwvdec/codec"
	"github.com/stretchr/testify/require"
)

func TestUnpackBlockMotionDoesNotPanic(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		if i%2 == 0 {
			data[i] = 0xAA
		} else {
			data[i] = 0x55
		}
	}
	r := bitio.NewReader(data)
	p := BlockParams{LumaXBlen: 8, LumaYBlen: 8, LumaXBsep: 4, LumaYBsep: 4}
	var grid *MotionGrid
	var err error
	require.NotPanics(t, func() {
		grid, err = UnpackBlockMotion(data, r, 32, 32, 1, p)
	})
	if err != nil {
		require.ErrorIs(t, err, codec.Sentinel(codec.UnsupportedFeature))
	}
	require.NotNil(t, grid)
}

func TestUnpackPredictionParametersReadsWithoutPanicking(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = 0xAA
	}
	r := bitio.NewReader(data)
	require.NotPanics(t, func() {
		_, _ = UnpackPredictionParameters(r, 2, 1, 1)
	})
}

func TestUnpackPredictionParametersDefaultsWeightsWithoutOverride(t *testing.T) {
	// All-zero stream: block param index 0 (explicit, all-zero dims),
	// no globalmc, no weight override -- weights must fall back to the
	// documented precision=1/ref1=1/ref2=1 defaults.
	data := make([]byte, 32)
	r := bitio.NewReader(data)
	p, err := UnpackPredictionParameters(r, 2, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, p.WeightPrecision)
	require.Equal(t, int32(1), p.WeightRef1)
	require.Equal(t, int32(1), p.WeightRef2)
	require.False(t, p.GlobalMC)
}

func TestMotionGridPropagatesBlockData(t *testing.T) {
	g := NewMotionGrid(2, 2)
	g.Blocks[0] = MotionBlock{UseRef: refMaskRef1}
	g.propagateBlockData(2, 0, 0)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			require.Equal(t, uint8(refMaskRef1), g.Blocks[y*g.BLWidth+x].UseRef)
		}
	}
}

func TestBlockModeClassification(t *testing.T) {
	require.Equal(t, ModeIntra, MotionBlock{}.Mode())
	require.Equal(t, ModeRef1, MotionBlock{UseRef: refMaskRef1}.Mode())
	require.Equal(t, ModeRef2, MotionBlock{UseRef: refMaskRef2}.Mode())
	require.Equal(t, ModeBiRef, MotionBlock{UseRef: refMaskRef1 | refMaskRef2}.Mode())
	require.True(t, MotionBlock{UseRef: refMaskRef1 | refMaskGlobal}.Global())
}
