package dirac

// Subband is one wavelet subband's coefficient store (C4): a flat
// width*height grid of signed coefficients, addressed row-major.
type Subband struct {
	Width, Height int
	Coeffs        []int32
	// QIndex is this subband's quant index, carried alongside its
	// coefficients since Dequant needs it per subband, not per
	// picture.
	QIndex int
}

// NewSubband allocates a zeroed subband store.
func NewSubband(width, height, qindex int) *Subband {
	return &Subband{Width: width, Height: height, Coeffs: make([]int32, width*height), QIndex: qindex}
}

func (s *Subband) at(x, y int) int32 {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return 0
	}
	return s.Coeffs[y*s.Width+x]
}

// Unpack runs C5's entropy unpack for one subband: a per-subband
// zero-block flag (ctxZeroBlock) that, when set, leaves every
// coefficient zero without reading further bits; otherwise every
// coefficient is decoded in raster order using a zero-neighbourhood /
// zero-parent context selection (ZPZN/ZPNN/NPZN/NPNN) matching
// dirac_arith.h's four base contexts, followed by Dequant (C8).
//
// parent is the coarser subband one decomposition level up (nil for
// the lowest-frequency DC subband), used for the zero-parent half of
// the context: a coefficient's parent is the corresponding
// half-resolution position. Each subband is decoded as a single
// codeblock: it is not partitioned into independently-flagged
// codeblocks, and its zero-block flag is always read.
func (s *Subband) Unpack(d *Decoder, parent *Subband) {
	if d.Bit(ctxZeroBlock) {
		return
	}
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			zeroNeighbour := s.at(x-1, y) == 0 && s.at(x, y-1) == 0
			zeroParent := true
			if parent != nil {
				zeroParent = parent.at(x/2, y/2) == 0
			}

			var followCtx int
			switch {
			case zeroParent && zeroNeighbour:
				followCtx = ctxZPZNF1
			case zeroParent && !zeroNeighbour:
				followCtx = ctxZPNNF1
			case !zeroParent && zeroNeighbour:
				followCtx = ctxNPZNF1
			default:
				followCtx = ctxNPNNF1
			}

			v := d.decodeInt(followCtx, ctxCoeffData)
			s.Coeffs[y*s.Width+x] = Dequant(v, s.QIndex)
		}
	}
}
