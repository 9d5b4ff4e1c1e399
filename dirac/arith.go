// Package dirac implements the Dirac half of the pipeline: the
// adaptive binary arithmetic decoder (C2), the wavelet subband
// entropy unpack (C5), DC/MV/mode prediction (C7, Dirac half), and the
// picture reconstruction scheduler (C9, Dirac half).
package dirac

import "github.com/gowave/dwvdec/bitio"

// numContexts is DIRAC_CTX_COUNT for the core (non-#if-0) context set
// in original_source/libavcodec/dirac_arith.h: the four zero/sign
// zero-neighbourhood contexts, five follow/data pairs for unsigned
// magnitude (F2..F6), the coefficient-data context, three sign
// contexts, the zero-block flag, and the three delta-Q contexts.
const numContexts = 22

// Core context ids, matching dirac_arith.h's enum up to the #if 0
// cut. Contexts for split-mode, prediction-mode, motion-vector, and DC
// syntax are aliased onto these same slots per the header's #define
// block (see aliasedContext below) rather than given their own array
// entries — the aliasing is deliberate: Dirac never decodes two of
// these concurrently, and the spec's Ambiguities note says to leave
// the aliasing documented rather than implement the disabled, never-
// linked non-core context names as if they were distinct.
const (
	ctxZPZNF1 = iota
	ctxZPNNF1
	ctxNPZNF1
	ctxNPNNF1
	ctxZPF2
	ctxZPF3
	ctxZPF4
	ctxZPF5
	ctxZPF6
	ctxNPF2
	ctxNPF3
	ctxNPF4
	ctxNPF5
	ctxNPF6
	ctxCoeffData
	ctxSignNeg
	ctxSignZero
	ctxSignPos
	ctxZeroBlock
	ctxDeltaQF
	ctxDeltaQData
	ctxDeltaQSign
)

// Aliased non-core contexts, per dirac_arith.h's #define block. These
// are the context ids block-motion-data and prediction-parameter
// decode actually use; they reuse core array slots because Dirac
// resets the whole context array between independent coded regions
// (spec.md §4.2), so no two uses of a shared slot are ever live at
// once.
const (
	ctxPModeRef1   = 0
	ctxPModeRef2   = 1
	ctxGlobalBlock = 2
	ctxSBF1        = ctxZPF5
	ctxSBData      = 0
	ctxMVF1        = ctxZPF2
	ctxMVData      = 0
	ctxDCF1        = ctxZPF5
	ctxDCData      = 0
)

// nextCtx advances the follow-context used by decodeUint's unary
// prefix loop as the magnitude grows, mirroring ff_dirac_next_ctx:
// each follow-bit position up to F6 has its own context, after which
// the chain saturates on F6 so arbitrarily long prefixes still read
// from a valid context.
var nextCtx = [numContexts]uint8{
	ctxZPZNF1: ctxZPF2, ctxZPNNF1: ctxZPF2, ctxNPZNF1: ctxNPF2, ctxNPNNF1: ctxNPF2,
	ctxZPF2: ctxZPF3, ctxZPF3: ctxZPF4, ctxZPF4: ctxZPF5, ctxZPF5: ctxZPF6, ctxZPF6: ctxZPF6,
	ctxNPF2: ctxNPF3, ctxNPF3: ctxNPF4, ctxNPF4: ctxNPF5, ctxNPF5: ctxNPF6, ctxNPF6: ctxNPF6,
	ctxDeltaQF: ctxDeltaQF,
}

// probStep is the per-decode context-probability nudge table, indexed
// by the current probability's top 8 bits (prob>>8). The retrieval
// pack's original_source/dirac_arith.h declares but does not define
// ff_dirac_prob[256] (its value table lives in a .c file outside the
// excerpt); DESIGN.md records the decision to reconstruct it here as a
// linear ramp: the step is 1 + d/4, where d is the index's distance
// from the nearer rail (0 or 255), capped at 32. Nudges are large when
// the context is still uncertain (prob_index near the middle) and
// shrink to 1 as the context saturates toward a confident 0 or 255.
var probStep = buildProbStep()

func buildProbStep() [256]uint16 {
	var t [256]uint16
	for i := range t {
		// Distance from the nearest rail (0 or 255) bounds how large a
		// single nudge may be without overshooting past the rail.
		d := i
		if 255-i < d {
			d = 255 - i
		}
		step := 1 + d/4
		if step > 32 {
			step = 32
		}
		t[i] = uint16(step)
	}
	return t
}

// Decoder is a Dirac adaptive binary arithmetic decoder over a fixed
// byte region. A fresh Decoder must be created for each independently
// coded region (subband, split-mode pass, prediction-mode pass, each
// motion-vector axis, each DC-residual plane) per spec.md §4.2.
type Decoder struct {
	low, rng uint32
	counter  uint32
	r        *bitio.Reader
	ctx      [numContexts]uint16
}

// NewDecoder creates a Decoder over data, initialising all contexts to
// 0x8000 (probability ½), loading the first 32 bits into low (the top
// 16 are the value compared against range×probability, the bottom 16
// are the next bits renorm shifts up), and setting range to 0xFFFF per
// spec.md §4.2's init clause.
func NewDecoder(data []byte) *Decoder {
	d := &Decoder{r: bitio.NewReader(data)}
	for i := range d.ctx {
		d.ctx[i] = 0x8000
	}
	d.low = d.r.ReadBits(32)
	d.rng = 0xFFFF
	d.counter = 16
	return d
}

// renorm shifts low/range left while range is small, refilling 16 bits
// from the byte stream every 16 shifts; past end of input this pulls
// 1-bits (bitio.Reader's overread contract), matching the "fill with
// 0xff then 0xff00" sequence in renorm_arith_decoder.
func (d *Decoder) renorm() {
	for d.rng <= 0x4000 {
		d.low <<= 1
		d.rng <<= 1
		d.counter--
		if d.counter == 0 {
			d.low += d.r.ReadBits(16)
			d.counter = 16
		}
	}
}

// bit decodes one binary symbol under context ctx, updating that
// context's probability estimate.
func (d *Decoder) bit(ctx int) int {
	probZero := uint32(d.ctx[ctx])
	probIndex := probZero >> 8
	rTimesP := (d.rng * probZero) >> 16

	var ret int
	if (d.low >> 16) >= rTimesP {
		ret = 1
		d.low -= rTimesP << 16
		d.rng -= rTimesP
		d.ctx[ctx] -= probStep[probIndex]
	} else {
		d.rng = rTimesP
		d.ctx[ctx] += probStep[255-probIndex]
	}
	d.renorm()
	return ret
}

// Bit decodes one binary symbol under the given core context id.
func (d *Decoder) Bit(ctx int) bool { return d.bit(ctx) != 0 }

// decodeUint reads a unary-terminated magnitude: while the follow bit
// is 0, shift in one data bit and advance the follow context; the
// terminating follow bit of 1 ends the value. Matches
// dirac_get_arith_uint exactly (including its off-by-one: the
// returned magnitude excludes the implicit leading 1 used as an
// accumulator seed).
func (d *Decoder) decodeUint(followCtx, dataCtx int) uint32 {
	ret := uint32(1)
	for d.bit(followCtx) == 0 {
		ret <<= 1
		ret += uint32(d.bit(dataCtx))
		followCtx = int(nextCtx[followCtx])
	}
	return ret - 1
}

// decodeInt reads an unsigned magnitude via decodeUint, then a sign
// bit from dataCtx+1 when the magnitude is non-zero (spec.md §4.2's
// "signed decode appends a sign bit when magnitude is non-zero").
func (d *Decoder) decodeInt(followCtx, dataCtx int) int32 {
	v := d.decodeUint(followCtx, dataCtx)
	if v != 0 && d.bit(dataCtx+1) != 0 {
		return -int32(v)
	}
	return int32(v)
}
