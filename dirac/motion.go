package dirac

import (
	"github.com/gowave/dwvdec/bitio"
	"github.com/gowave/dwvdec/codec"
)

// BlockMode classifies one motion block's prediction source, derived
// from its decoded use_ref bitmask (blockmode_prediction).
type BlockMode int

const (
	ModeIntra BlockMode = iota
	ModeRef1
	ModeRef2
	ModeBiRef
)

// use_ref bitmask bits (DIRAC_REF_MASK_* in diracdec.c): bit 0 selects
// reference 1, bit 1 reference 2, bit 2 global motion. A block using
// global motion still carries one of the ref bits (global motion
// warps a reference picture, it doesn't replace needing one).
const (
	refMaskRef1   uint8 = 1
	refMaskRef2   uint8 = 2
	refMaskGlobal uint8 = 4
)

// MotionBlock holds one block's decoded prediction parameters (C4):
// the use_ref bitmask selecting which reference(s) and/or global
// motion it draws from, its per-reference/per-axis motion vectors,
// and its per-component intra DC residual (valid only when the block
// uses neither reference).
type MotionBlock struct {
	UseRef uint8
	MV     [2][2]int32 // MV[ref][dir]: ref 0 = ref1, ref 1 = ref2; dir 0 = x, dir 1 = y
	DC     [3]int32    // per YUV component
}

// Mode reports the block's coarse prediction classification from the
// low two bits of its use_ref bitmask.
func (b MotionBlock) Mode() BlockMode {
	switch b.UseRef & (refMaskRef1 | refMaskRef2) {
	case refMaskRef1:
		return ModeRef1
	case refMaskRef2:
		return ModeRef2
	case refMaskRef1 | refMaskRef2:
		return ModeBiRef
	default:
		return ModeIntra
	}
}

// Global reports whether this block predicts from the picture's
// global-motion parameters instead of its own vector(s).
func (b MotionBlock) Global() bool { return b.UseRef&refMaskGlobal != 0 }

// MotionGrid holds the full superblock/block-motion data for one
// picture (spec.md §4.7): a sbwidth x sbheight grid of split levels,
// and the blwidth x blheight grid of motion blocks those split levels
// group -- blwidth/blheight are always sbwidth/sbheight<<2 regardless
// of picture size, matching dirac_unpack_block_motion_data's own
// blwidth/blheight derivation.
type MotionGrid struct {
	SBWidth, SBHeight int
	BLWidth, BLHeight int

	SplitLevel []uint8
	Blocks     []MotionBlock
}

// NewMotionGrid allocates a grid of sbw x sbh superblocks.
func NewMotionGrid(sbw, sbh int) *MotionGrid {
	return &MotionGrid{
		SBWidth: sbw, SBHeight: sbh,
		BLWidth: sbw << 2, BLHeight: sbh << 2,
		SplitLevel: make([]uint8, sbw*sbh),
		Blocks:     make([]MotionBlock, (sbw<<2)*(sbh<<2)),
	}
}

// propagateBlockData copies the representative block already written
// at (x, y) across the step x step group of blocks it stands in for,
// per propagate_block_data -- called after every per-block decode so
// a superblock's split level directly controls how many motion blocks
// end up sharing one decoded value.
func (g *MotionGrid) propagateBlockData(step, x, y int) {
	rep := g.Blocks[y*g.BLWidth+x]
	for j := y; j < y+step; j++ {
		for i := x; i < x+step; i++ {
			g.Blocks[j*g.BLWidth+i] = rep
		}
	}
}

// splitPrediction reconstructs split_prediction: diracdec.c calls it
// but its body lives outside this retrieval pack's excerpt. Per
// DESIGN.md's reconstruction-table decision, this reuses the same
// median-of-causal-neighbours idiom already grounded for
// PredictMV/PredictDC -- split level is an integer-valued field
// predicted from left/up/up-left the same way those are, unlike the
// boolean mode/global flags that use PredictMode's majority vote.
func splitPrediction(g *MotionGrid, x, y int) int32 {
	var left, up, upLeft int32
	if x > 0 {
		left = int32(g.SplitLevel[y*g.SBWidth+x-1])
	}
	if y > 0 {
		up = int32(g.SplitLevel[(y-1)*g.SBWidth+x])
	}
	if x > 0 && y > 0 {
		upLeft = int32(g.SplitLevel[(y-1)*g.SBWidth+x-1])
	}
	return median3(left, up, upLeft)
}

// decodeModeBitAt recovers one use_ref bit (selected by mask) at block
// (x, y) from its left/up/up-left neighbours' already-decoded bits,
// the shared shape behind blockmode_prediction's and
// blockglob_prediction's mode_prediction calls.
func decodeModeBitAt(d *Decoder, ctx int, g *MotionGrid, x, y int, mask uint8) bool {
	var left, up, upLeft bool
	if x > 0 {
		left = g.Blocks[y*g.BLWidth+x-1].UseRef&mask != 0
	}
	if y > 0 {
		up = g.Blocks[(y-1)*g.BLWidth+x].UseRef&mask != 0
	}
	if x > 0 && y > 0 {
		upLeft = g.Blocks[(y-1)*g.BLWidth+x-1].UseRef&mask != 0
	}
	return DecodeModeBit(d.Bit(ctx), left, up, upLeft)
}

// decodeBlockMode runs blockmode_prediction for block (x, y): ref1's
// bit is always decoded, ref2's only when the picture has two
// references.
func decodeBlockMode(d *Decoder, g *MotionGrid, x, y, refs int) uint8 {
	var useRef uint8
	if decodeModeBitAt(d, ctxPModeRef1, g, x, y, refMaskRef1) {
		useRef |= refMaskRef1
	}
	if refs == 2 && decodeModeBitAt(d, ctxPModeRef2, g, x, y, refMaskRef2) {
		useRef |= refMaskRef2
	}
	return useRef
}

// decodeBlockGlobal runs blockglob_prediction: the global-motion bit
// is only coded when the picture enabled global motion compensation
// and the block already uses at least one reference -- a pure-intra
// block never reaches this arithmetic-coded bit at all.
func decodeBlockGlobal(d *Decoder, g *MotionGrid, x, y int, useRef uint8, globalMC bool) uint8 {
	if !globalMC || useRef&(refMaskRef1|refMaskRef2) == 0 {
		return 0
	}
	if decodeModeBitAt(d, ctxGlobalBlock, g, x, y, refMaskGlobal) {
		return refMaskGlobal
	}
	return 0
}

// unpackSplitModes runs the superblock splitmode pass: one
// arithmetic-coded unsigned residual per superblock, added to its
// causal-neighbour prediction and reduced mod 3 (unpack_sbsplit).
func unpackSplitModes(d *Decoder, g *MotionGrid) {
	for y := 0; y < g.SBHeight; y++ {
		for x := 0; x < g.SBWidth; x++ {
			res := int32(d.decodeUint(ctxSBF1, ctxSBData))
			level := (res + splitPrediction(g, x, y)) % 3
			g.SplitLevel[y*g.SBWidth+x] = uint8(level)
		}
	}
}

// unpackBlockModes runs the prediction-mode pass: for every
// superblock, its split level determines blkcnt (1, 2, or 4) and step
// (4, 2, or 1) in 8x8-ish block units, and every one of the
// blkcnt x blkcnt representative blocks gets its own mode/global bits
// decoded and then propagated across its step x step group.
func unpackBlockModes(d *Decoder, g *MotionGrid, refs int, globalMC bool) {
	for y := 0; y < g.SBHeight; y++ {
		for x := 0; x < g.SBWidth; x++ {
			level := g.SplitLevel[y*g.SBWidth+x]
			blkcnt := 1 << level
			step := 4 >> level
			for q := 0; q < blkcnt; q++ {
				for p := 0; p < blkcnt; p++ {
					xblk, yblk := 4*x+p*step, 4*y+q*step
					useRef := decodeBlockMode(d, g, xblk, yblk, refs)
					useRef |= decodeBlockGlobal(d, g, xblk, yblk, useRef, globalMC)
					g.Blocks[yblk*g.BLWidth+xblk] = MotionBlock{UseRef: useRef}
					g.propagateBlockData(step, xblk, yblk)
				}
			}
		}
	}
}

// motionVectorPrediction reconstructs motion_vector_prediction: like
// splitPrediction, its body isn't present in the retrieval pack, so
// this reuses PredictMV's existing left/up/up-right median exactly as
// already grounded for the (now-removed) single-reference path, per
// axis and per reference.
func motionVectorPrediction(g *MotionGrid, x, y, ref, dir int) int32 {
	var left, up, upRight [2]int32
	if x > 0 {
		left[dir] = g.Blocks[y*g.BLWidth+x-1].MV[ref][dir]
	}
	if y > 0 {
		up[dir] = g.Blocks[(y-1)*g.BLWidth+x].MV[ref][dir]
	}
	if y > 0 && x+1 < g.BLWidth {
		upRight[dir] = g.Blocks[(y-1)*g.BLWidth+x+1].MV[ref][dir]
	}
	return PredictMV(left, up, upRight)[dir]
}

// decodeMotionVector runs dirac_unpack_motion_vector for one block:
// it only reads a vector when the block's use_ref bitmask includes
// this reference and does not select global motion (refmask skips
// blocks using DIRAC_REF_MASK_GLOBAL or lacking this ref's bit; a block
// using both references is read in both references' passes).
func decodeMotionVector(d *Decoder, g *MotionGrid, ref, dir, x, y int) {
	refmask := uint8(ref+1) | refMaskGlobal
	b := &g.Blocks[y*g.BLWidth+x]
	if b.UseRef&refmask != uint8(ref+1) {
		return
	}
	res := d.decodeInt(ctxMVF1, ctxMVData)
	b.MV[ref][dir] = res + motionVectorPrediction(g, x, y, ref, dir)
}

// unpackMotionVectorPass runs one dirac_unpack_motion_vectors call:
// one full superblock walk for a single (ref, dir) combination. The
// caller (UnpackBlockMotion) invokes this once per reference per axis,
// each over its own independent arithmetic-coded region.
func unpackMotionVectorPass(d *Decoder, g *MotionGrid, ref, dir int) {
	for y := 0; y < g.SBHeight; y++ {
		for x := 0; x < g.SBWidth; x++ {
			level := g.SplitLevel[y*g.SBWidth+x]
			blkcnt := 1 << level
			step := 4 >> level
			for q := 0; q < blkcnt; q++ {
				for p := 0; p < blkcnt; p++ {
					xblk, yblk := 4*x+p*step, 4*y+q*step
					decodeMotionVector(d, g, ref, dir, xblk, yblk)
					g.propagateBlockData(step, xblk, yblk)
				}
			}
		}
	}
}

// blockDCPrediction reuses PredictDC exactly: a block's DC predicts
// from its left/up/up-left neighbours' DC only when all three are
// available, 0 otherwise (block_dc_prediction, another body not
// present in the retrieval pack excerpt).
func blockDCPrediction(g *MotionGrid, x, y, comp int) int32 {
	var left, up, upLeft int32
	if x > 0 {
		left = g.Blocks[y*g.BLWidth+x-1].DC[comp]
	}
	if y > 0 {
		up = g.Blocks[(y-1)*g.BLWidth+x].DC[comp]
	}
	if x > 0 && y > 0 {
		upLeft = g.Blocks[(y-1)*g.BLWidth+x-1].DC[comp]
	}
	return PredictDC(left, up, upLeft, x > 0, y > 0, x > 0 && y > 0)
}

// decodeBlockDC runs unpack_block_dc: a pure-intra block (using
// neither reference) gets an arithmetic-coded DC residual added to
// its neighbour prediction; any block using a reference has its DC
// forced to 0 instead (DC only carries intra texture).
func decodeBlockDC(d *Decoder, g *MotionGrid, x, y, comp int) {
	b := &g.Blocks[y*g.BLWidth+x]
	if b.UseRef&(refMaskRef1|refMaskRef2) != 0 {
		b.DC[comp] = 0
		return
	}
	b.DC[comp] = d.decodeInt(ctxDCF1, ctxDCData) + blockDCPrediction(g, x, y, comp)
}

// unpackDCPass runs one component's DC pass over the whole superblock
// grid, propagating each representative block's DC the same way the
// split/mode/MV passes do.
func unpackDCPass(d *Decoder, g *MotionGrid, comp int) {
	for y := 0; y < g.SBHeight; y++ {
		for x := 0; x < g.SBWidth; x++ {
			level := g.SplitLevel[y*g.SBWidth+x]
			blkcnt := 1 << level
			step := 4 >> level
			for q := 0; q < blkcnt; q++ {
				for p := 0; p < blkcnt; p++ {
					xblk, yblk := 4*x+p*step, 4*y+q*step
					decodeBlockDC(d, g, xblk, yblk, comp)
					g.propagateBlockData(step, xblk, yblk)
				}
			}
		}
	}
}

// runArithRegion reads a byte-length-prefixed field (spec.md §4.2) and
// hands fn a fresh Decoder scoped to exactly that many bytes of data,
// mirroring dirac_arith_init/dirac_arith_flush: the outer reader
// always advances past the whole declared length afterwards,
// regardless of how many bytes fn's Decoder actually consumed.
func runArithRegion(data []byte, r *bitio.Reader, fn func(*Decoder)) {
	length := int(r.ReadUE())
	r.Align()
	start := r.BitPos() / 8
	if start > len(data) {
		start = len(data)
	}
	end := start + length
	if end > len(data) {
		end = len(data)
	}
	fn(NewDecoder(data[start:end]))
	r.Skip(length * 8)
}

// blockParamDefaults holds the four preset block-size/separation
// profiles UnpackPredictionParameters's block-parameter index 1-4
// selects (ff_dirac_block_param_defaults). Its literal values are not
// present anywhere in the retrieval pack -- diracdec.c references the
// table but its definition lives outside the excerpt -- so, per
// DESIGN.md's reconstruction-table decision, this reproduces the
// published Dirac/VC-2 default block-parameter profiles rather than
// inventing unrelated values.
var blockParamDefaults = [4]struct{ xblen, yblen, xbsep, ybsep int }{
	{8, 8, 4, 4},
	{12, 12, 8, 8},
	{16, 16, 12, 12},
	{24, 24, 16, 16},
}

// GlobalMotion holds one reference's optional global-motion parameters
// (pan/tilt, a 2x2 zoom/rotation/shear matrix, perspective), per
// dirac_unpack_prediction_parameters's globalmc block. ZRS defaults to
// the identity matrix (ZRS[0][0] = ZRS[1][1] = 1) when the picture
// doesn't override it.
type GlobalMotion struct {
	PanX, PanY int32

	ZRSExponent int32
	ZRS         [2][2]int32

	PerspectiveExponent        int32
	PerspectiveX, PerspectiveY int32
}

// BlockParams holds the motion-block geometry, precision, and
// optional global-motion/weight overrides read by
// UnpackPredictionParameters.
type BlockParams struct {
	LumaXBlen, LumaYBlen int
	LumaXBsep, LumaYBsep int

	ChromaXBlen, ChromaYBlen int
	ChromaXBsep, ChromaYBsep int

	MVPrecision int

	GlobalMC bool
	Global   [2]GlobalMotion // per reference

	WeightPrecision int
	WeightRef1      int32
	WeightRef2      int32
}

// UnpackPredictionParameters reads the syntax spec.md §6 places between
// a picture's reference list and its block motion data
// (dirac_unpack_prediction_parameters): the block size/separation
// preset or an explicit override, the chroma geometry derived from the
// luma one via the given subsampling shifts, MV precision, an optional
// per-reference global-motion parameter set, an ignored
// picture-prediction-mode field, and an optional reference-weight
// override. Unlike the block-motion-data section, this one is read
// directly off the plain bit reader, not an arithmetic-coded region.
func UnpackPredictionParameters(r *bitio.Reader, refs, chromaHShift, chromaVShift int) (BlockParams, error) {
	var p BlockParams

	idx := int(r.ReadUE())
	if idx > 4 {
		return p, codec.New(codec.InvalidSyntax, "dirac.UnpackPredictionParameters", "block parameter index out of range")
	}
	if idx == 0 {
		p.LumaXBlen = int(r.ReadUE())
		p.LumaYBlen = int(r.ReadUE())
		p.LumaXBsep = int(r.ReadUE())
		p.LumaYBsep = int(r.ReadUE())
	} else {
		d := blockParamDefaults[idx-1]
		p.LumaXBlen, p.LumaYBlen, p.LumaXBsep, p.LumaYBsep = d.xblen, d.yblen, d.xbsep, d.ybsep
	}
	p.ChromaXBlen = p.LumaXBlen >> chromaHShift
	p.ChromaYBlen = p.LumaYBlen >> chromaVShift
	p.ChromaXBsep = p.LumaXBsep >> chromaHShift
	p.ChromaYBsep = p.LumaYBsep >> chromaVShift

	p.MVPrecision = int(r.ReadUE())

	p.GlobalMC = r.ReadBool()
	if p.GlobalMC {
		for ref := 0; ref < refs; ref++ {
			var g GlobalMotion
			g.ZRS[0][0], g.ZRS[1][1] = 1, 1
			if r.ReadBool() {
				g.PanX = r.ReadSE()
				g.PanY = r.ReadSE()
			}
			if r.ReadBool() {
				g.ZRSExponent = int32(r.ReadUE())
				g.ZRS[0][0] = r.ReadSE()
				g.ZRS[0][1] = r.ReadSE()
				g.ZRS[1][0] = r.ReadSE()
				g.ZRS[1][1] = r.ReadSE()
			}
			if r.ReadBool() {
				g.PerspectiveExponent = int32(r.ReadUE())
				g.PerspectiveX = r.ReadSE()
				g.PerspectiveY = r.ReadSE()
			}
			p.Global[ref] = g
		}
	}

	r.ReadUE() // picture prediction mode: unused, spec-mandated zero

	p.WeightPrecision, p.WeightRef1, p.WeightRef2 = 1, 1, 1
	if r.ReadBool() {
		p.WeightPrecision = int(r.ReadUE())
		p.WeightRef1 = r.ReadSE()
		if refs == 2 {
			p.WeightRef2 = r.ReadSE()
		}
	}
	return p, nil
}

// gridUsesGlobalMotion reports whether any block in g selected
// global-motion prediction.
func gridUsesGlobalMotion(g *MotionGrid) bool {
	for _, b := range g.Blocks {
		if b.Global() {
			return true
		}
	}
	return false
}

// UnpackBlockMotion runs the block-motion-data section in full
// (dirac_unpack_block_motion_data): the superblock grid is sized from
// the picture dimensions and the prediction parameters' luma block
// separation, then 5 + 2*refs independent length-prefixed arithmetic
// regions (7 for one reference, 9 for two) are read in turn -- splitmodes, modes, one motion-vector
// region per (reference, axis), and one DC region per YUV component.
//
// Applying the decoded motion field to produce a prediction is outside
// this package's scope (C9's reconstruction scheduler is a leaf
// operator per spec.md §1); UnpackBlockMotion's job is to consume
// exactly the bits a real stream contains so later syntax stays
// aligned. It returns codec.UnsupportedFeature only once some block
// actually selects global motion, since the parameters themselves must
// still be fully parsed to keep the bitstream aligned either way.
func UnpackBlockMotion(data []byte, r *bitio.Reader, width, height, refs int, p BlockParams) (*MotionGrid, error) {
	if p.LumaXBsep <= 0 || p.LumaYBsep <= 0 {
		return nil, codec.New(codec.InvalidSyntax, "dirac.UnpackBlockMotion", "non-positive block separation")
	}
	sbw := (width + p.LumaXBsep<<2 - 1) / (p.LumaXBsep << 2)
	sbh := (height + p.LumaYBsep<<2 - 1) / (p.LumaYBsep << 2)
	g := NewMotionGrid(sbw, sbh)

	runArithRegion(data, r, func(d *Decoder) { unpackSplitModes(d, g) })
	runArithRegion(data, r, func(d *Decoder) { unpackBlockModes(d, g, refs, p.GlobalMC) })

	for ref := 0; ref < refs; ref++ {
		for dir := 0; dir < 2; dir++ {
			runArithRegion(data, r, func(d *Decoder) { unpackMotionVectorPass(d, g, ref, dir) })
		}
	}
	for comp := 0; comp < 3; comp++ {
		runArithRegion(data, r, func(d *Decoder) { unpackDCPass(d, g, comp) })
	}

	if gridUsesGlobalMotion(g) {
		return g, codec.New(codec.UnsupportedFeature, "dirac.UnpackBlockMotion", "global motion compensation is not implemented")
	}
	return g, nil
}
