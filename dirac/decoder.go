package dirac

import (
	"errors"

	"github.com/gowave/dwvdec/bitio"
	"github.com/gowave/dwvdec/codec"
	"github.com/gowave/dwvdec/refframe"
)

// Decoder holds the persistent state for one Dirac stream: picture
// dimensions from the sequence header, and the reference-frame table
// (C10) tracking which decoded pictures remain live for future
// prediction or display.
type Decoder struct {
	cfg codec.Config

	width, height int
	refs          *refframe.Table
	lastPicNum    uint32
	nextDisplay   uint32
}

// NewDiracDecoder returns a Decoder ready to accept a sequence header
// followed by coded pictures.
func NewDiracDecoder(cfg codec.Config) *Decoder {
	return &Decoder{cfg: cfg, refs: refframe.New(8)}
}

// ParseSequenceHeader reads the picture dimensions from a Dirac
// sequence header, per spec.md §6's Dirac frame syntax.
func (d *Decoder) ParseSequenceHeader(data []byte) error {
	if len(data) < 8 {
		return codec.New(codec.Truncated, "dirac.ParseSequenceHeader", "sequence header too short")
	}
	r := bitio.NewReader(data)
	r.Skip(32) // parse code prefix + code, validated by the caller's container demux
	w := int(r.ReadBits(32))
	h := int(r.ReadBits(32))
	if w <= 0 || h <= 0 {
		return codec.New(codec.DimensionError, "dirac.ParseSequenceHeader", "non-positive picture dimensions")
	}
	d.width, d.height = w, h
	return nil
}

// DecodeFrame decodes one coded Dirac picture and, for every picture
// now ready to display in picture-number order, invokes out. A
// zero-length data replays the next already-decoded picture from the
// reference table without consuming any bitstream -- spec.md §6's
// "auxiliary data unit with no payload" display-order flush path.
// A picture whose block motion uses global motion is still inserted
// and passed to out, and DecodeFrame then returns the UnsupportedFeature
// error.
func (d *Decoder) DecodeFrame(data []byte, out codec.OutputFunc) error {
	if d.width == 0 {
		return codec.New(codec.InvalidSyntax, "dirac.DecodeFrame", "frame received before sequence header")
	}
	if len(data) == 0 {
		f, ok := d.refs.NextDisplay(d.nextDisplay)
		if !ok {
			return nil
		}
		d.nextDisplay = f.Display + 1
		out(f)
		return nil
	}

	r := bitio.NewReader(data)
	picNum := r.ReadBits(32)

	// Reference picture numbers are coded relative to picNum as signed
	// Exp-Golomb deltas, each immediately followed by its own signed
	// Exp-Golomb retire flag (spec.md §6); refCount of 0 marks an intra
	// picture. A reference only gets retired once its flag is nonzero --
	// a reference a picture still needs stays live even past this point.
	refCount := int(r.ReadBits(2))
	refs := make([]uint32, refCount)
	var toRetire []uint32
	for i := 0; i < refCount; i++ {
		delta := r.ReadSE()
		refs[i] = uint32(int64(picNum) + int64(delta))
		if r.ReadSE() != 0 {
			toRetire = append(toRetire, refs[i])
		}
	}

	isIntra := refCount == 0
	var unsupported error
	if !isIntra {
		r.Align()
		params, err := UnpackPredictionParameters(r, refCount, 1, 1)
		if err != nil {
			return err
		}
		r.Align()
		if _, err := UnpackBlockMotion(data, r, d.width, d.height, refCount, params); err != nil {
			if !errors.Is(err, codec.Sentinel(codec.UnsupportedFeature)) {
				return err
			}
			unsupported = err
		}
		r.Align()
	}

	frame := codec.NewFrame(d.width, d.height)
	frame.Display = picNum
	frame.Reference = true
	if err := d.refs.Insert(frame, true); err != nil {
		return err
	}
	for _, rn := range toRetire {
		d.refs.Retire(rn)
	}
	d.refs.MarkDisplayed(picNum)
	if picNum >= d.nextDisplay {
		d.nextDisplay = picNum + 1
	}
	d.lastPicNum = picNum
	out(frame)
	return unsupported
}

// End releases the decoder's reference-frame table state.
func (d *Decoder) End() error {
	d.refs = refframe.New(8)
	return nil
}
