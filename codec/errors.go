// Package codec holds types shared by the dirac and vp3 decoders: the
// frame representation, the error-kind taxonomy, and the package-level
// logger hook.
package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrKind classifies a decode failure into one of the closed set of
// kinds both decoders can raise. Callers should switch on Kind rather
// than matching error strings.
type ErrKind string

const (
	// Truncated means the bitstream ended, or a length field promised
	// more data than the container actually holds.
	Truncated ErrKind = "truncated"
	// InvalidSyntax means a reserved value, an out-of-range index, or
	// malformed extradata was encountered.
	InvalidSyntax ErrKind = "invalid_syntax"
	// MalformedTable means a VLC/Huffman tree was ill-formed (over- or
	// under-specified).
	MalformedTable ErrKind = "malformed_table"
	// DimensionError means a frame or plane had a zero or impossibly
	// large dimension.
	DimensionError ErrKind = "dimension_error"
	// BufferOverrun means the reference-frame table's capacity was
	// exceeded.
	BufferOverrun ErrKind = "buffer_overrun"
	// UnsupportedFeature means the bitstream requested a variant this
	// decoder does not implement (global motion compensation, an
	// unsupported wavelet index, non-4:2:0 chroma mode inheritance).
	UnsupportedFeature ErrKind = "unsupported_feature"
)

// Error is the concrete error type returned by both decoders. Kind is
// always one of the ErrKind constants above; Stage names the
// component or syntax element being parsed when the failure occurred.
type Error struct {
	Kind  ErrKind
	Stage string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the same ErrKind wrapped as a sentinel
// via Sentinel(kind), so callers can do errors.Is(err, codec.Sentinel(codec.Truncated)).
func (e *Error) Is(target error) bool {
	s, ok := target.(sentinel)
	return ok && s.kind == e.Kind
}

// sentinel is a comparable error value usable with errors.Is to test
// for a given ErrKind regardless of stage or wrapped cause.
type sentinel struct{ kind ErrKind }

func (s sentinel) Error() string { return string(s.kind) }

// Sentinel returns a stable error value for use with errors.Is(err, codec.Sentinel(kind)).
func Sentinel(kind ErrKind) error { return sentinel{kind: kind} }

// Wrap builds an *Error of the given kind, wrapping cause with a
// stage-qualified message via pkg/errors so the original call chain
// survives in %+v output.
func Wrap(kind ErrKind, stage string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Stage: stage, cause: errors.Wrap(cause, stage)}
}

// New builds an *Error of the given kind with no wrapped cause, for
// syntax violations detected directly rather than propagated from a
// lower layer.
func New(kind ErrKind, stage, msg string) error {
	return &Error{Kind: kind, Stage: stage, cause: errors.New(msg)}
}
