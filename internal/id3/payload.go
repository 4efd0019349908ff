package id3

import (
	"errors"
	"fmt"
)

// Bytes trimmed from the end of file for a trailing tag.
const (
	// V1LegacyTrim is one byte short of the ID3v1 tag. Kept for output
	// compatibility with the original tool.
	V1LegacyTrim = 127
	V1TagSize    = 128
	V1_1Trim     = 227
)

// ErrInvalidRange is matched by every *RangeError.
var ErrInvalidRange = errors.New("invalid payload range")

// RangeError is returned when the detected tags do not fit in the file, eg. an
// ID3v2 tag declaring a size larger than the file itself.
type RangeError struct {
	Start, End, Size int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid payload range [%d, %d) for file of %d bytes", e.Start, e.End, e.Size)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// Range is the half-open byte span [Start, End) of the payload to keep.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// PayloadRange computes the bytes of a file of size bytes that remain once the
// tags in p are removed, trimming V1LegacyTrim bytes for an ID3v1 tag. h must
// be the parsed ID3v2 header when p.V2 is set.
func PayloadRange(size int64, p Presence, h *Header) (Range, error) {
	return PayloadRangeTrim(size, p, h, V1LegacyTrim)
}

// PayloadRangeTrim is PayloadRange with a custom ID3v1 trim, usually
// V1LegacyTrim or V1TagSize.
//
// ID3v1 and ID3v1.1 are trimmed exclusively: when both markers are present only
// the ID3v1 trim applies.
func PayloadRangeTrim(size int64, p Presence, h *Header, v1Trim int64) (Range, error) {
	if size < 0 {
		return Range{}, &RangeError{Start: 0, End: size, Size: size}
	}

	if p.None() {
		return Range{Start: 0, End: size}, nil
	}

	var rng Range

	if p.V2 {
		if h == nil {
			return Range{}, errors.New("ID3v2 detected without a parsed header")
		}
		rng.Start = h.TagSize()
	}

	var trim int64
	switch {
	case p.V1:
		trim = v1Trim
	case p.V1_1:
		trim = V1_1Trim
	}

	rng.End = size - trim

	if rng.Start < 0 || rng.Start > rng.End || rng.End > size {
		return Range{}, &RangeError{Start: rng.Start, End: rng.End, Size: size}
	}

	return rng, nil
}
