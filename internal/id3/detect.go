package id3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	id3v1Flag  = []byte("TAG")  // at size-128
	id3v11Flag = []byte("TAG+") // at size-227
)

// Fixed distances of the ID3v1 and ID3v1.1 markers from the end of file.
const (
	offsetV1   = 128
	offsetV1_1 = 227
)

// Presence tells which tags were found in a file. The probes are independent,
// so any combination may be set.
type Presence struct {
	V1   bool
	V1_1 bool
	V2   bool
}

// None reports whether no tag was found.
func (p Presence) None() bool {
	return !p.V1 && !p.V1_1 && !p.V2
}

func (p Presence) String() string {
	if p.None() {
		return "none"
	}

	var found []string
	if p.V1 {
		found = append(found, "ID3v1")
	}
	if p.V1_1 {
		found = append(found, "ID3v1.1")
	}
	if p.V2 {
		found = append(found, "ID3v2")
	}
	return strings.Join(found, "+")
}

// Detect probes r for ID3v1, ID3v1.1 and ID3v2 markers. size is the total
// length of r. Probes that do not fit in size bytes are skipped and count as
// not present.
//
// The position of r is unspecified after Detect returns.
func Detect(r io.ReadSeeker, size int64) (Presence, error) {
	var p Presence
	var err error

	if size >= offsetV1 {
		if p.V1, err = hasMarker(r, size-offsetV1, id3v1Flag); err != nil {
			return p, err
		}
	}

	if size >= offsetV1_1 {
		if p.V1_1, err = hasMarker(r, size-offsetV1_1, id3v11Flag); err != nil {
			return p, err
		}
	}

	if size >= int64(len(id3v2Flag)) {
		if p.V2, err = hasMarker(r, 0, id3v2Flag); err != nil {
			return p, err
		}
	}

	return p, nil
}

// hasMarker reads len(marker) bytes at offset and compares them to marker.
// A short read is a mismatch, not an error.
func hasMarker(r io.ReadSeeker, offset int64, marker []byte) (bool, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return false, fmt.Errorf("seek %d: %w", offset, err)
	}

	data := make([]byte, len(marker))
	_, err := io.ReadFull(r, data)

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("read %d: %w", offset, err)
	}

	return bytes.Equal(data, marker), nil
}
