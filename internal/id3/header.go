package id3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var id3v2Flag = []byte("ID3") // first 3 bytes of a file with ID3v2 tag

const (
	lenOfHeader = 10 // fixed length defined by ID3v2 spec
	lenOfFooter = 10 // v2.4 footer, a copy of the header with "3DI"
)

var (
	// ErrTruncatedHeader is returned when fewer than 10 bytes are available
	// where an ID3v2 header was expected.
	ErrTruncatedHeader = errors.New("truncated ID3v2 header")

	// ErrNotID3v2 is returned when the header identifier is not "ID3".
	ErrNotID3v2 = errors.New("invalid ID3v2 header")
)

// Header flag bits. Their meaning depends on the major version, see DeriveFlags.
const (
	flagBit7 = 0b10000000
	flagBit6 = 0b01000000
	flagBit5 = 0b00100000
	flagBit4 = 0b00010000
)

// Header is the 10-byte ID3v2 tag header.
//
//	ID3v2/file identifier   "ID3"
//	ID3v2 version           $0v 00
//	ID3v2 flags             %abcd0000
//	ID3v2 size              4 * %0xxxxxxx
type Header struct {
	Version  uint8 // major version, 2, 3 or 4
	Revision uint8
	Flags    uint8 // raw flags byte, see FlagSet
	Size     int   // tag size excluding header and footer
}

// HeaderFlags are the flags of a Header, resolved for its version.
type HeaderFlags struct {
	Unsynchronisation bool
	ExtendedHeader    bool // v2.3, v2.4
	Compression       bool // v2.2
	Experimental      bool // v2.3, v2.4
	Footer            bool // v2.4
}

// DeriveFlags resolves a raw flags byte for the given major version. Bits that
// are undefined for the version are ignored.
func DeriveFlags(raw, version uint8) HeaderFlags {
	f := HeaderFlags{
		Unsynchronisation: raw&flagBit7 != 0,
	}

	if version == 2 {
		f.Compression = raw&flagBit6 != 0
	} else {
		f.ExtendedHeader = raw&flagBit6 != 0
		f.Experimental = raw&flagBit5 != 0
	}

	if version == 4 {
		f.Footer = raw&flagBit4 != 0
	}

	return f
}

// FlagSet returns the flags of h resolved for h.Version.
func (h *Header) FlagSet() HeaderFlags {
	return DeriveFlags(h.Flags, h.Version)
}

// TagSize returns total bytes of the ID3v2 tag, including header and footer.
// This is how many bytes the tag occupies at the start of the file.
func (h *Header) TagSize() int64 {
	size := int64(h.Size) + lenOfHeader
	if h.FlagSet().Footer {
		size += lenOfFooter
	}
	return size
}

// Bytes encodes h back to its 10-byte form.
func (h *Header) Bytes() []byte {
	data := make([]byte, 0, lenOfHeader)
	data = append(data, id3v2Flag...)
	data = append(data, h.Version, h.Revision, h.Flags)
	data = append(data, encodeTagSize(h.Size)...)
	return data
}

func (h *Header) String() string {
	return fmt.Sprintf("ID3v2.%d.%d flags=%08b size=%d total=%d", h.Version, h.Revision, h.Flags, h.Size, h.TagSize())
}

// ParseHeader reads exactly 10 bytes from r and parses them as an ID3v2
// header. r should be positioned at the start of the tag.
func ParseHeader(r io.Reader) (*Header, error) {
	headerBytes := [lenOfHeader]byte{}
	n, err := io.ReadFull(r, headerBytes[:])

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedHeader, n, lenOfHeader)
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	return parseHeader(headerBytes)
}

func parseHeader(headerBytes [lenOfHeader]byte) (*Header, error) {
	if !bytes.Equal(headerBytes[0:3], id3v2Flag) {
		return nil, ErrNotID3v2
	}

	return &Header{
		Version:  headerBytes[3],
		Revision: headerBytes[4],
		Flags:    headerBytes[5],
		Size:     decodeTagSize(headerBytes[6:lenOfHeader]), // 6, 7, 8, 9
	}, nil
}
