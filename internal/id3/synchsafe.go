package id3

import "encoding/binary"

// DecodeSynchsafe returns the true value of a synch-safe integer. raw is the
// 4 size bytes read big-endian. Per ID3v2 spec, the MSB of each byte is always
// 0 and ignored, leaving 28 significant bits.
//
// For example:
//
//	(0x) 00 00 02 01
//	=> _0000000 _0000000 _0000010 _0000001
//	=> 10_0000001
//	=> 0x101
//	=> 257 (dec)
func DecodeSynchsafe(raw uint32) uint32 {
	var out uint32
	mask := uint32(0x7F000000)

	for mask != 0 {
		out >>= 1
		out |= raw & mask
		mask >>= 8
	}

	return out
}

// decodeTagSize decodes the 4-byte size field of a tag header.
//
// NOTE: If data is longer than 4 bytes, only the first 4 bytes will be processed.
func decodeTagSize(data []byte) int {
	return int(DecodeSynchsafe(binary.BigEndian.Uint32(data[0:4])))
}

// encodeTagSize is the inverse of decodeTagSize. Sizes that do not fit in
// 28 bits saturate to 0x7F7F7F7F.
func encodeTagSize(size int) []byte {
	data := make([]byte, 4)

	if size > maxTagSize {
		size = maxTagSize
	}

	for place := 3; place >= 0; place-- {
		data[place] = uint8(size & 0b01111111) // effect bits are lower 7 bits
		size >>= 7
	}

	return data
}

const maxTagSize = 1<<28 - 1
