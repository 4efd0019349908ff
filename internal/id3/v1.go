package id3

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// V1 holds the fields of a trailing ID3v1 tag.
//
//	offset  length  field
//	0       3       "TAG"
//	3       30      title
//	33      30      artist
//	63      30      album
//	93      4       year
//	97      30      comment (28 + zero byte + track in ID3v1.1)
//	127     1       genre
type V1 struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   int // 0 unless the tag is ID3v1.1 style
	Genre   uint8
}

// ReadV1 reads the ID3v1 tag in the last 128 bytes of r.
func ReadV1(r io.ReaderAt, size int64) (*V1, error) {
	if size < V1TagSize {
		return nil, fmt.Errorf("file of %d bytes too short for ID3v1 tag", size)
	}

	block := make([]byte, V1TagSize)
	if _, err := r.ReadAt(block, size-V1TagSize); err != nil {
		return nil, fmt.Errorf("read ID3v1 tag: %w", err)
	}

	if !bytes.Equal(block[0:3], id3v1Flag) {
		return nil, fmt.Errorf("no ID3v1 tag")
	}

	tag := &V1{
		Title:  decodeLatin1Field(block[3:33]),
		Artist: decodeLatin1Field(block[33:63]),
		Album:  decodeLatin1Field(block[63:93]),
		Year:   decodeLatin1Field(block[93:97]),
		Genre:  block[127],
	}

	comment := block[97:127]
	if comment[28] == 0 && comment[29] != 0 {
		tag.Track = int(comment[29])
		comment = comment[:28]
	}
	tag.Comment = decodeLatin1Field(comment)

	return tag, nil
}

// decodeLatin1Field converts a fixed-width ISO-8859-1 field to UTF-8, cutting
// it at the first NUL and trimming space padding.
func decodeLatin1Field(data []byte) string {
	if i := bytes.IndexByte(data, 0x0); i >= 0 {
		data = data[:i]
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}

	return string(bytes.TrimRight(decoded, " "))
}
