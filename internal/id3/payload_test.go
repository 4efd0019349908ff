package id3

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadRange(t *testing.T) {
	v23 := &Header{Version: 3, Size: 100}
	v24Footer := &Header{Version: 4, Flags: 0b00010000, Size: 100}

	tests := []struct {
		name     string
		size     int64
		presence Presence
		header   *Header
		want     Range
	}{
		{"none", 500, Presence{}, nil, Range{0, 500}},
		{"none ignores header", 500, Presence{}, v23, Range{0, 500}},
		{"v2", 160, Presence{V2: true}, v23, Range{110, 160}},
		{"v2 with footer", 200, Presence{V2: true}, v24Footer, Range{120, 200}},
		{"v1", 1000, Presence{V1: true}, nil, Range{0, 873}},
		{"v1.1", 1000, Presence{V1_1: true}, nil, Range{0, 773}},
		{"v1 wins over v1.1", 1000, Presence{V1: true, V1_1: true}, nil, Range{0, 873}},
		{"v2 and v1", 1000, Presence{V1: true, V2: true}, v23, Range{110, 873}},
		{"v2 and v1.1", 1000, Presence{V1_1: true, V2: true}, v23, Range{110, 773}},
		{"v2 tag is the whole file", 110, Presence{V2: true}, v23, Range{110, 110}},
		{"v1 tag is the whole file", 127, Presence{V1: true}, nil, Range{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PayloadRange(tt.size, tt.presence, tt.header)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPayloadRangeTrim_FullV1(t *testing.T) {
	got, err := PayloadRangeTrim(1000, Presence{V1: true}, nil, V1TagSize)
	require.NoError(t, err)
	require.Equal(t, Range{0, 872}, got)

	got, err = PayloadRangeTrim(1000, Presence{V1_1: true}, nil, V1TagSize)
	require.NoError(t, err)
	require.Equal(t, Range{0, 773}, got)
}

func TestPayloadRange_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		presence Presence
		header   *Header
	}{
		{"v2 larger than file", 50, Presence{V2: true}, &Header{Version: 3, Size: 100}},
		{"v2 overlaps v1", 200, Presence{V1: true, V2: true}, &Header{Version: 3, Size: 100}},
		{"v1.1 in short file", 100, Presence{V1_1: true}, nil},
		{"negative size without tags", -5, Presence{}, nil},
		{"negative size with v2", -5, Presence{V2: true}, &Header{Version: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PayloadRange(tt.size, tt.presence, tt.header)
			require.True(t, errors.Is(err, ErrInvalidRange), "got error %v", err)

			var rangeErr *RangeError
			require.True(t, errors.As(err, &rangeErr))
			require.Equal(t, tt.size, rangeErr.Size)
		})
	}
}

func TestPayloadRange_MissingHeader(t *testing.T) {
	_, err := PayloadRange(500, Presence{V2: true}, nil)
	require.Error(t, err)
}

func TestPayloadRange_SyntheticFiles(t *testing.T) {
	audio := []byte("audio")

	t.Run("v2.3 tag of 100 bytes", func(t *testing.T) {
		data := buildFile(&Header{Version: 3, Size: 100}, bytes.Repeat(audio, 10), nil)
		size := int64(len(data))
		require.EqualValues(t, 160, size)

		p, err := Detect(bytes.NewReader(data), size)
		require.NoError(t, err)
		require.Equal(t, Presence{V2: true}, p)

		h, err := ParseHeader(bytes.NewReader(data))
		require.NoError(t, err)
		require.EqualValues(t, 110, h.TagSize())

		rng, err := PayloadRange(size, p, h)
		require.NoError(t, err)
		require.Equal(t, Range{110, 160}, rng)
		require.Equal(t, bytes.Repeat(audio, 10), data[rng.Start:rng.End])
	})

	t.Run("v1 tail", func(t *testing.T) {
		data := buildFile(nil, bytes.Repeat(audio, 40), v1Block())
		size := int64(len(data))

		p, err := Detect(bytes.NewReader(data), size)
		require.NoError(t, err)
		require.Equal(t, Presence{V1: true}, p)

		rng, err := PayloadRange(size, p, nil)
		require.NoError(t, err)
		require.Equal(t, Range{0, size - 127}, rng)
	})

	t.Run("v2 and v1", func(t *testing.T) {
		h := &Header{Version: 4, Flags: 0b00010000, Size: 30}
		data := buildFile(h, bytes.Repeat(audio, 40), v1Block())
		size := int64(len(data))

		p, err := Detect(bytes.NewReader(data), size)
		require.NoError(t, err)
		require.Equal(t, Presence{V1: true, V2: true}, p)

		parsed, err := ParseHeader(bytes.NewReader(data))
		require.NoError(t, err)

		rng, err := PayloadRange(size, p, parsed)
		require.NoError(t, err)
		require.Equal(t, Range{h.TagSize(), size - 127}, rng)
		require.EqualValues(t, 50, rng.Start)
	})

	t.Run("no tags", func(t *testing.T) {
		data := bytes.Repeat(audio, 100)
		size := int64(len(data))

		p, err := Detect(bytes.NewReader(data), size)
		require.NoError(t, err)
		require.True(t, p.None())

		rng, err := PayloadRange(size, p, nil)
		require.NoError(t, err)
		require.Equal(t, Range{0, size}, rng)
		require.Equal(t, size, rng.Len())
	})
}
