// Package id3rm removes ID3v1, ID3v1.1 and ID3v2 tags from audio files by
// copying everything between them, byte for byte.
//
//	+---------------+
//	|  ID3v2 tag    |
//	|  (optional)   |
//	+---------------+ <-- Range.Start
//	|               |
//	|  payload      |
//	|               |
//	+---------------+ <-- Range.End
//	|  ID3v1 tag    |
//	|  (optional)   |
//	+---------------+
package id3rm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yorkxin/id3rm/internal/id3"
	"github.com/yorkxin/id3rm/internal/iout"
)

// ErrInterrupted is returned when the context is cancelled mid-copy.
var ErrInterrupted = errors.New("interrupted")

// tmpSuffix is appended to the input path while stripping in place.
const tmpSuffix = ".tmp"

// Options control how much of a file is trimmed.
type Options struct {
	// FullV1Trim trims the whole 128-byte ID3v1 tag instead of the 127 bytes
	// the original tool removes.
	FullV1Trim bool
}

func (o Options) v1Trim() int64 {
	if o.FullV1Trim {
		return id3.V1TagSize
	}
	return id3.V1LegacyTrim
}

// Report describes the tags found in a file and the payload kept.
type Report struct {
	Size     int64
	Presence id3.Presence
	Header   *id3.Header // nil unless Presence.V2
	Range    id3.Range
	V1       *id3.V1 // only filled by Inspect
	Written  int64   // bytes written by Strip
}

// Inspect detects the tags of r, a source of size bytes, and computes the
// payload range. Nothing is written.
func Inspect(r io.ReadSeeker, size int64, opts Options) (*Report, error) {
	report, err := inspect(r, size, opts)
	if err != nil {
		return nil, err
	}

	if ra, ok := r.(io.ReaderAt); ok && report.Presence.V1 {
		if report.V1, err = id3.ReadV1(ra, size); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func inspect(r io.ReadSeeker, size int64, opts Options) (*Report, error) {
	presence, err := id3.Detect(r, size)
	if err != nil {
		return nil, fmt.Errorf("detect tags: %w", err)
	}

	report := &Report{Size: size, Presence: presence}

	if presence.V2 {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek 0: %w", err)
		}
		if report.Header, err = id3.ParseHeader(r); err != nil {
			return nil, fmt.Errorf("parse ID3v2 header: %w", err)
		}
	}

	report.Range, err = id3.PayloadRangeTrim(size, presence, report.Header, opts.v1Trim())
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Strip writes the payload of r, a source of size bytes, to w.
func Strip(ctx context.Context, w io.Writer, r io.ReadSeeker, size int64, opts Options) (*Report, error) {
	report, err := inspect(r, size, opts)
	if err != nil {
		return nil, err
	}

	cw := iout.NewCountWriter(w)
	if err := iout.CopyRange(ctx, cw, r, report.Range.Start, report.Range.Len()); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		return nil, err
	}

	report.Written = int64(cw.Count())

	return report, nil
}

// StripFile strips the tags of the file at input and writes the result to
// output. If output is empty or names input, input is renamed to input+".tmp"
// and the result is written to input. The temporary is removed on success and
// left in place on failure, so the original content is never lost.
func StripFile(ctx context.Context, input, output string, opts Options) (*Report, error) {
	if output == "" || filepath.Clean(output) == filepath.Clean(input) {
		return stripInPlace(ctx, input, opts)
	}
	return stripFile(ctx, input, output, opts)
}

func stripInPlace(ctx context.Context, input string, opts Options) (*Report, error) {
	tmp := input + tmpSuffix
	if _, err := os.Stat(tmp); err == nil {
		return nil, fmt.Errorf("temporary %q already exists, a previous run may have failed", tmp)
	}

	if err := os.Rename(input, tmp); err != nil {
		return nil, fmt.Errorf("rename to temporary: %w", err)
	}

	report, err := stripFile(ctx, tmp, input, opts)
	if err != nil {
		return nil, fmt.Errorf("%w (original content kept in %q)", err, tmp)
	}

	if err := os.Remove(tmp); err != nil {
		return nil, fmt.Errorf("remove temporary: %w", err)
	}

	return report, nil
}

func stripFile(ctx context.Context, input, output string, opts Options) (*Report, error) {
	in, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return nil, err
	}

	out, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stat.Mode().Perm())
	if err != nil {
		return nil, err
	}

	report, err := Strip(ctx, out, in, stat.Size(), opts)
	if err != nil {
		out.Close()
		return nil, err
	}

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close output: %w", err)
	}

	return report, nil
}
