package iout

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// CopyRange writes exactly length bytes of r, starting at start, to w. It stops
// before the next read once ctx is done.
func CopyRange(ctx context.Context, w io.Writer, r io.ReadSeeker, start, length int64) error {
	if start < 0 || length < 0 {
		return fmt.Errorf("invalid range start %d length %d", start, length)
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("seek %d: %w", start, err)
	}
	n, err := io.CopyN(w, NewContextReader(ctx, r), length)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("copy %d: got %d bytes: %w", length, n, io.ErrUnexpectedEOF)
	}
	if err != nil {
		return fmt.Errorf("copy %d: %w", length, err)
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

// NewContextReader returns a reader that fails with ctx.Err() once ctx is
// done, before reading from r.
func NewContextReader(ctx context.Context, r io.Reader) io.Reader {
	return &contextReader{ctx: ctx, r: r}
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ io.Reader = (*contextReader)(nil)
