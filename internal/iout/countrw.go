package iout

import (
	"io"
	"sync/atomic"
)

type CountWriter struct {
	w io.Writer
	c *uint64
}

func NewCountWriter(w io.Writer) *CountWriter {
	return &CountWriter{w: w, c: new(uint64)}
}

func (c *CountWriter) Count() uint64 { return atomic.LoadUint64(c.c) }

func (c *CountWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	atomic.AddUint64(c.c, uint64(n))
	return n, err
}

var _ io.Writer = (*CountWriter)(nil)
