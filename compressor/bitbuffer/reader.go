package bitbuffer

import (
	"fmt"
	"io"
)

// Reader reads bits MSB-first from a byte slice.
type Reader struct {
	data   []byte
	offset int
	limit  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data, limit: 8 * len(data)}
}

// NewLimitedReader reads only the first limit bits of data.
func NewLimitedReader(data []byte, limit int) *Reader {
	if limit > 8*len(data) {
		limit = 8 * len(data)
	}
	if limit < 0 {
		limit = 0
	}
	return &Reader{data: data, limit: limit}
}

// Offset returns the number of bits consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of bits left to read.
func (r *Reader) Remaining() int {
	return r.limit - r.offset
}

// ReadBit returns the next bit, or io.EOF once the reader is exhausted.
func (r *Reader) ReadBit() (uint8, error) {
	if r.offset >= r.limit {
		return 0, io.EOF
	}
	bit := r.data[r.offset/8] >> (7 - r.offset%8) & 1
	r.offset++
	return bit, nil
}

// ReadBits returns the next n bits (n <= 64) packed into the low bits of the result,
// first bit read being the most significant.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, fmt.Errorf("%w: cannot read %d bits at once", ErrOutOfRange, n)
	}
	if n > r.Remaining() {
		return 0, io.ErrUnexpectedEOF
	}
	var v uint64
	for i := 0; i < n; i++ {
		bit, _ := r.ReadBit()
		v = v<<1 | uint64(bit)
	}
	return v, nil
}
