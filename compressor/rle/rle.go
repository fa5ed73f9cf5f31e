// Package rle implements bit-level run-length coding.
//
// The input is read as a bit stream, most significant bit of each byte first. Every run
// of equal bits, split into runs of at most 2^(blockBits-1), becomes one block: the bit
// value followed by blockBits-1 bits of run length minus one. The output starts with one
// byte holding the number of zero bits that pad the last block to a byte boundary.
package rle

import (
	"fmt"
	"io"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/bitbuffer"
)

const (
	BlockBits      = 4
	MaxRepetitions = 1 << (BlockBits - 1)
)

var ErrMalformed = fmt.Errorf("%w: malformed rle data", compressor.ErrFormat)

type RLE struct {
	blockBits      int
	maxRepetitions int
}

type Option func(*RLE) error

// WithBlockBits sets the width of a block, sign bit included. Both sides of a stream
// must agree on it.
func WithBlockBits(n int) Option {
	return func(r *RLE) error {
		if n < 2 || n > 8 {
			return fmt.Errorf("rle: block width %d outside [2, 8]", n)
		}
		r.blockBits = n
		r.maxRepetitions = 1 << (n - 1)
		return nil
	}
}

func New(opts ...Option) (*RLE, error) {
	r := &RLE{blockBits: BlockBits, maxRepetitions: MaxRepetitions}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *RLE) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	blocks := bitbuffer.New()
	input := bitbuffer.NewReader(data)
	current, _ := input.ReadBit()
	repetitions := 1
	for {
		bit, err := input.ReadBit()
		if err == io.EOF {
			break
		}
		if bit == current && repetitions < r.maxRepetitions {
			repetitions++
			continue
		}
		r.writeBlock(blocks, current, repetitions)
		current, repetitions = bit, 1
	}
	r.writeBlock(blocks, current, repetitions)

	paddingBits := blocks.PadToByte()
	return bitbuffer.Concatenate(
		bitbuffer.New().InsertBits(uint64(paddingBits), 8),
		blocks,
	).Bytes(), nil
}

func (r *RLE) writeBlock(bb *bitbuffer.BitBuffer, bit uint8, repetitions int) {
	bb.InsertBit(bit)
	bb.InsertBits(uint64(repetitions-1), r.blockBits-1)
}

func (r *RLE) Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	paddingBits := int(data[0])
	if paddingBits > 7 {
		return nil, fmt.Errorf("%w: padding of %d bits", ErrMalformed, paddingBits)
	}
	payload := data[1:]
	end := 8*len(payload) - paddingBits
	if end < 0 || end%r.blockBits != 0 {
		return nil, fmt.Errorf("%w: %d payload bits do not split into %d-bit blocks", ErrMalformed, end, r.blockBits)
	}

	output := bitbuffer.New()
	blocks := bitbuffer.NewLimitedReader(payload, end)
	for blocks.Remaining() > 0 {
		bit, _ := blocks.ReadBit()
		count, _ := blocks.ReadBits(r.blockBits - 1)
		for i := 0; i <= int(count); i++ {
			output.InsertBit(bit)
		}
	}
	if output.Len()%8 != 0 {
		return nil, fmt.Errorf("%w: %d decoded bits are not whole bytes", ErrMalformed, output.Len())
	}
	return output.Bytes(), nil
}
