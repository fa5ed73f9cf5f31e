// Package bitbuffer provides bit-granular buffers used by every codec in the toolkit.
//
// Bits are stored MSB-first: the first bit inserted is the most significant bit of the
// first byte returned by Bytes.
package bitbuffer

import (
	"errors"
	"fmt"
)

// WordBits is the width of the blocks backing a BitBuffer.
const WordBits = 32

var ErrOutOfRange = errors.New("bit offset out of range")

// BitBuffer is an append-only sequence of bits. The zero value is an empty buffer.
type BitBuffer struct {
	words   []uint32
	current uint32
	// bitIdx is the next free bit in current, counted from its MSB.
	bitIdx int
}

func New() *BitBuffer {
	return new(BitBuffer)
}

// FromBytes returns a buffer holding the MSB-first bit expansion of data.
func FromBytes(data []byte) *BitBuffer {
	bb := &BitBuffer{words: make([]uint32, 0, len(data)/4)}
	var word uint32
	count := 0
	for _, b := range data {
		word = word<<8 | uint32(b)
		count += 8
		if count == WordBits {
			bb.words = append(bb.words, word)
			word, count = 0, 0
		}
	}
	if count > 0 {
		bb.current = word << (WordBits - count)
	}
	bb.bitIdx = count
	return bb
}

// Concatenate returns a new buffer with the bits of every buffer in order. The inputs
// are not modified.
func Concatenate(buffers ...*BitBuffer) *BitBuffer {
	out := New()
	for _, b := range buffers {
		for _, w := range b.words {
			out.InsertBits(uint64(w), WordBits)
		}
		if b.bitIdx > 0 {
			out.InsertBits(uint64(b.current>>(WordBits-b.bitIdx)), b.bitIdx)
		}
	}
	return out
}

// InsertBits appends the n low-order bits of container, most significant first.
// n must be in [0, 64].
func (bb *BitBuffer) InsertBits(container uint64, n int) *BitBuffer {
	if n <= 0 {
		return bb
	}
	if n < 64 {
		container &= 1<<uint(n) - 1
	}
	for n > 0 {
		free := WordBits - bb.bitIdx
		if free > n {
			bb.current |= uint32(container << uint(free-n))
			bb.bitIdx += n
			return bb
		}
		rest := n - free
		bb.current |= uint32(container >> uint(rest))
		bb.flush()
		n = rest
		if n < 64 {
			container &= 1<<uint(n) - 1
		}
	}
	return bb
}

// InsertBit appends a single bit.
func (bb *BitBuffer) InsertBit(bit uint8) *BitBuffer {
	return bb.InsertBits(uint64(bit&1), 1)
}

func (bb *BitBuffer) flush() {
	bb.words = append(bb.words, bb.current)
	bb.current = 0
	bb.bitIdx = 0
}

// Len returns the number of bits held in the buffer.
func (bb *BitBuffer) Len() int {
	return WordBits*len(bb.words) + bb.bitIdx
}

// BitAt returns the bit at offset from the start of the buffer.
func (bb *BitBuffer) BitAt(offset int) (uint8, error) {
	if offset < 0 || offset >= bb.Len() {
		return 0, fmt.Errorf("%w: offset %d, length %d", ErrOutOfRange, offset, bb.Len())
	}
	block := offset / WordBits
	word := bb.current
	if block < len(bb.words) {
		word = bb.words[block]
	}
	return uint8(word>>(WordBits-1-offset%WordBits)) & 1, nil
}

// BitAtFromEnd returns the bit at fromEnd positions before the end of the buffer, so
// BitAtFromEnd(1) is the last bit.
func (bb *BitBuffer) BitAtFromEnd(fromEnd int) (uint8, error) {
	if fromEnd < 1 || fromEnd > bb.Len() {
		return 0, fmt.Errorf("%w: offset from end %d, length %d", ErrOutOfRange, fromEnd, bb.Len())
	}
	return bb.BitAt(bb.Len() - fromEnd)
}

// PadToByte appends zero bits up to the next byte boundary and returns how many were
// added.
func (bb *BitBuffer) PadToByte() int {
	pad := (8 - bb.Len()%8) % 8
	bb.InsertBits(0, pad)
	return pad
}

// Bytes returns the buffer's bits left-aligned and zero-padded to a byte boundary.
func (bb *BitBuffer) Bytes() []byte {
	out := make([]byte, 0, len(bb.words)*4+(bb.bitIdx+7)/8)
	for _, w := range bb.words {
		out = append(out, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	for i := 0; i < (bb.bitIdx+7)/8; i++ {
		out = append(out, byte(bb.current>>(24-8*i)))
	}
	return out
}

// Equal reports whether both buffers hold the same bit sequence.
func (bb *BitBuffer) Equal(other *BitBuffer) bool {
	if other == nil {
		return false
	}
	if bb.bitIdx != other.bitIdx || bb.current != other.current || len(bb.words) != len(other.words) {
		return false
	}
	for i := range bb.words {
		if bb.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

func (bb *BitBuffer) String() string {
	s := make([]byte, 0, bb.Len())
	for i := 0; i < bb.Len(); i++ {
		bit, _ := bb.BitAt(i)
		s = append(s, '0'+bit)
	}
	return string(s)
}
