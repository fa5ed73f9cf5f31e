// Package lzw implements Lempel-Ziv-Welch coding with a bounded dictionary.
//
// Every emitted index is written as a length byte followed by that many bytes of the
// index, least significant first. Index 0 is written as the single byte 0.
package lzw

import (
	"fmt"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
)

var ErrMalformed = fmt.Errorf("%w: malformed lzw data", compressor.ErrFormat)

// maxIndexBytes is the widest index Decode accepts.
const maxIndexBytes = 8

type LZW struct {
	maxDictSize int
	strategy    Strategy
	dict        *EncodingDict
}

func New(maxDictSize int, strategy Strategy) (*LZW, error) {
	dict, err := NewEncodingDict(maxDictSize)
	if err != nil {
		return nil, err
	}
	return &LZW{maxDictSize: maxDictSize, strategy: strategy, dict: dict}, nil
}

func (l *LZW) MaxDictSize() int {
	return l.maxDictSize
}

func (l *LZW) Strategy() Strategy {
	return l.strategy
}

// Indices runs the LZW parse of data and returns the emitted dictionary indices.
func (l *LZW) Indices(data []byte) ([]int, error) {
	l.dict.Clear(l.maxDictSize)
	var indices []int
	matchStart := 0
	for i := 1; i < len(data); i++ {
		current := data[matchStart : i+1]
		if l.dict.Contains(current) {
			continue
		}
		idx, _ := l.dict.Lookup(data[matchStart:i])
		indices = append(indices, idx)
		if err := l.dict.TryInsert(current, l.strategy); err != nil {
			return nil, fmt.Errorf("encoding byte %d: %w", i, err)
		}
		matchStart = i
	}
	if matchStart < len(data) {
		idx, _ := l.dict.Lookup(data[matchStart:])
		indices = append(indices, idx)
	}
	return indices, nil
}

func (l *LZW) Encode(data []byte) ([]byte, error) {
	indices, err := l.Indices(data)
	if err != nil {
		return nil, err
	}
	output := make([]byte, 0, 2*len(indices))
	for _, idx := range indices {
		output = appendIndex(output, idx)
	}
	return output, nil
}

func appendIndex(output []byte, idx int) []byte {
	if idx == 0 {
		return append(output, 1, 0)
	}
	lenPos := len(output)
	output = append(output, 0)
	for n := idx; n > 0; n >>= 8 {
		output = append(output, byte(n))
	}
	output[lenPos] = byte(len(output) - lenPos - 1)
	return output
}

// span locates a decoded sequence inside the output. Every dictionary entry is a
// previously emitted sequence plus the byte that followed it, so it is contiguous there.
type span struct {
	start, length int
}

func (l *LZW) Decode(data []byte) ([]byte, error) {
	output := make([]byte, 0, 2*len(data))
	var table []span
	var last span
	haveLast := false

	for pos := 0; pos < len(data); {
		indexLen := int(data[pos])
		pos++
		if indexLen == 0 || indexLen > maxIndexBytes {
			return nil, fmt.Errorf("%w: length byte %d at offset %d", ErrMalformed, indexLen, pos-1)
		}
		if pos+indexLen > len(data) {
			return nil, fmt.Errorf("%w: not enough bytes for index at offset %d", ErrMalformed, pos-1)
		}
		var idx uint64
		for i := indexLen - 1; i >= 0; i-- {
			idx = idx<<8 | uint64(data[pos+i])
		}
		pos += indexLen

		next := uint64(firstIndex + len(table))
		start := len(output)
		switch {
		case idx < firstIndex:
			output = append(output, byte(idx))
		case idx < next:
			s := table[idx-firstIndex]
			output = append(output, output[s.start:s.start+s.length]...)
		case idx == next:
			if !haveLast {
				return nil, fmt.Errorf("%w: index %d before any sequence", ErrMalformed, idx)
			}
			output = append(output, output[last.start:last.start+last.length]...)
			output = append(output, output[last.start])
		default:
			return nil, fmt.Errorf("%w: index %d beyond next free index %d", ErrMalformed, idx, next)
		}
		if haveLast {
			table = append(table, span{start: last.start, length: last.length + 1})
		}
		last = span{start: start, length: len(output) - start}
		haveLast = true
	}
	return output, nil
}
