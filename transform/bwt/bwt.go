// Package bwt implements the Burrows-Wheeler transform over a whole buffer.
//
// The end of the data is not stored as a character. Instead the row at which the
// rotation starting at offset 0 sorts (eofIdx) is written in front of the payload:
//
//	[sentinel][eofIdx, big-endian, minimal bytes][sentinel][payload]
//
// where sentinel is the smallest byte value that does not occur in the eofIdx bytes.
package bwt

import (
	"bytes"
	"fmt"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
)

var ErrMalformed = fmt.Errorf("%w: malformed bwt data", compressor.ErrFormat)

// maxIndexBytes is the widest eofIdx the inverse accepts.
const maxIndexBytes = 8

func ComputeBWT(data []byte) []byte {
	if len(data) == 0 {
		return []byte{}
	}
	suffixArray := SuffixArray(data)
	payload := make([]byte, 0, len(data))
	eofIdx := 0
	for rank, offset := range suffixArray {
		if offset == 0 {
			eofIdx = rank
			continue
		}
		payload = append(payload, data[offset-1])
	}

	index := bigEndian(eofIdx)
	sentinel := absentByte(index)
	output := make([]byte, 0, len(index)+2+len(payload))
	output = append(output, sentinel)
	output = append(output, index...)
	output = append(output, sentinel)
	return append(output, payload...)
}

func bigEndian(n int) []byte {
	var out []byte
	for ; n > 0; n >>= 8 {
		out = append([]byte{byte(n)}, out...)
	}
	return out
}

func absentByte(data []byte) byte {
	var seen [256]bool
	for _, b := range data {
		seen[b] = true
	}
	for v, ok := range seen {
		if !ok {
			return byte(v)
		}
	}
	// unreachable for len(data) < 256
	return 0
}

func ComputeInverseBWT(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	sentinel := data[0]
	searchEnd := min(len(data), 1+255)
	closing := bytes.IndexByte(data[1:searchEnd], sentinel)
	if closing < 0 {
		return nil, fmt.Errorf("%w: closing sentinel %#x not found", ErrMalformed, sentinel)
	}
	if closing == 0 {
		return nil, fmt.Errorf("%w: empty eof index", ErrMalformed)
	}
	if closing > maxIndexBytes {
		return nil, fmt.Errorf("%w: eof index of %d bytes", ErrMalformed, closing)
	}
	eofIdx := 0
	for _, b := range data[1 : 1+closing] {
		eofIdx = eofIdx<<8 | int(b)
	}
	payload := data[2+closing:]
	n := len(payload)
	if eofIdx < 1 || eofIdx > n {
		return nil, fmt.Errorf("%w: eof index %d outside [1, %d]", ErrMalformed, eofIdx, n)
	}

	// Stable counting sort of the last column. sorted[i] is the first column's row i+1:
	// row 0 is the empty suffix, which the payload does not carry.
	var starts [256]int
	for _, b := range payload {
		starts[b]++
	}
	sum := 0
	for b, count := range starts {
		starts[b] = sum
		sum += count
	}
	first := make([]byte, n)
	lastRow := make([]int, n)
	for k, b := range payload {
		i := starts[b]
		starts[b]++
		first[i] = b
		if k < eofIdx {
			lastRow[i] = k
		} else {
			lastRow[i] = k + 1
		}
	}

	output := make([]byte, 0, n)
	for row := eofIdx; row != 0; row = lastRow[row-1] {
		if len(output) == n {
			return nil, fmt.Errorf("%w: rotation does not return to the end", ErrMalformed)
		}
		output = append(output, first[row-1])
	}
	if len(output) != n {
		return nil, fmt.Errorf("%w: recovered %d of %d bytes", ErrMalformed, len(output), n)
	}
	return output, nil
}
