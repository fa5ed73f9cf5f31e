// Package huffman implements static Huffman coding with the code tree stored in front of
// the payload.
//
// Stream layout: the serialized tree (see Tree.WriteTo), the code of every input byte,
// zero bits up to the next byte boundary, then one byte holding the number of zero bits
// that were added.
package huffman

import (
	"fmt"
	"io"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/bitbuffer"
)

var (
	ErrInvalidTreeFormat = fmt.Errorf("%w: invalid huffman tree", compressor.ErrFormat)
	ErrTruncatedData     = fmt.Errorf("%w: truncated huffman data", compressor.ErrFormat)
)

type Huffman struct{}

func New() *Huffman {
	return &Huffman{}
}

func (h *Huffman) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	var symbolFreq [256]int
	for _, c := range data {
		symbolFreq[c]++
	}
	tree := BuildTree(&symbolFreq)
	if tree.Depth() > maxCodeLength {
		return nil, fmt.Errorf("huffman tree deeper than %d bits", maxCodeLength)
	}
	symbolEnc := tree.Encodings()

	output := bitbuffer.New()
	tree.WriteTo(output)
	for _, c := range data {
		symbolEnc[c].Write(output)
	}
	paddingBits := output.PadToByte()
	output.InsertBits(uint64(paddingBits), 8)
	return output.Bytes(), nil
}

func (h *Huffman) Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	paddingBits := int(data[len(data)-1])
	if paddingBits > 7 {
		return nil, fmt.Errorf("%w: padding of %d bits", ErrInvalidTreeFormat, paddingBits)
	}
	end := 8*(len(data)-1) - paddingBits
	if end < 0 {
		return nil, fmt.Errorf("%w: stream shorter than its padding", ErrInvalidTreeFormat)
	}
	reader := bitbuffer.NewLimitedReader(data, end)
	tree, err := ReadTree(reader)
	if err != nil {
		return nil, err
	}

	symbolDec := make(map[Encoding]byte, tree.Leaves())
	for symbol, enc := range tree.Encodings() {
		symbolDec[enc] = symbol
	}
	output := make([]byte, 0, reader.Remaining())
	var current Encoding
	for {
		bit, err := reader.ReadBit()
		if err == io.EOF {
			break
		}
		current.BitLength++
		current.Code = current.Code<<1 | uint64(bit)
		if symbol, ok := symbolDec[current]; ok {
			output = append(output, symbol)
			current = Encoding{}
			continue
		}
		if current.BitLength >= maxCodeLength {
			return nil, fmt.Errorf("%w: bits match no code", ErrInvalidTreeFormat)
		}
	}
	if current.BitLength != 0 {
		return nil, fmt.Errorf("%w: %d trailing bits", ErrTruncatedData, current.BitLength)
	}
	return output, nil
}
