// Package compressor defines the contract shared by every codec in the toolkit.
//
// Codecs live in sub-packages (huffman, lzw, rle, arithmetic). They operate on whole
// in-memory buffers: Decode(Encode(x)) == x for every x Encode accepts, and Decode fails
// with an error wrapping ErrFormat on input it can tell was not produced by Encode.
package compressor

import "errors"

// ErrFormat is wrapped by every decode-time error caused by malformed input.
var ErrFormat = errors.New("invalid compressed data")

type Compressor interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Func adapts a pair of functions to the Compressor interface.
type Func struct {
	EncodeFunc func([]byte) ([]byte, error)
	DecodeFunc func([]byte) ([]byte, error)
}

func (f Func) Encode(data []byte) ([]byte, error) { return f.EncodeFunc(data) }

func (f Func) Decode(data []byte) ([]byte, error) { return f.DecodeFunc(data) }
