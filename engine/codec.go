package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/arithmetic"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/huffman"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/lzw"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/rle"
)

var ErrUnknownCodec = errors.New("unknown codec")

// Codec names one of the toolkit's algorithms. The values double as the codec ids
// written into container headers, so they must never be renumbered.
type Codec byte

const (
	Huffman Codec = iota + 1
	LZW
	RLE
	Arithmetic
)

var codecNames = map[Codec]string{
	Huffman:    "huffman",
	LZW:        "lzw",
	RLE:        "rle",
	Arithmetic: "arithmetic",
}

var codecExtensions = map[Codec]string{
	Huffman:    ".huff",
	LZW:        ".lzw",
	RLE:        ".rle",
	Arithmetic: ".ac",
}

// writers maps every codec to the constructor of its compressor.
var writers = map[Codec]func(Options) (compressor.Compressor, error){
	Huffman: func(Options) (compressor.Compressor, error) {
		return huffman.New(), nil
	},
	LZW: func(o Options) (compressor.Compressor, error) {
		c, err := lzw.New(o.DictSize, o.Strategy)
		if err != nil {
			return nil, err
		}
		return c, nil
	},
	RLE: func(o Options) (compressor.Compressor, error) {
		c, err := rle.New(rle.WithBlockBits(o.BlockBits))
		if err != nil {
			return nil, err
		}
		return c, nil
	},
	Arithmetic: func(o Options) (compressor.Compressor, error) {
		c, err := arithmetic.New(arithmetic.WithOrder(o.Order), arithmetic.WithBits(o.Bits))
		if err != nil {
			return nil, err
		}
		return c, nil
	},
}

func Codecs() []Codec {
	return []Codec{Huffman, LZW, RLE, Arithmetic}
}

func (c Codec) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Codec(%d)", byte(c))
}

func (c Codec) Valid() bool {
	_, ok := codecNames[c]
	return ok
}

// Extension is the suffix a file compressed with c carries unless the configuration
// says otherwise.
func (c Codec) Extension() string {
	return codecExtensions[c]
}

func ParseCodec(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range codecNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// NewCompressor builds a fresh compressor for c. Every call returns an independent
// instance.
func NewCompressor(c Codec, o Options) (compressor.Compressor, error) {
	newWriter, ok := writers[c]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, c)
	}
	return newWriter(o)
}
