package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FitrahHaque/Compression-Toolkit/compressor/arithmetic"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/lzw"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/rle"
)

var ErrInvalidOption = errors.New("invalid codec option")

// DictSize is a named LZW dictionary cap.
type DictSize string

const (
	Small      DictSize = "SMALL"
	Medium     DictSize = "MEDIUM"
	Large      DictSize = "LARGE"
	ExtraLarge DictSize = "EXTRA_LARGE"
	Custom     DictSize = "CUSTOM"
)

var dictSizes = map[DictSize]int{
	Small:      1_000,
	Medium:     10_000,
	Large:      100_000,
	ExtraLarge: 1_000_000,
}

func DictSizes() []DictSize {
	return []DictSize{Small, Medium, Large, ExtraLarge, Custom}
}

func ParseDictSize(name string) (DictSize, error) {
	d := DictSize(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := dictSizes[d]; ok || d == Custom {
		return d, nil
	}
	return "", fmt.Errorf("%w: dictionary size %q", ErrInvalidOption, name)
}

// Entries resolves the preset to a number of dictionary entries. custom is only
// consulted for Custom and must be positive.
func (d DictSize) Entries(custom int) (int, error) {
	if d == Custom {
		if custom <= 0 {
			return 0, fmt.Errorf("%w: custom dictionary size must be positive, got %d", ErrInvalidOption, custom)
		}
		return custom, nil
	}
	n, ok := dictSizes[d]
	if !ok {
		return 0, fmt.Errorf("%w: dictionary size %q", ErrInvalidOption, string(d))
	}
	return n, nil
}

// Options carries every codec's tuning knobs. Each codec reads only its own.
type Options struct {
	DictSize  int
	Strategy  lzw.Strategy
	Order     int
	Bits      int
	BlockBits int
}

func DefaultOptions() Options {
	return Options{
		DictSize:  dictSizes[Medium],
		Strategy:  lzw.Abort,
		Order:     arithmetic.DefaultOrder,
		Bits:      arithmetic.DefaultBits,
		BlockBits: rle.BlockBits,
	}
}

// Params returns the options a decoder of c needs, in the order a container header
// stores them.
func (o Options) Params(c Codec) []byte {
	switch c {
	case Arithmetic:
		return []byte{byte(o.Order), byte(o.Bits)}
	case RLE:
		return []byte{byte(o.BlockBits)}
	}
	return nil
}

// WithParams overrides o with the parameters a container header recorded for c.
func (o Options) WithParams(c Codec, params []byte) (Options, error) {
	want := len(o.Params(c))
	if len(params) != want {
		return o, fmt.Errorf("%w: %v takes %d parameters, got %d", ErrInvalidOption, c, want, len(params))
	}
	switch c {
	case Arithmetic:
		o.Order, o.Bits = int(params[0]), int(params[1])
	case RLE:
		o.BlockBits = int(params[0])
	}
	return o, nil
}
