// Package transform exposes the reversible preprocessing steps that can run before any
// codec: the Burrows-Wheeler transform and move-to-front.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FitrahHaque/Compression-Toolkit/transform/bwt"
	"github.com/FitrahHaque/Compression-Toolkit/transform/mtf"
)

var ErrUnknownTransformation = errors.New("unknown transformation")

type Transformation byte

const (
	BWT Transformation = iota
	MTF
)

var names = map[Transformation]string{
	BWT: "BWT",
	MTF: "MTF",
}

var help = map[Transformation]string{
	BWT: "Burrows-Wheeler transform, groups bytes that share a context",
	MTF: "move-to-front, turns recently seen bytes into small values",
}

// All lists every transformation in declaration order.
func All() []Transformation {
	return []Transformation{BWT, MTF}
}

func (t Transformation) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("Transformation(%d)", byte(t))
}

func (t Transformation) Help() string {
	return help[t]
}

func (t Transformation) Valid() bool {
	_, ok := names[t]
	return ok
}

func Parse(name string) (Transformation, error) {
	for t, n := range names {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTransformation, name)
}

func (t Transformation) EncodeData(data []byte) ([]byte, error) {
	switch t {
	case BWT:
		return bwt.ComputeBWT(data), nil
	case MTF:
		return mtf.ComputeMTF(data), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownTransformation, t)
}

func (t Transformation) DecodeData(data []byte) ([]byte, error) {
	switch t {
	case BWT:
		return bwt.ComputeInverseBWT(data)
	case MTF:
		return mtf.ComputeInverseMTF(data), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownTransformation, t)
}

// Chain applies its transformations in order when encoding and undoes them in reverse
// order when decoding.
type Chain []Transformation

func ParseChain(names []string) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		t, err := Parse(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, t)
	}
	return chain, nil
}

func (c Chain) EncodeData(data []byte) ([]byte, error) {
	var err error
	for _, t := range c {
		if data, err = t.EncodeData(data); err != nil {
			return nil, fmt.Errorf("%v: %w", t, err)
		}
	}
	return data, nil
}

func (c Chain) DecodeData(data []byte) ([]byte, error) {
	var err error
	for i := len(c) - 1; i >= 0; i-- {
		if data, err = c[i].DecodeData(data); err != nil {
			return nil, fmt.Errorf("inverse %v: %w", c[i], err)
		}
	}
	return data, nil
}

func (c Chain) String() string {
	if len(c) == 0 {
		return "none"
	}
	parts := make([]string, len(c))
	for i, t := range c {
		parts[i] = t.String()
	}
	return strings.Join(parts, "+")
}
