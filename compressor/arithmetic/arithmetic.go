// Package arithmetic implements an adaptive arithmetic coder driven by a PPM chain of
// context models.
//
// The stream is the coder's bit output, zero-padded to a byte boundary. Every byte of
// the input is coded in turn, followed by the EOF symbol.
package arithmetic

import "fmt"

const (
	DefaultOrder = 2
	DefaultBits  = MaxBits
)

type Arithmetic struct {
	order  int
	system BitsSystem
}

type Option func(*Arithmetic) error

// WithOrder sets the longest context, in bytes, the models condition on.
func WithOrder(order int) Option {
	return func(a *Arithmetic) error {
		if order < 0 || order > MaxOrder {
			return fmt.Errorf("arithmetic: ppm order %d outside [0, %d]", order, MaxOrder)
		}
		a.order = order
		return nil
	}
}

// WithBits sets the register width, between MinBits and MaxBits.
func WithBits(bits int) Option {
	return func(a *Arithmetic) (err error) {
		a.system, err = NewBitsSystem(bits)
		return err
	}
}

func New(opts ...Option) (*Arithmetic, error) {
	system, err := NewBitsSystem(DefaultBits)
	if err != nil {
		return nil, err
	}
	a := &Arithmetic{order: DefaultOrder, system: system}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Arithmetic) Order() int {
	return a.order
}

func (a *Arithmetic) Bits() int {
	return int(a.system.Bits)
}

func (a *Arithmetic) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	chain, err := NewPPMChain(a.order)
	if err != nil {
		return nil, err
	}
	encoder := NewEncoder(a.system)
	for i, b := range data {
		chain.EncodeSymbol(encoder, int(b), data[max(0, i-a.order):i])
	}
	chain.EncodeSymbol(encoder, EOF, data[max(0, len(data)-a.order):])
	return encoder.Finish(), nil
}

func (a *Arithmetic) Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	chain, err := NewPPMChain(a.order)
	if err != nil {
		return nil, err
	}
	decoder := NewDecoder(a.system, data)
	var output []byte
	for {
		symbol, err := chain.DecodeSymbol(decoder, output[max(0, len(output)-a.order):])
		if err != nil {
			return nil, err
		}
		if symbol == EOF {
			return output, nil
		}
		output = append(output, byte(symbol))
	}
}
