package arithmetic

import (
	"errors"
	"fmt"
)

const (
	MinBits = 17
	MaxBits = 32
)

var ErrInsufficientRange = errors.New("arithmetic: bits system too small for the frequency tables")

// BitsSystem fixes the width of the coder's registers and the derived boundaries.
type BitsSystem struct {
	Bits         uint
	MaxCode      uint64
	Half         uint64
	OneFourth    uint64
	ThreeFourths uint64
}

// NewBitsSystem requires a quarter of the code range to hold at least twice the largest
// table total, so that every symbol keeps a non-empty interval.
func NewBitsSystem(bits int) (BitsSystem, error) {
	if bits < 2 || bits > MaxBits {
		return BitsSystem{}, fmt.Errorf("%w: %d bits outside [%d, %d]", ErrInsufficientRange, bits, MinBits, MaxBits)
	}
	half := uint64(1) << (bits - 1)
	s := BitsSystem{
		Bits:         uint(bits),
		MaxCode:      uint64(1)<<bits - 1,
		Half:         half,
		OneFourth:    half >> 1,
		ThreeFourths: half | half>>1,
	}
	if s.OneFourth < 2*MaxTotalFrequency {
		return BitsSystem{}, fmt.Errorf("%w: %d bits cannot represent %d values", ErrInsufficientRange, bits, 2*MaxTotalFrequency)
	}
	return s, nil
}

type IntervalState int

const (
	NonConverging IntervalState = iota
	// Converging0 means both bounds start with a 0 bit.
	Converging0
	// Converging1 means both bounds start with a 1 bit.
	Converging1
	// NearConvergence means the bounds straddle the half but sit inside the middle two quarters.
	NearConvergence
)

func (s IntervalState) String() string {
	switch s {
	case Converging0:
		return "CONVERGING_0"
	case Converging1:
		return "CONVERGING_1"
	case NearConvergence:
		return "NEAR_CONVERGENCE"
	}
	return "NON_CONVERGING"
}

// Interval is the current code range [Low, Low+Width).
type Interval struct {
	Low    uint64
	Width  uint64
	system BitsSystem
}

// NewInterval spans the whole code range.
func NewInterval(system BitsSystem) Interval {
	return Interval{Low: 0, Width: system.MaxCode + 1, system: system}
}

// High is the inclusive top of the interval.
func (iv *Interval) High() uint64 {
	return iv.Low + iv.Width - 1
}

func (iv *Interval) State() IntervalState {
	high := iv.High()
	switch {
	case iv.Low >= iv.system.Half:
		return Converging1
	case high < iv.system.Half:
		return Converging0
	case iv.Low >= iv.system.OneFourth && high < iv.system.ThreeFourths:
		return NearConvergence
	}
	return NonConverging
}

// Update narrows the interval to the part [cumLow, cumHigh) of a table summing to total.
func (iv *Interval) Update(p ProbabilityInterval) {
	high := iv.Low + iv.Width*p.High/p.Total - 1
	iv.Low += iv.Width * p.Low / p.Total
	iv.Width = high - iv.Low + 1
}

// offset is the value subtracted from a register before shifting out its top bit.
func (s BitsSystem) offset(state IntervalState) uint64 {
	switch state {
	case Converging1:
		return s.Half
	case NearConvergence:
		return s.OneFourth
	}
	return 0
}

// stateHandler reacts to every state the interval passes through before it stops
// converging. The encoder emits bits, the decoder shifts its value register.
type stateHandler interface {
	handle(state IntervalState, offset uint64)
}

// resolve doubles the interval for as long as its top bit is decided or it is close to
// the middle, reporting every step to h.
func (iv *Interval) resolve(h stateHandler) {
	for {
		state := iv.State()
		if state == NonConverging {
			return
		}
		offset := iv.system.offset(state)
		h.handle(state, offset)
		high := (iv.High()-offset)<<1 | 1
		iv.Low = (iv.Low - offset) << 1
		iv.Width = high - iv.Low + 1
	}
}
