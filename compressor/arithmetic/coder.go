package arithmetic

import (
	"fmt"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/bitbuffer"
)

var ErrMalformed = fmt.Errorf("%w: malformed arithmetic data", compressor.ErrFormat)

// Encoder narrows an interval once per coded symbol and emits the leading bits that
// every value in it shares.
type Encoder struct {
	interval Interval
	pending  int
	output   *bitbuffer.BitBuffer
}

func NewEncoder(system BitsSystem) *Encoder {
	return &Encoder{interval: NewInterval(system), output: bitbuffer.New()}
}

func (e *Encoder) Encode(p ProbabilityInterval) {
	e.interval.Update(p)
	e.interval.resolve(e)
}

func (e *Encoder) handle(state IntervalState, _ uint64) {
	switch state {
	case Converging0:
		e.emit(0)
	case Converging1:
		e.emit(1)
	case NearConvergence:
		e.pending++
	}
}

// emit writes bit followed by the pending bits, which take the opposite value.
func (e *Encoder) emit(bit uint8) {
	e.output.InsertBit(bit)
	for ; e.pending > 0; e.pending-- {
		e.output.InsertBit(bit ^ 1)
	}
}

// Finish writes enough bits to pin a value inside the final interval and returns the
// stream, zero-padded to a byte boundary.
func (e *Encoder) Finish() []byte {
	e.pending++
	if e.interval.Low < e.interval.system.OneFourth {
		e.emit(0)
	} else {
		e.emit(1)
	}
	return e.output.Bytes()
}

// Decoder mirrors Encoder, keeping a Bits-wide window of the stream in value. Bits past
// the end of the stream read as zero.
type Decoder struct {
	interval Interval
	value    uint64
	input    *bitbuffer.Reader
	pastEnd  int
}

func NewDecoder(system BitsSystem, data []byte) *Decoder {
	d := &Decoder{interval: NewInterval(system), input: bitbuffer.NewReader(data)}
	for i := uint(0); i < system.Bits; i++ {
		d.value = d.value<<1 | d.nextBit()
	}
	return d
}

func (d *Decoder) nextBit() uint64 {
	bit, err := d.input.ReadBit()
	if err != nil {
		d.pastEnd++
		return 0
	}
	return uint64(bit)
}

// Target returns where the current value falls within a table summing to total.
func (d *Decoder) Target(total uint64) (uint64, error) {
	if d.value < d.interval.Low || d.value > d.interval.High() {
		return 0, fmt.Errorf("%w: value outside the coding interval", ErrMalformed)
	}
	return ((d.value-d.interval.Low+1)*total - 1) / d.interval.Width, nil
}

// Consume narrows the interval to the decoded symbol's share.
func (d *Decoder) Consume(p ProbabilityInterval) error {
	d.interval.Update(p)
	d.interval.resolve(d)
	if d.pastEnd > int(d.interval.system.Bits) {
		return fmt.Errorf("%w: stream ended without an end marker", ErrMalformed)
	}
	return nil
}

func (d *Decoder) handle(_ IntervalState, offset uint64) {
	d.value = (d.value-offset)<<1 | d.nextBit()
}
