package arithmetic

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
)

func testInputs() map[string][]byte {
	rng := rand.New(rand.NewSource(31))
	random := make([]byte, 1500)
	rng.Read(random)
	twoSymbols := make([]byte, 20000)
	for i := range twoSymbols {
		twoSymbols[i] = "ab"[rng.Intn(2)]
	}
	return map[string][]byte{
		"empty":       {},
		"single":      {'a'},
		"abracadabra": []byte("abracadabra"),
		"eof value":   {0xFF, 0x00, 0xFF, 0x01},
		"repeated":    bytes.Repeat([]byte("ab"), 500),
		"text":        bytes.Repeat([]byte("It was the best of times, it was the worst of times. "), 20),
		"random":      random,
		"rescales":    twoSymbols,
	}
}

func TestRoundTripEveryOrder(t *testing.T) {
	inputs := testInputs()
	for order := 0; order <= 3; order++ {
		a, err := New(WithOrder(order))
		require.NoError(t, err)
		for name, data := range inputs {
			t.Run(fmt.Sprintf("order%d/%s", order, name), func(t *testing.T) {
				encoded, err := a.Encode(data)
				require.NoError(t, err)
				decoded, err := a.Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, data, decoded)
			})
		}
	}
}

func TestRoundTripBits(t *testing.T) {
	data := testInputs()["text"]
	for _, bits := range []int{MinBits, 20, 24, MaxBits} {
		t.Run(fmt.Sprintf("bits%d", bits), func(t *testing.T) {
			a, err := New(WithBits(bits), WithOrder(1))
			require.NoError(t, err)
			assert.Equal(t, bits, a.Bits())
			encoded, err := a.Encode(data)
			require.NoError(t, err)
			decoded, err := a.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, data, decoded)
		})
	}
}

func TestCompressesRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("ab"), 500)
	a, err := New()
	require.NoError(t, err)
	encoded, err := a.Encode(data)
	require.NoError(t, err)
	assert.Less(t, len(encoded), len(data)/20)
}

func TestOptionsValidation(t *testing.T) {
	_, err := New(WithBits(MinBits - 1))
	assert.ErrorIs(t, err, ErrInsufficientRange)
	_, err = New(WithBits(MaxBits + 1))
	assert.ErrorIs(t, err, ErrInsufficientRange)
	_, err = New(WithOrder(-1))
	assert.Error(t, err)
	_, err = New(WithOrder(MaxOrder + 1))
	assert.Error(t, err)

	a, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultOrder, a.Order())
	assert.Equal(t, DefaultBits, a.Bits())
}

func TestDecodeWithoutEndMarker(t *testing.T) {
	a, err := New(WithOrder(0))
	require.NoError(t, err)
	// an all-zero value always selects symbol 0, so EOF is never reached
	_, err = a.Decode([]byte{0, 0, 0})
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, compressor.ErrFormat)
}

func TestBitsSystem(t *testing.T) {
	s, err := NewBitsSystem(17)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<17-1), s.MaxCode)
	assert.Equal(t, uint64(1<<16), s.Half)
	assert.Equal(t, uint64(1<<15), s.OneFourth)
	assert.Equal(t, uint64(3<<15), s.ThreeFourths)

	_, err = NewBitsSystem(16)
	assert.ErrorIs(t, err, ErrInsufficientRange)
}

func TestIntervalState(t *testing.T) {
	s, err := NewBitsSystem(32)
	require.NoError(t, err)
	tests := []struct {
		low, width uint64
		want       IntervalState
	}{
		{0, s.MaxCode + 1, NonConverging},
		{0, s.Half, Converging0},
		{s.Half, s.Half, Converging1},
		{s.OneFourth, s.Half, NearConvergence},
		{s.OneFourth, s.Half + 1, NonConverging},
		{s.OneFourth - 1, s.Half, NonConverging},
	}
	for _, tt := range tests {
		iv := Interval{Low: tt.low, Width: tt.width, system: s}
		assert.Equal(t, tt.want, iv.State(), "low=%d width=%d", tt.low, tt.width)
	}
}

type recordingHandler struct {
	states []IntervalState
}

func (r *recordingHandler) handle(state IntervalState, _ uint64) {
	r.states = append(r.states, state)
}

func TestResolve(t *testing.T) {
	s, err := NewBitsSystem(17)
	require.NoError(t, err)
	// [0.5, 0.625) starts with 1, then 0, then straddles the half
	iv := Interval{Low: s.Half, Width: s.Half / 4, system: s}
	h := &recordingHandler{}
	iv.resolve(h)
	assert.Equal(t, []IntervalState{Converging1, Converging0, Converging0}, h.states)
	assert.Equal(t, NonConverging, iv.State())
	assert.Equal(t, uint64(0), iv.Low)
	assert.Equal(t, s.MaxCode, iv.High())
}
