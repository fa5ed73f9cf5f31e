package lzw

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	_, err := New(0, Abort)
	assert.ErrorIs(t, err, ErrInvalidDictSize)
	_, err = New(-3, StopStore)
	assert.ErrorIs(t, err, ErrInvalidDictSize)
}

func TestIndices(t *testing.T) {
	l, err := New(100, Abort)
	require.NoError(t, err)
	indices, err := l.Indices([]byte("TOBEORNOTTOBEORTOBEORNOT"))
	require.NoError(t, err)
	assert.Equal(t, []int{
		'T', 'O', 'B', 'E', 'O', 'R', 'N', 'O', 'T',
		256, 258, 260, 265, 259, 261, 263,
	}, indices)
}

func TestIndexWireFormat(t *testing.T) {
	assert.Equal(t, []byte{1, 0}, appendIndex(nil, 0))
	assert.Equal(t, []byte{1, 'a'}, appendIndex(nil, 'a'))
	assert.Equal(t, []byte{2, 0x00, 0x01}, appendIndex(nil, 256))
	assert.Equal(t, []byte{3, 0x40, 0x42, 0x0F}, appendIndex(nil, 1_000_000))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	random := make([]byte, 8192)
	rng.Read(random)
	lowEntropy := make([]byte, 8192)
	for i := range lowEntropy {
		lowEntropy[i] = "ab"[rng.Intn(2)]
	}

	inputs := map[string][]byte{
		"empty":       {},
		"single byte": {0},
		"zeros":       make([]byte, 300),
		"kwkwk":       []byte("aaaaaaaaaaaaaaa"),
		"text":        bytes.Repeat([]byte("TOBEORNOTTOBEORTOBEORNOT#"), 40),
		"random":      random,
		"low entropy": lowEntropy,
	}
	for _, strategy := range []Strategy{StopStore, UseMinimumRequired} {
		for _, size := range []int{1, 10, 1_000} {
			for name, data := range inputs {
				t.Run(strategy.String()+"/"+name, func(t *testing.T) {
					l, err := New(size, strategy)
					require.NoError(t, err)
					encoded, err := l.Encode(data)
					require.NoError(t, err)
					decoded, err := l.Decode(encoded)
					require.NoError(t, err)
					assert.Equal(t, data, decoded)
				})
			}
		}
	}
}

func TestAbortOnFullDictionary(t *testing.T) {
	l, err := New(2, Abort)
	require.NoError(t, err)
	_, err = l.Encode([]byte("abcdefgh"))
	assert.ErrorIs(t, err, ErrTooManyEncodings)

	// the same dictionary is usable again after a failure
	encoded, err := l.Encode([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 'a', 1, 'b'}, encoded)
}

func TestUseMinimumRequiredGrowsCap(t *testing.T) {
	l, err := New(1, UseMinimumRequired)
	require.NoError(t, err)
	_, err = l.Indices([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 5, l.dict.Len())
	assert.Equal(t, 5, l.dict.MaxSize())

	// the cap starts over on the next call
	_, err = l.Indices([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 1, l.dict.MaxSize())
}

func TestStopStoreKeepsSize(t *testing.T) {
	l, err := New(3, StopStore)
	require.NoError(t, err)
	_, err = l.Indices([]byte("abcdefghij"))
	require.NoError(t, err)
	assert.Equal(t, 3, l.dict.Len())
}

func TestFailedInsertLeavesDictUnchanged(t *testing.T) {
	d, err := NewEncodingDict(1)
	require.NoError(t, err)
	require.NoError(t, d.TryInsert([]byte("ab"), Abort))

	err = d.TryInsert([]byte("bc"), Abort)
	assert.ErrorIs(t, err, ErrTooManyEncodings)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 1, d.MaxSize())
	assert.False(t, d.Contains([]byte("bc")))
	idx, ok := d.Lookup([]byte("ab"))
	assert.True(t, ok)
	assert.Equal(t, 256, idx)
}

func TestDictLookup(t *testing.T) {
	d, err := NewEncodingDict(10)
	require.NoError(t, err)
	assert.False(t, d.Contains(nil))
	idx, ok := d.Lookup([]byte{200})
	assert.True(t, ok)
	assert.Equal(t, 200, idx)
	assert.False(t, d.Contains([]byte("xy")))

	require.NoError(t, d.TryInsert([]byte("xy"), Abort))
	require.NoError(t, d.TryInsert([]byte("xy"), Abort))
	assert.Equal(t, 1, d.Len())

	d.Clear(10)
	assert.Equal(t, 0, d.Len())
	assert.False(t, d.Contains([]byte("xy")))
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"zero length byte", []byte{0}},
		{"missing index bytes", []byte{2, 1}},
		{"oversized length byte", []byte{9, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"dictionary index first", []byte{2, 0x00, 0x01}},
		{"index beyond next slot", []byte{1, 'a', 1, 'b', 2, 0x02, 0x01}},
	}
	l, err := New(1, Abort)
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Decode(tt.data)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.ErrorIs(t, err, compressor.ErrFormat)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies() {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	s, err := ParseStrategy("stop_store")
	require.NoError(t, err)
	assert.Equal(t, StopStore, s)
	_, err = ParseStrategy("FOREVER")
	assert.Error(t, err)
}
