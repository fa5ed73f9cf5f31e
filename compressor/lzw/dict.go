package lzw

import "errors"

// firstIndex is the index given to the first multi-byte sequence; 0-255 are the bytes.
const firstIndex = 256

var (
	ErrInvalidDictSize  = errors.New("lzw: max dictionary size must be positive")
	ErrTooManyEncodings = errors.New("lzw: encoding dictionary reached its maximum size")
)

// EncodingDict maps multi-byte sequences to indices, starting at 256 in insertion order.
// Single bytes are implicit and never stored.
type EncodingDict struct {
	maxSize int
	encoded map[string]int
}

func NewEncodingDict(maxSize int) (*EncodingDict, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidDictSize
	}
	return &EncodingDict{maxSize: maxSize, encoded: make(map[string]int)}, nil
}

// Lookup returns the index of a non-empty sequence.
func (d *EncodingDict) Lookup(seq []byte) (int, bool) {
	switch len(seq) {
	case 0:
		return 0, false
	case 1:
		return int(seq[0]), true
	}
	idx, ok := d.encoded[string(seq)]
	return idx, ok
}

func (d *EncodingDict) Contains(seq []byte) bool {
	_, ok := d.Lookup(seq)
	return ok
}

// TryInsert stores seq under the next free index. When the dictionary is full the
// strategy decides: Abort returns ErrTooManyEncodings, StopStore skips the insert and
// UseMinimumRequired grows the cap by one. The dictionary is left untouched whenever an
// error is returned.
func (d *EncodingDict) TryInsert(seq []byte, strategy Strategy) error {
	if len(seq) < 2 || d.Contains(seq) {
		return nil
	}
	if len(d.encoded) >= d.maxSize {
		switch strategy {
		case StopStore:
			return nil
		case UseMinimumRequired:
			d.maxSize++
		default:
			return ErrTooManyEncodings
		}
	}
	d.encoded[string(seq)] = firstIndex + len(d.encoded)
	return nil
}

// Len returns the number of stored sequences, not counting single bytes.
func (d *EncodingDict) Len() int {
	return len(d.encoded)
}

func (d *EncodingDict) MaxSize() int {
	return d.maxSize
}

// Clear drops every stored sequence and resets the cap to maxSize.
func (d *EncodingDict) Clear(maxSize int) {
	clear(d.encoded)
	d.maxSize = maxSize
}
