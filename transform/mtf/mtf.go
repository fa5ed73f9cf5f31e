// Package mtf implements the move-to-front transform over the byte alphabet.
package mtf

const none = -1

// Alphabet is a linked list of the 256 byte values. Slot v of the arena holds value v,
// so the list is always a permutation of [0, 256).
type Alphabet struct {
	head int
	prev [256]int
	next [256]int
}

// NewAlphabet returns the values in ascending order.
func NewAlphabet() *Alphabet {
	a := &Alphabet{head: 0}
	for v := range a.next {
		a.prev[v] = v - 1
		a.next[v] = v + 1
	}
	a.next[255] = none
	return a
}

// IndexOf returns the position of value counting from the head, then moves it to the
// head.
func (a *Alphabet) IndexOf(value byte) int {
	position := 0
	for v := a.head; v != int(value); v = a.next[v] {
		position++
	}
	a.promote(int(value))
	return position
}

// Get returns the value at position and moves it to the head.
func (a *Alphabet) Get(position byte) byte {
	v := a.head
	for i := 0; i < int(position); i++ {
		v = a.next[v]
	}
	a.promote(v)
	return byte(v)
}

func (a *Alphabet) promote(v int) {
	if v == a.head {
		return
	}
	a.next[a.prev[v]] = a.next[v]
	if a.next[v] != none {
		a.prev[a.next[v]] = a.prev[v]
	}
	a.prev[v] = none
	a.next[v] = a.head
	a.prev[a.head] = v
	a.head = v
}

// Values lists the alphabet from the head.
func (a *Alphabet) Values() []byte {
	values := make([]byte, 0, 256)
	for v := a.head; v != none; v = a.next[v] {
		values = append(values, byte(v))
	}
	return values
}

// ComputeMTF replaces every byte with its position in the alphabet at the time it is
// read.
func ComputeMTF(data []byte) []byte {
	alphabet := NewAlphabet()
	output := make([]byte, len(data))
	for i, b := range data {
		output[i] = byte(alphabet.IndexOf(b))
	}
	return output
}

func ComputeInverseMTF(data []byte) []byte {
	alphabet := NewAlphabet()
	output := make([]byte, len(data))
	for i, position := range data {
		output[i] = alphabet.Get(position)
	}
	return output
}
