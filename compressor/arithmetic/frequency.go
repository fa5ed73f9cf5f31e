package arithmetic

const (
	// EOF is the symbol that ends every stream; 0-255 are the byte values.
	EOF        = 256
	NumSymbols = 257

	// MaxTotalFrequency is the total at which a MutableFrequencies halves its counts.
	MaxTotalFrequency = 1 << 14
)

// ProbabilityInterval is the share [Low, High) of a table whose frequencies sum to Total.
type ProbabilityInterval struct {
	Low, High, Total uint64
}

type FrequencyTable interface {
	Interval(symbol int) ProbabilityInterval
	// Symbol finds the symbol whose interval contains cum.
	Symbol(cum uint64) (int, bool)
	Total() uint64
}

// EqualFrequencies gives every byte value and EOF a frequency of one.
type EqualFrequencies struct{}

func (EqualFrequencies) Interval(symbol int) ProbabilityInterval {
	return ProbabilityInterval{Low: uint64(symbol), High: uint64(symbol) + 1, Total: NumSymbols}
}

func (EqualFrequencies) Symbol(cum uint64) (int, bool) {
	if cum >= NumSymbols {
		return 0, false
	}
	return int(cum), true
}

func (EqualFrequencies) Total() uint64 {
	return NumSymbols
}

// MutableFrequencies counts symbols in a Fenwick tree. Every table starts empty.
type MutableFrequencies struct {
	tree     fenwick
	freqs    [NumSymbols]uint64
	total    uint64
	distinct int
}

func NewMutableFrequencies() *MutableFrequencies {
	return &MutableFrequencies{tree: newFenwick(NumSymbols)}
}

func (m *MutableFrequencies) Interval(symbol int) ProbabilityInterval {
	low := m.tree.prefixSum(symbol)
	return ProbabilityInterval{Low: low, High: low + m.freqs[symbol], Total: m.total}
}

func (m *MutableFrequencies) Symbol(cum uint64) (int, bool) {
	if cum >= m.total {
		return 0, false
	}
	return m.tree.find(cum), true
}

func (m *MutableFrequencies) Total() uint64 {
	return m.total
}

func (m *MutableFrequencies) Frequency(symbol int) uint64 {
	return m.freqs[symbol]
}

// Distinct returns the number of symbols with a non-zero frequency.
func (m *MutableFrequencies) Distinct() int {
	return m.distinct
}

// Increment adds one to symbol and halves every count once the total reaches
// MaxTotalFrequency. Halving rounds up, so no symbol drops to zero.
func (m *MutableFrequencies) Increment(symbol int) {
	if m.freqs[symbol] == 0 {
		m.distinct++
	}
	m.freqs[symbol]++
	m.total++
	m.tree.add(symbol, 1)
	if m.total >= MaxTotalFrequency {
		m.rescale()
	}
}

func (m *MutableFrequencies) rescale() {
	m.total = 0
	for s, f := range m.freqs {
		m.freqs[s] = (f + 1) / 2
		m.total += m.freqs[s]
	}
	m.tree = fenwickFrom(m.freqs[:])
}

// fenwick is a binary indexed tree over symbol frequencies, 1-indexed internally.
type fenwick []uint64

func newFenwick(n int) fenwick {
	return make(fenwick, n+1)
}

func fenwickFrom(values []uint64) fenwick {
	f := newFenwick(len(values))
	for i := 1; i < len(f); i++ {
		f[i] += values[i-1]
		if parent := i + i&-i; parent < len(f) {
			f[parent] += f[i]
		}
	}
	return f
}

func (f fenwick) add(idx int, amount uint64) {
	for i := idx + 1; i < len(f); i += i & -i {
		f[i] += amount
	}
}

// prefixSum sums the values before end.
func (f fenwick) prefixSum(end int) uint64 {
	var sum uint64
	for i := end; i > 0; i -= i & -i {
		sum += f[i]
	}
	return sum
}

// find returns the index whose running range contains cum, cum being below the total.
func (f fenwick) find(cum uint64) int {
	pos := 0
	step := 1
	for step<<1 < len(f) {
		step <<= 1
	}
	for ; step > 0; step >>= 1 {
		if next := pos + step; next < len(f) && f[next] <= cum {
			pos = next
			cum -= f[next]
		}
	}
	return pos
}
