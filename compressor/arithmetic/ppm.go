package arithmetic

import "fmt"

// MaxOrder bounds the context length a PPMChain accepts.
const MaxOrder = 8

// PPMModel keeps one frequency table per context of exactly order bytes.
type PPMModel struct {
	order  int
	tables map[string]*MutableFrequencies
}

func NewPPMModel(order int) *PPMModel {
	return &PPMModel{order: order, tables: make(map[string]*MutableFrequencies)}
}

// table returns the table for context, or nil if the context was never seen.
func (m *PPMModel) table(context []byte) *MutableFrequencies {
	return m.tables[string(context)]
}

func (m *PPMModel) update(symbol int, context []byte) {
	t, ok := m.tables[string(context)]
	if !ok {
		t = NewMutableFrequencies()
		m.tables[string(context)] = t
	}
	t.Increment(symbol)
}

// PPMChain predicts a symbol from the longest context that has seen it. Each context
// table reserves an escape share equal to its number of distinct symbols; coding the
// escape moves on to the next shorter context, and after order 0 to EqualFrequencies.
// Contexts with no statistics yet are skipped without coding anything. Every model
// visited before the symbol is found learns it.
type PPMChain struct {
	maxOrder int
	models   []*PPMModel
	fallback EqualFrequencies
}

func NewPPMChain(maxOrder int) (*PPMChain, error) {
	if maxOrder < 0 || maxOrder > MaxOrder {
		return nil, fmt.Errorf("arithmetic: ppm order %d outside [0, %d]", maxOrder, MaxOrder)
	}
	c := &PPMChain{maxOrder: maxOrder, models: make([]*PPMModel, maxOrder+1)}
	for order := range c.models {
		c.models[order] = NewPPMModel(order)
	}
	return c, nil
}

func (c *PPMChain) MaxOrder() int {
	return c.maxOrder
}

// topOrder is the longest context the history can fill.
func (c *PPMChain) topOrder(history []byte) int {
	return min(c.maxOrder, len(history))
}

func contextOf(history []byte, order int) []byte {
	return history[len(history)-order:]
}

func escapeFrequency(t *MutableFrequencies) uint64 {
	return uint64(max(1, t.Distinct()))
}

func escapeInterval(t *MutableFrequencies) ProbabilityInterval {
	esc := escapeFrequency(t)
	return ProbabilityInterval{Low: t.Total(), High: t.Total() + esc, Total: t.Total() + esc}
}

func withEscape(p ProbabilityInterval, t *MutableFrequencies) ProbabilityInterval {
	p.Total += escapeFrequency(t)
	return p
}

// EncodeSymbol codes symbol given the bytes that preceded it.
func (c *PPMChain) EncodeSymbol(e *Encoder, symbol int, history []byte) {
	top := c.topOrder(history)
	order := top
	for ; order >= 0; order-- {
		t := c.models[order].table(contextOf(history, order))
		if t == nil || t.Total() == 0 {
			continue
		}
		if t.Frequency(symbol) > 0 {
			e.Encode(withEscape(t.Interval(symbol), t))
			break
		}
		e.Encode(escapeInterval(t))
	}
	if order < 0 {
		e.Encode(c.fallback.Interval(symbol))
	}
	c.update(symbol, history, top, max(order, 0))
}

// DecodeSymbol is the inverse of EncodeSymbol.
func (c *PPMChain) DecodeSymbol(d *Decoder, history []byte) (int, error) {
	top := c.topOrder(history)
	order := top
	symbol := -1
	for ; order >= 0; order-- {
		t := c.models[order].table(contextOf(history, order))
		if t == nil || t.Total() == 0 {
			continue
		}
		cum, err := d.Target(t.Total() + escapeFrequency(t))
		if err != nil {
			return 0, err
		}
		if cum >= t.Total() {
			if err := d.Consume(escapeInterval(t)); err != nil {
				return 0, err
			}
			continue
		}
		symbol, _ = t.Symbol(cum)
		if err := d.Consume(withEscape(t.Interval(symbol), t)); err != nil {
			return 0, err
		}
		break
	}
	if order < 0 {
		cum, err := d.Target(c.fallback.Total())
		if err != nil {
			return 0, err
		}
		var ok bool
		if symbol, ok = c.fallback.Symbol(cum); !ok {
			return 0, fmt.Errorf("%w: no symbol at %d", ErrMalformed, cum)
		}
		if err := d.Consume(c.fallback.Interval(symbol)); err != nil {
			return 0, err
		}
	}
	c.update(symbol, history, top, max(order, 0))
	return symbol, nil
}

func (c *PPMChain) update(symbol int, history []byte, from, to int) {
	for order := from; order >= to; order-- {
		c.models[order].update(symbol, contextOf(history, order))
	}
}
