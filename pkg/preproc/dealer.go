package preproc

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/field/evalpoint"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/poly"
)

// Dealer is a trusted-dealer preprocessing generator: it samples the
// secrets a batch of elements require, shares them across a fixed set of
// parties at degree t, and hands back one in-memory Source per party. It
// exists for tests and local simulation (pkg/runner), standing in for the
// offline preprocessing protocol a production deployment would run
// instead (spec.md §3's preprocessing-layer Non-goal).
type Dealer struct {
	ids []party.ID
	t   int
}

// NewDealer builds a Dealer for the given party set and threshold.
func NewDealer(ids []party.ID, t int) *Dealer {
	return &Dealer{ids: append([]party.ID(nil), ids...), t: t}
}

// Generate produces count elements of kind, returning each party's share
// stream as an in-memory Source.
func (d *Dealer) Generate(kind Kind, count int) (map[party.ID]Source, error) {
	n := len(d.ids)
	points := evalpoint.Sequential(n)
	batches := make(map[party.ID][]Element, n)
	for _, id := range d.ids {
		batches[id] = make([]Element, 0, count)
	}

	for i := 0; i < count; i++ {
		values, err := d.sampleValues(kind)
		if err != nil {
			return nil, err
		}
		perPartyValues := make(map[party.ID][]field.F, n)
		for _, id := range d.ids {
			perPartyValues[id] = make([]field.F, len(values))
		}
		for vi, secret := range values {
			degree := d.t
			if kind == KindDoubleShare && vi == 1 {
				degree = 2 * d.t
			}
			shares, err := shareAt(secret, degree, points)
			if err != nil {
				return nil, err
			}
			for pi, id := range d.ids {
				perPartyValues[id][vi] = shares[pi]
			}
		}
		for _, id := range d.ids {
			batches[id] = append(batches[id], Element{Kind: kind, Values: perPartyValues[id]})
		}
	}

	out := make(map[party.ID]Source, n)
	for _, id := range d.ids {
		out[id] = NewMemorySource(batches[id])
	}
	return out, nil
}

func (d *Dealer) sampleValues(kind Kind) ([]field.F, error) {
	switch kind {
	case KindZero:
		return []field.F{field.Zero()}, nil
	case KindRand:
		return []field.F{field.Random()}, nil
	case KindBit:
		b := field.Random()
		if field.Legendre(b) >= 0 {
			return []field.F{field.One()}, nil
		}
		return []field.F{field.Zero()}, nil
	case KindTriple:
		a, b := field.Random(), field.Random()
		return []field.F{a, b, field.Mul(a, b)}, nil
	case KindCube:
		a := field.Random()
		a2 := field.Mul(a, a)
		return []field.F{a, a2, field.Mul(a2, a)}, nil
	case KindDoubleShare:
		// Generate shares the second slot at degree 2t and the first at t.
		// The third slot is unused, kept as a zero placeholder for arity
		// symmetry.
		a := field.Random()
		return []field.F{a, a, field.Zero()}, nil
	default:
		return nil, fmt.Errorf("preproc: dealer does not know kind %q", kind)
	}
}

func shareAt(secret field.F, degree int, points []field.F) ([]field.F, error) {
	p := poly.Random(degree, secret)
	shares := make([]field.F, len(points))
	for i, x := range points {
		shares[i] = p.Eval(x)
	}
	return shares, nil
}

// MemorySource is an in-memory Source backed by a preloaded slice,
// primarily produced by Dealer.Generate.
type MemorySource struct {
	elems []Element
	pos   int
}

// NewMemorySource wraps a preloaded element slice as a Source.
func NewMemorySource(elems []Element) *MemorySource {
	return &MemorySource{elems: elems}
}

// Next implements Source.
func (m *MemorySource) Next(kind Kind) (Element, error) {
	if m.pos >= len(m.elems) {
		return Element{}, &ErrExhausted{Kind: kind}
	}
	e := m.elems[m.pos]
	if e.Kind != kind {
		return Element{}, fmt.Errorf("preproc: next element is kind %q, requested %q", e.Kind, kind)
	}
	m.pos++
	return e, nil
}

// Remaining implements Source.
func (m *MemorySource) Remaining(kind Kind) int {
	count := 0
	for _, e := range m.elems[m.pos:] {
		if e.Kind == kind {
			count++
		}
	}
	return count
}
