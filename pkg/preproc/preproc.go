// Package preproc supplies the correlated randomness (triples, shared bits,
// zero-shares, and so on) that the mixin layer consumes to avoid any
// interaction during the online phase of a program (spec.md §3, §4.5-§4.7).
// Elements are produced once, offline, by a trusted dealer or an MPC
// preprocessing protocol, and are consumed strictly in order: each party
// must draw the i-th element of a kind in lockstep with every other party,
// since a single batch of correlated randomness only makes sense taken as
// a whole across the network.
package preproc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/robustmpc/pkg/field"
)

// Kind names a preprocessing element type.
type Kind string

const (
	// KindZero elements are random Shamir sharings of 0. Batch
	// reconstruction has no single combiner and draws no preprocessing.
	KindZero Kind = "zero"
	// KindRand elements are random Shamir sharings of an unknown, uniform
	// field element, the building block of Equality's test bits.
	KindRand Kind = "rand"
	// KindBit elements are random Shamir sharings of a uniform {0,1} value.
	KindBit Kind = "bit"
	// KindTriple elements are Beaver triples: shares of a, b, and c=a*b.
	KindTriple Kind = "triple"
	// KindCube elements are shares of a, a^2, and a^3, used by protocols
	// that need a cheap cubic nonlinearity without an extra round.
	KindCube Kind = "cube"
	// KindDoubleShare elements are shares of the same secret at two
	// different polynomial degrees (t and 2t), used for degree reduction.
	KindDoubleShare Kind = "double_share"
)

// Arity returns how many field elements make up one Element of kind k.
func Arity(k Kind) int {
	switch k {
	case KindZero, KindRand, KindBit:
		return 1
	case KindTriple, KindCube, KindDoubleShare:
		return 3
	default:
		return 0
	}
}

// Element is one unit of preprocessed, party-local correlated randomness.
// Values holds Arity(Kind) shares, per the layout documented on each Kind.
type Element struct {
	Kind   Kind
	Values []field.F
}

// Source supplies a party's share of the next preprocessing element of a
// given kind, consumed strictly in allocation order.
type Source interface {
	Next(kind Kind) (Element, error)
	// Remaining reports how many elements of kind are left, or -1 if the
	// source cannot know in advance (e.g. an online generator).
	Remaining(kind Kind) int
}

// ErrExhausted is returned when a Source has no more elements of the
// requested kind.
type ErrExhausted struct {
	Kind Kind
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("preproc: exhausted supply of kind %q", e.Kind)
}

// Store is a file-backed Source reading elements dumped by an offline
// preprocessing run. Files are named <baseDir>/<kind>_<n>_<t>/<id>.dat,
// one flat run of fixed-width field elements each, read sequentially.
type Store struct {
	baseDir string
	n, t    int
	cursors map[Kind]*cursor
}

type cursor struct {
	f      *os.File
	r      *bufio.Reader
	pos    int
	length int
}

// NewStore opens a Store rooted at baseDir for a deployment of n parties
// tolerating t faults. Files are opened lazily, on first Next of each kind.
func NewStore(baseDir string, n, t int) *Store {
	return &Store{baseDir: baseDir, n: n, t: t, cursors: make(map[Kind]*cursor)}
}

func (s *Store) kindPath(k Kind, id int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_%d_%d", k, s.n, s.t), fmt.Sprintf("%d.dat", id))
}

// Next implements Source by reading Arity(kind) consecutive 32-byte field
// elements from the kind's backing file.
func (s *Store) Next(kind Kind) (Element, error) {
	c, ok := s.cursors[kind]
	if !ok {
		f, err := os.Open(s.kindPath(kind, 0))
		if err != nil {
			return Element{}, fmt.Errorf("preproc: open store for %q: %w", kind, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return Element{}, fmt.Errorf("preproc: stat store for %q: %w", kind, err)
		}
		c = &cursor{f: f, r: bufio.NewReader(f), length: int(info.Size() / 32)}
		s.cursors[kind] = c
	}

	arity := Arity(kind)
	if arity == 0 {
		return Element{}, fmt.Errorf("preproc: unknown kind %q", kind)
	}
	if c.pos+arity > c.length {
		return Element{}, &ErrExhausted{Kind: kind}
	}

	values := make([]field.F, arity)
	buf := make([]byte, 32)
	for i := 0; i < arity; i++ {
		if _, err := c.r.Read(buf); err != nil {
			return Element{}, fmt.Errorf("preproc: read %q element %d: %w", kind, c.pos+i, err)
		}
		values[i] = field.FromBytes(buf)
	}
	c.pos += arity
	return Element{Kind: kind, Values: values}, nil
}

// Remaining implements Source.
func (s *Store) Remaining(kind Kind) int {
	c, ok := s.cursors[kind]
	if !ok {
		return -1
	}
	arity := Arity(kind)
	if arity == 0 {
		return -1
	}
	return (c.length - c.pos) / arity
}

// Close releases any open backing files.
func (s *Store) Close() error {
	var firstErr error
	for _, c := range s.cursors {
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteBatch appends a run of elements to a kind's backing file for party
// id, creating the kind directory if necessary. It is the counterpart to
// Next, used by offline preprocessing generation (pkg/preproc.Dealer) to
// populate a Store ahead of a program run.
func WriteBatch(baseDir string, n, t int, kind Kind, id int, elems []Element) error {
	dir := filepath.Join(baseDir, fmt.Sprintf("%s_%d_%d", kind, n, t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("preproc: create store dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.dat", id))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("preproc: open store file for append: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range elems {
		if e.Kind != kind {
			return fmt.Errorf("preproc: element kind %q does not match batch kind %q", e.Kind, kind)
		}
		for _, v := range e.Values {
			if _, err := w.Write(v.Bytes()); err != nil {
				return fmt.Errorf("preproc: write element: %w", err)
			}
		}
	}
	return w.Flush()
}
