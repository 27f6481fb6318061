package mixin

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/preproc"
)

// ShareLessThan computes a share that is 1 if the secret hidden by a is
// strictly less than the secret hidden by b, and 0 otherwise, via the
// bitwise comparison protocol of Reistad (2007) (spec.md §4.7). Unlike
// ShareEquality's probabilistic trials, this comparison is exact: it
// decomposes a masked difference into its bits using two batches of
// preprocessed random bits and a handful of secret multiplications.
//
// When ctx.DebugChecks is set it also asserts invariants a production
// deployment would simply trust: that the masked difference's public bit
// decomposition recombines, that each opened carry sum lies within
// [0, bitLength-1-i], and that the extracted bits are actually 0 or 1.
// Only the extracted-bit checks open extra secret values, which leaks
// information no correctness argument requires revealed, so all of these
// checks stay off by default; see DESIGN.md.
func ShareLessThan(c *mpc.Context, a, b mpc.Share) (mpc.Share, error) {
	if a.Degree != b.Degree {
		return mpc.Share{}, &mpc.DegreeMismatchError{A: a.Degree, B: b.Degree}
	}
	degree := a.Degree
	bitLength := field.BitLen()

	rBits, err := drawBits(c, degree, bitLength)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: draw r bits: %w", err)
	}
	rBigB := weightedSum(c, degree, rBits)

	z := mpc.Sub(a, b)
	twoZPlusR := mpc.AddPublic(mpc.MulPublic(z, field.New(2)), rBigB.Value)
	cPublic, err := twoZPlusR.Open()
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: open masked difference: %w", err)
	}
	cBits := make([]field.F, bitLength)
	for i := 0; i < bitLength; i++ {
		cBits[i] = field.Bit(cPublic, i)
	}
	if c.DebugChecks {
		recombined := field.Zero()
		for i := 0; i < bitLength; i++ {
			recombined = field.Add(recombined, field.Mul(cBits[i], field.Exp(field.New(2), uint64(i))))
		}
		if !field.Equal(recombined, cPublic) {
			return mpc.Share{}, fmt.Errorf("mixin: debug check failed: bit decomposition of masked difference does not recombine")
		}
	}

	// Part 2: compute bigx, the carry-corrected combination of r's bits
	// and the publicly known bits of c.
	crShares := make([]mpc.Share, bitLength-1)
	for i := 0; i < bitLength-1; i++ {
		cr := c.NewShareAtDegree(field.Zero(), degree)
		for j := i + 1; j < bitLength; j++ {
			xorIJ := xorWithPublicBit(rBits[j], cBits[j])
			cr = mpc.Add(cr, xorIJ)
		}
		crShares[i] = cr
	}
	crValues := make([]field.F, len(crShares))
	for i, s := range crShares {
		crValues[i] = s.Value
	}
	crOpened, err := c.NewShareArrayAtDegree(crValues, degree).Open()
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: open carry terms: %w", err)
	}
	if c.DebugChecks {
		// crOpened[i] sums bitLength-1-i independent XOR terms (one per
		// j in [i+1, bitLength-1]), each 0 or 1, not a single bit itself:
		// it can legitimately open to anything in [0, bitLength-1-i].
		for i, v := range crOpened {
			maxCarry := field.New(uint64(bitLength - 1 - i))
			if field.Less(maxCarry, v) {
				return mpc.Share{}, fmt.Errorf("mixin: debug check failed: carry term %d opened to %v exceeding max %d", i, v, bitLength-1-i)
			}
		}
	}

	bigx := c.NewShareAtDegree(field.Zero(), degree)
	for i := 0; i < bitLength-1; i++ {
		pp := field.Exp(field.New(2), crOpened[i].Uint64())
		oneMinusCi := field.Sub(field.One(), cBits[i])
		weight := field.Mul(oneMinusCi, pp)
		bigx = mpc.Add(bigx, mpc.MulPublic(rBits[i], weight))
	}
	lastWeight := field.Sub(field.One(), cBits[bitLength-1])
	bigx = mpc.Add(bigx, mpc.MulPublic(rBits[bitLength-1], lastWeight))

	// Part 3: extract the low bit of bigx via a second random mask.
	sBits, err := drawBits(c, degree, bitLength)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: draw s bits: %w", err)
	}
	s0 := sBits[0]
	s1 := sBits[bitLength-1]
	s2 := sBits[bitLength-2]
	s1s2, err := MultiplyShare(c, s1, s2)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: combine extraction bits: %w", err)
	}
	sBigB := weightedSum(c, degree, sBits)

	bigd := mpc.Add(sBigB, bigx)
	d, err := bigd.Open()
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: open extraction value: %w", err)
	}

	d0 := d.Uint64() & 1
	halfUpper := field.Exp(field.New(2), uint64(bitLength-1))
	quarterUpper := field.Exp(field.New(2), uint64(bitLength-2))
	combinedUpper := field.Add(halfUpper, quarterUpper)

	dxor1 := d0 ^ boolToBit(field.Less(d, halfUpper))
	dxor2 := d0 ^ boolToBit(field.Less(d, quarterUpper))
	dxor12 := d0 ^ boolToBit(field.Less(d, combinedUpper))

	one := field.One()
	d0Share := linearCombineD0(c, degree, d0, dxor1, dxor2, dxor12, s1, s2, s1s2, one)

	if c.DebugChecks {
		if err := debugAssertBit(c, "d0Share", d0Share); err != nil {
			return mpc.Share{}, err
		}
	}

	x0, err := MultiplyShare(c, s0, d0Share)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: extract low bit: %w", err)
	}
	x0 = mpc.Sub(mpc.Add(s0, d0Share), mpc.MulPublic(x0, field.New(2)))
	if c.DebugChecks {
		if err := debugAssertBit(c, "x0", x0); err != nil {
			return mpc.Share{}, err
		}
	}

	c0 := cBits[0]
	r0 := rBits[0]
	c0XorR0 := xorWithPublicBit(r0, c0)

	prodFinal, err := MultiplyShare(c, c0XorR0, x0)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: combine final xor: %w", err)
	}
	finalVal := mpc.Sub(mpc.Add(c0XorR0, x0), mpc.MulPublic(prodFinal, field.New(2)))
	return finalVal, nil
}

func drawBits(c *mpc.Context, degree, n int) ([]mpc.Share, error) {
	out := make([]mpc.Share, n)
	for i := 0; i < n; i++ {
		e, err := c.Preproc.Next(preproc.KindBit)
		if err != nil {
			return nil, err
		}
		out[i] = c.NewShareAtDegree(e.Values[0], degree)
	}
	return out, nil
}

// weightedSum returns the share of sum_i 2^i*bits[i], a purely local
// linear combination requiring no communication.
func weightedSum(c *mpc.Context, degree int, bits []mpc.Share) mpc.Share {
	acc := c.NewShareAtDegree(field.Zero(), degree)
	for i, bit := range bits {
		acc = mpc.Add(acc, mpc.MulPublic(bit, field.Exp(field.New(2), uint64(i))))
	}
	return acc
}

// xorWithPublicBit returns the share of bitShare XOR pub, via the
// standard linear XOR identity x XOR k = x + k - 2kx for a public k,
// which needs no multiplication since k is known to every party.
func xorWithPublicBit(bitShare mpc.Share, pub field.F) mpc.Share {
	twoK := field.Mul(field.New(2), pub)
	scaled := mpc.MulPublic(bitShare, field.Sub(field.One(), twoK))
	return mpc.AddPublic(scaled, pub)
}

func boolToBit(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// debugAssertBit opens s and confirms it decodes to 0 or 1, mirroring the
// reference protocol's development-time sanity asserts on its intermediate
// bit shares. Opening a value the rest of the protocol treats as secret
// leaks it, so every call site must be gated behind ctx.DebugChecks.
func debugAssertBit(c *mpc.Context, label string, s mpc.Share) error {
	v, err := s.Open()
	if err != nil {
		return fmt.Errorf("mixin: debug check %s: %w", label, err)
	}
	if !field.Equal(v, field.Zero()) && !field.Equal(v, field.One()) {
		return fmt.Errorf("mixin: debug check failed: %s opened to non-bit value", label)
	}
	return nil
}

// linearCombineD0 implements the Part 3 case split:
//
//	d0*(1+s1s2-s1-s2) + dxor2*(s2-s1s2) + dxor1*(s1-s1s2) + dxor12*s1s2
//
// d0/dxor1/dxor2/dxor12 are public 0/1 scalars, so every term is a local
// scaling of a share; no communication is required.
func linearCombineD0(c *mpc.Context, degree int, d0, dxor1, dxor2, dxor12 uint64, s1, s2, s1s2 mpc.Share, one field.F) mpc.Share {
	term1 := mpc.AddPublic(mpc.Sub(mpc.Sub(s1s2, s1), s2), one)
	term1 = mpc.MulPublic(term1, field.New(d0))

	term2 := mpc.MulPublic(mpc.Sub(s2, s1s2), field.New(dxor2))
	term3 := mpc.MulPublic(mpc.Sub(s1, s1s2), field.New(dxor1))
	term4 := mpc.MulPublic(s1s2, field.New(dxor12))

	return mpc.Add(mpc.Add(term1, term2), mpc.Add(term3, term4))
}
