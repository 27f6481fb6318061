package mixin

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/preproc"
)

// MaxEqualityTrialRetries bounds the number of times genTestBit redraws
// preprocessing after an inconclusive trial (an opened value of zero, or a
// zero Legendre symbol). The reference protocol retries unboundedly,
// relying on Python's tail patience and an unbounded preprocessing supply;
// a production Go deployment draws from a fixed offline batch, so an
// unbounded retry here would just convert a vanishingly unlikely event
// into an indefinite hang. See DESIGN.md.
const MaxEqualityTrialRetries = 64

// ErrTooManyRetries is returned when genTestBit fails to reach a
// conclusive trial within MaxEqualityTrialRetries attempts.
var ErrTooManyRetries = fmt.Errorf("mixin: exceeded %d equality trial retries", MaxEqualityTrialRetries)

// genTestBit runs one trial of the Legendre-symbol test-bit generator
// (spec.md §4.6): it produces a share that is 1 with overwhelming
// probability if diff is zero, and 0 with probability roughly 1/2
// otherwise. ShareEquality combines many independent trials to drive the
// false-positive probability down to 2^-securityParam.
func genTestBit(c *mpc.Context, diff mpc.Share) (mpc.Share, error) {
	two := field.New(2)
	negFour := field.Neg(field.New(4))
	five := field.New(5)

	for attempt := 0; attempt < MaxEqualityTrialRetries; attempt++ {
		bElem, err := c.Preproc.Next(preproc.KindBit)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: draw test bit: %w", err)
		}
		b := c.NewShare(bElem.Values[0])
		bigB := mpc.AddPublic(mpc.MulPublic(b, negFour), five)

		rElem, err := c.Preproc.Next(preproc.KindRand)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: draw r: %w", err)
		}
		rpElem, err := c.Preproc.Next(preproc.KindRand)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: draw rp: %w", err)
		}
		r := c.NewShare(rElem.Values[0])
		rp := c.NewShare(rpElem.Values[0])

		firstArr := c.NewShareArrayAtDegree([]field.F{diff.Value, rp.Value}, diff.Degree)
		secondArr := c.NewShareArrayAtDegree([]field.F{r.Value, rp.Value}, diff.Degree)
		prod, err := MultiplyShareArray(c, firstArr, secondArr)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: mask diff: %w", err)
		}
		diffR := prod.At(0)
		rp2 := prod.At(1)

		bigBRp2, err := MultiplyShare(c, bigB, rp2)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: scale test term: %w", err)
		}

		cShare := mpc.Add(diffR, bigBRp2)
		cPublic, err := cShare.Open()
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: open test value: %w", err)
		}
		if cPublic.IsZero() {
			continue
		}

		legendre := field.Legendre(cPublic)
		if legendre == 0 {
			continue
		}

		lf := field.One()
		if legendre < 0 {
			lf = field.Neg(field.One())
		}
		// sigma = 2b-1 is the sign Legendre(B) takes when diff is zero
		// (B = 1 is a residue, B = 5 is not), so (sigma+lf)*lf/2 is 1 there.
		sigma := mpc.AddPublic(mpc.MulPublic(b, two), field.Neg(field.One()))
		coeff := field.Mul(lf, field.Inv(two))
		return mpc.MulPublic(mpc.AddPublic(sigma, lf), coeff), nil
	}
	return mpc.Share{}, ErrTooManyRetries
}

// ShareEquality computes a share that is 1 if p and q hide the same
// secret and 0 otherwise (with false-positive probability 2^-securityParam),
// by running securityParam independent test-bit trials and ANDing them
// together via a recursive pairwise multiply (spec.md §4.6).
func ShareEquality(c *mpc.Context, p, q mpc.Share, securityParam int) (mpc.Share, error) {
	if p.Degree != q.Degree {
		return mpc.Share{}, &mpc.DegreeMismatchError{A: p.Degree, B: q.Degree}
	}
	diff := mpc.Sub(p, q)

	bits := make([]mpc.Share, securityParam)
	for i := 0; i < securityParam; i++ {
		bit, err := genTestBit(c, diff)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: test bit %d: %w", i, err)
		}
		bits[i] = bit
	}

	return combinePairwiseAnd(c, bits)
}

// combinePairwiseAnd repeatedly halves a slice of {0,1}-valued shares by
// elementwise-multiplying adjacent pairs, batching every pair in a round
// into one call to MultiplyShareArray, until a single share remains.
func combinePairwiseAnd(c *mpc.Context, bits []mpc.Share) (mpc.Share, error) {
	for len(bits) > 1 {
		n := len(bits)
		pairs := n / 2
		firstVals := make([]field.F, pairs)
		secondVals := make([]field.F, pairs)
		for i := 0; i < pairs; i++ {
			firstVals[i] = bits[2*i].Value
			secondVals[i] = bits[2*i+1].Value
		}
		degree := bits[0].Degree
		firstArr := c.NewShareArrayAtDegree(firstVals, degree)
		secondArr := c.NewShareArrayAtDegree(secondVals, degree)
		prod, err := MultiplyShareArray(c, firstArr, secondArr)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: combine trials: %w", err)
		}

		next := make([]mpc.Share, 0, pairs+1)
		for i := 0; i < pairs; i++ {
			next = append(next, prod.At(i))
		}
		if n%2 == 1 {
			next = append(next, bits[n-1])
		}
		bits = next
	}
	return bits[0], nil
}
