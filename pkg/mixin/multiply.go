package mixin

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/preproc"
)

// MultiplyShare computes the share of x*y using one Beaver triple and one
// batched open of the two masked differences (spec.md §4.5):
//
//	d = open(x-a), e = open(y-b)
//	xy = d*e + d*b + e*a + c
//
// where (a, b, c=a*b) is a fresh triple drawn from the context's
// preprocessing source. This costs exactly one round trip, independent of
// the field's size.
func MultiplyShare(c *mpc.Context, x, y mpc.Share) (mpc.Share, error) {
	if x.Degree != y.Degree {
		return mpc.Share{}, &mpc.DegreeMismatchError{A: x.Degree, B: y.Degree}
	}

	triple, err := c.Preproc.Next(preproc.KindTriple)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: draw triple: %w", err)
	}
	a, b, ab := c.NewShare(triple.Values[0]), c.NewShare(triple.Values[1]), triple.Values[2]

	diffD := mpc.Sub(x, a)
	diffE := mpc.Sub(y, b)
	opened, err := c.NewShareArray([]field.F{diffD.Value, diffE.Value}).Open()
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: open masked operands: %w", err)
	}
	d, e := opened[0], opened[1]

	result := field.Add(field.Add(field.Mul(d, e), field.Mul(d, b.Value)), field.Add(field.Mul(e, a.Value), ab))
	return c.NewShareAtDegree(result, x.Degree), nil
}

// MultiplyShareArray computes the elementwise product of two equal-length
// arrays in one batched round, drawing one triple per element but opening
// all 2k masked differences together.
func MultiplyShareArray(c *mpc.Context, x, y mpc.ShareArray) (mpc.ShareArray, error) {
	if x.Len() != y.Len() {
		return mpc.ShareArray{}, &mpc.LengthMismatchError{A: x.Len(), B: y.Len()}
	}
	if x.Degree != y.Degree {
		return mpc.ShareArray{}, &mpc.DegreeMismatchError{A: x.Degree, B: y.Degree}
	}
	k := x.Len()

	as := make([]field.F, k)
	bs := make([]field.F, k)
	abs := make([]field.F, k)
	masked := make([]field.F, 2*k)
	for i := 0; i < k; i++ {
		triple, err := c.Preproc.Next(preproc.KindTriple)
		if err != nil {
			return mpc.ShareArray{}, fmt.Errorf("mixin: draw triple %d: %w", i, err)
		}
		as[i], bs[i], abs[i] = triple.Values[0], triple.Values[1], triple.Values[2]
		masked[i] = field.Sub(x.At(i).Value, as[i])
		masked[k+i] = field.Sub(y.At(i).Value, bs[i])
	}

	opened, err := c.NewShareArray(masked).Open()
	if err != nil {
		return mpc.ShareArray{}, fmt.Errorf("mixin: open masked operands: %w", err)
	}

	out := make([]field.F, k)
	for i := 0; i < k; i++ {
		d, e := opened[i], opened[k+i]
		out[i] = field.Add(field.Add(field.Mul(d, e), field.Mul(d, bs[i])), field.Add(field.Mul(e, as[i]), abs[i]))
	}
	return c.NewShareArrayAtDegree(out, x.Degree), nil
}
