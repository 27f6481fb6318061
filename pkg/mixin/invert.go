package mixin

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/preproc"
)

// InvertShare computes the share of x^-1 using the standard
// mask-with-a-random-element trick: draw a random shared r, open z=x*r
// (which reveals nothing about x since r is uniform and secret), then
// x^-1 = r * z^-1, a public rescaling of r (spec.md §4.5). If z happens to
// open to zero -- meaning x itself was zero, or astronomically unlikely,
// a fresh r collided -- a new r is drawn and the attempt retried.
func InvertShare(c *mpc.Context, x mpc.Share) (mpc.Share, error) {
	for {
		rElem, err := c.Preproc.Next(preproc.KindRand)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: draw random mask: %w", err)
		}
		r := c.NewShare(rElem.Values[0])

		z, err := MultiplyShare(c, x, r)
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: mask operand: %w", err)
		}
		zPublic, err := z.Open()
		if err != nil {
			return mpc.Share{}, fmt.Errorf("mixin: open mask: %w", err)
		}
		if zPublic.IsZero() {
			continue
		}
		return mpc.MulPublic(r, field.Inv(zPublic)), nil
	}
}

// InvertShareArray computes the elementwise inverse of every element of x,
// batching the masking multiplication and its open across the whole array,
// and retrying only the (rare) elements whose mask opened to zero.
func InvertShareArray(c *mpc.Context, x mpc.ShareArray) (mpc.ShareArray, error) {
	out := make([]field.F, x.Len())
	pending := make([]int, x.Len())
	for i := range pending {
		pending[i] = i
	}

	for len(pending) > 0 {
		rs := make([]field.F, len(pending))
		xs := make([]field.F, len(pending))
		for i, idx := range pending {
			rElem, err := c.Preproc.Next(preproc.KindRand)
			if err != nil {
				return mpc.ShareArray{}, fmt.Errorf("mixin: draw random mask %d: %w", idx, err)
			}
			rs[i] = rElem.Values[0]
			xs[i] = x.At(idx).Value
		}
		rArr := c.NewShareArrayAtDegree(rs, x.Degree)
		xArr := c.NewShareArrayAtDegree(xs, x.Degree)

		z, err := MultiplyShareArray(c, xArr, rArr)
		if err != nil {
			return mpc.ShareArray{}, fmt.Errorf("mixin: mask operands: %w", err)
		}
		zPublic, err := z.Open()
		if err != nil {
			return mpc.ShareArray{}, fmt.Errorf("mixin: open masks: %w", err)
		}

		var retry []int
		for i, idx := range pending {
			if zPublic[i].IsZero() {
				retry = append(retry, idx)
				continue
			}
			out[idx] = field.Mul(rs[i], field.Inv(zPublic[i]))
		}
		pending = retry
	}

	return c.NewShareArrayAtDegree(out, x.Degree), nil
}
