package mixin

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/mpc"
)

// DivideShares computes the share of x/y as MultiplyShare(x, Invert(y)).
func DivideShares(c *mpc.Context, x, y mpc.Share) (mpc.Share, error) {
	yInv, err := InvertShare(c, y)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("mixin: invert divisor: %w", err)
	}
	return MultiplyShare(c, x, yInv)
}

// DivideShareArrays computes the elementwise quotient of two equal-length
// arrays.
func DivideShareArrays(c *mpc.Context, x, y mpc.ShareArray) (mpc.ShareArray, error) {
	yInv, err := InvertShareArray(c, y)
	if err != nil {
		return mpc.ShareArray{}, fmt.Errorf("mixin: invert divisor array: %w", err)
	}
	return MultiplyShareArray(c, x, yInv)
}
