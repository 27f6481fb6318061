package mpc

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
)

// ShareArray is a fixed-length vector of shares at a common degree,
// operated on elementwise. It exists so protocols can batch many
// independent opens into one BatchReconstruct broadcast round instead of
// paying a full robust-reconstruction round per element (spec.md §4.4).
type ShareArray struct {
	ctx    *Context
	Values []field.F
	Degree int
}

// NewShareArray wraps vs as a degree-t ShareArray.
func (c *Context) NewShareArray(vs []field.F) ShareArray {
	return ShareArray{ctx: c, Values: append([]field.F(nil), vs...), Degree: c.T}
}

// NewShareArrayAtDegree wraps vs as a ShareArray at an explicit degree.
func (c *Context) NewShareArrayAtDegree(vs []field.F, degree int) ShareArray {
	return ShareArray{ctx: c, Values: append([]field.F(nil), vs...), Degree: degree}
}

// Len returns the number of elements in the array.
func (a ShareArray) Len() int { return len(a.Values) }

// At returns the i-th element as a standalone Share.
func (a ShareArray) At(i int) Share {
	return Share{ctx: a.ctx, Value: a.Values[i], Degree: a.Degree}
}

// AddArrays returns the elementwise sum of two equal-length arrays.
func AddArrays(a, b ShareArray) (ShareArray, error) {
	if len(a.Values) != len(b.Values) {
		return ShareArray{}, &LengthMismatchError{A: len(a.Values), B: len(b.Values)}
	}
	out := make([]field.F, len(a.Values))
	for i := range a.Values {
		out[i] = field.Add(a.Values[i], b.Values[i])
	}
	deg := a.Degree
	if b.Degree > deg {
		deg = b.Degree
	}
	return ShareArray{ctx: a.ctx, Values: out, Degree: deg}, nil
}

// MulArrayByPublic scales each share of a by the corresponding publicly
// known (already opened) entry of k -- not a secret multiplication,
// which requires a Beaver triple and belongs to pkg/mixin.
func MulArrayByPublic(a ShareArray, k []field.F) (ShareArray, error) {
	if len(a.Values) != len(k) {
		return ShareArray{}, &LengthMismatchError{A: len(a.Values), B: len(k)}
	}
	out := make([]field.F, len(a.Values))
	for i := range a.Values {
		out[i] = field.Mul(a.Values[i], k[i])
	}
	return ShareArray{ctx: a.ctx, Values: out, Degree: a.Degree}, nil
}

// LengthMismatchError is returned when two ShareArrays expected to have
// equal length do not.
type LengthMismatchError struct {
	A, B int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("mpc: share array length mismatch: %d vs %d", e.A, e.B)
}

// Open reconstructs every element of the array using the broadcast batch
// protocol (spec.md §4.4), returning the revealed secrets in order.
func (a ShareArray) Open() ([]field.F, error) {
	return a.ctx.BatchReconstruct(a)
}
