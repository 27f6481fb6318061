// Package mixin implements the secure comparison and multiplication
// operators that sit on top of a Context's linear share arithmetic:
// multiplication, inversion, division, equality, and less-than
// (spec.md §4.5-§4.7). Each operator consumes preprocessed correlated
// randomness from the Context's preproc.Source and costs a small, fixed
// number of broadcast rounds regardless of the field's size.
package mixin

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/mpc"
)

// Name identifies a registered operator, mirroring the teacher's mixin
// name constants so a program can look one up by string rather than
// importing every operator's package directly.
type Name string

const (
	NameMultiply = Name("share_multiply")
	NameInvert   = Name("share_invert")
	NameDivide   = Name("share_divide")
	NameEquality = Name("share_equality")
	NameLessThan = Name("share_lessthan")
)

// Func is the common shape every registered operator is adapted to: a
// fixed argument list of shares plus any integer parameters an operator
// needs (e.g. Equality's trial count), so heterogeneous operator
// signatures can live behind one map.
type Func func(c *mpc.Context, shares []mpc.Share, params ...int) (mpc.Share, error)

// Table is the registry of operators available to a program: map[Name]Func,
// built once (typically by Default) and never mutated after. A program that
// only needs a subset of operators can build a partial Table directly, and
// calling an operator absent from it returns MixinNotInstalled rather than
// panicking -- the mechanism spec.md §7 names for a program that requests
// an unregistered sub-protocol.
type Table map[Name]Func

// Default returns the Table backed by every operator this package
// implements.
func Default() Table {
	return Table{
		NameMultiply: wrapMultiply,
		NameInvert:   wrapInvert,
		NameDivide:   wrapDivide,
		NameEquality: wrapEquality,
		NameLessThan: wrapLessThan,
	}
}

// MixinNotInstalled is returned when a program calls an operator whose name
// is missing from the Table it was given (spec.md §7).
type MixinNotInstalled struct {
	Name Name
}

func (e *MixinNotInstalled) Error() string {
	return fmt.Sprintf("mixin: operator %q is not installed in this table", e.Name)
}

func (t Table) call(c *mpc.Context, name Name, shares []mpc.Share, params ...int) (mpc.Share, error) {
	fn, ok := t[name]
	if !ok {
		return mpc.Share{}, &MixinNotInstalled{Name: name}
	}
	return fn(c, shares, params...)
}

// Multiply runs the registered multiplication operator.
func (t Table) Multiply(c *mpc.Context, x, y mpc.Share) (mpc.Share, error) {
	return t.call(c, NameMultiply, []mpc.Share{x, y})
}

// Invert runs the registered inversion operator.
func (t Table) Invert(c *mpc.Context, x mpc.Share) (mpc.Share, error) {
	return t.call(c, NameInvert, []mpc.Share{x})
}

// Divide runs the registered division operator.
func (t Table) Divide(c *mpc.Context, x, y mpc.Share) (mpc.Share, error) {
	return t.call(c, NameDivide, []mpc.Share{x, y})
}

// Equality runs the registered equality operator at the given security
// parameter (number of independent test-bit trials).
func (t Table) Equality(c *mpc.Context, x, y mpc.Share, securityParam int) (mpc.Share, error) {
	return t.call(c, NameEquality, []mpc.Share{x, y}, securityParam)
}

// LessThan runs the registered comparison operator.
func (t Table) LessThan(c *mpc.Context, x, y mpc.Share) (mpc.Share, error) {
	return t.call(c, NameLessThan, []mpc.Share{x, y})
}

func wrapMultiply(c *mpc.Context, shares []mpc.Share, _ ...int) (mpc.Share, error) {
	return MultiplyShare(c, shares[0], shares[1])
}

func wrapInvert(c *mpc.Context, shares []mpc.Share, _ ...int) (mpc.Share, error) {
	return InvertShare(c, shares[0])
}

func wrapDivide(c *mpc.Context, shares []mpc.Share, _ ...int) (mpc.Share, error) {
	return DivideShares(c, shares[0], shares[1])
}

func wrapEquality(c *mpc.Context, shares []mpc.Share, params ...int) (mpc.Share, error) {
	securityParam := 1
	if len(params) > 0 {
		securityParam = params[0]
	}
	return ShareEquality(c, shares[0], shares[1], securityParam)
}

func wrapLessThan(c *mpc.Context, shares []mpc.Share, _ ...int) (mpc.Share, error) {
	return ShareLessThan(c, shares[0], shares[1])
}
