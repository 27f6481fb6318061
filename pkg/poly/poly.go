// Package poly implements polynomials over the field package and the
// Lagrange interpolation and Berlekamp-Welch decoding routines that back
// Shamir secret sharing and robust reconstruction (spec.md §4.3, §4.4).
package poly

import (
	"errors"
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
)

// ErrDegenerateInputs is returned by Interpolate when two supplied
// evaluation points coincide; no polynomial can be fit to such a set.
var ErrDegenerateInputs = errors.New("poly: duplicate evaluation point")

// ErrNotEnoughPoints is returned by Decode when fewer points are supplied
// than the fault tolerance for the requested degree requires.
var ErrNotEnoughPoints = errors.New("poly: not enough points for requested degree and fault tolerance")

// ErrTooManyFaults is returned by Decode when no degree-t polynomial is
// consistent with more than the tolerated number of the supplied points.
var ErrTooManyFaults = errors.New("poly: more faulty shares than the fault tolerance allows")

// Polynomial is a dense coefficient representation, Coeffs[i] being the
// coefficient of x^i. The zero value represents the zero polynomial.
type Polynomial struct {
	Coeffs []field.F
}

// New builds a Polynomial from coefficients, lowest degree first.
func New(coeffs ...field.F) Polynomial {
	return Polynomial{Coeffs: append([]field.F(nil), coeffs...)}
}

// Degree returns the polynomial's degree, or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		if !p.Coeffs[i].IsZero() {
			return i
		}
	}
	return -1
}

// Eval evaluates p at x via Horner's method.
func (p Polynomial) Eval(x field.F) field.F {
	if len(p.Coeffs) == 0 {
		return field.Zero()
	}
	acc := p.Coeffs[len(p.Coeffs)-1]
	for i := len(p.Coeffs) - 2; i >= 0; i-- {
		acc = field.Add(field.Mul(acc, x), p.Coeffs[i])
	}
	return acc
}

// Random samples a uniformly random polynomial of the given degree whose
// constant term is fixed to secret, the standard construction for a fresh
// Shamir sharing (spec.md §3).
func Random(degree int, secret field.F) Polynomial {
	coeffs := make([]field.F, degree+1)
	coeffs[0] = secret
	for i := 1; i <= degree; i++ {
		coeffs[i] = field.Random()
	}
	return Polynomial{Coeffs: coeffs}
}

// mulLinear multiplies p by the monic linear factor (x - root), leaving p
// unchanged and returning a new polynomial one degree higher.
func mulLinear(p Polynomial, root field.F) Polynomial {
	out := make([]field.F, len(p.Coeffs)+1)
	for i, c := range p.Coeffs {
		out[i+1] = field.Add(out[i+1], c)
		out[i] = field.Sub(out[i], field.Mul(c, root))
	}
	return Polynomial{Coeffs: out}
}

func scale(p Polynomial, s field.F) Polynomial {
	out := make([]field.F, len(p.Coeffs))
	for i, c := range p.Coeffs {
		out[i] = field.Mul(c, s)
	}
	return Polynomial{Coeffs: out}
}

func add(a, b Polynomial) Polynomial {
	n := len(a.Coeffs)
	if len(b.Coeffs) > n {
		n = len(b.Coeffs)
	}
	out := make([]field.F, n)
	for i := 0; i < n; i++ {
		var av, bv field.F
		if i < len(a.Coeffs) {
			av = a.Coeffs[i]
		} else {
			av = field.Zero()
		}
		if i < len(b.Coeffs) {
			bv = b.Coeffs[i]
		} else {
			bv = field.Zero()
		}
		out[i] = field.Add(av, bv)
	}
	return Polynomial{Coeffs: out}
}

// Interpolate returns the unique polynomial of degree < len(xs) passing
// through every (xs[i], ys[i]) pair, via Lagrange interpolation.
func Interpolate(xs, ys []field.F) (Polynomial, error) {
	if len(xs) != len(ys) {
		return Polynomial{}, fmt.Errorf("poly: %d x-coordinates but %d y-coordinates", len(xs), len(ys))
	}
	if err := checkDistinct(xs); err != nil {
		return Polynomial{}, err
	}

	result := Polynomial{Coeffs: []field.F{field.Zero()}}
	for i := range xs {
		numerator := Polynomial{Coeffs: []field.F{field.One()}}
		denom := field.One()
		for j := range xs {
			if i == j {
				continue
			}
			numerator = mulLinear(numerator, xs[j])
			denom = field.Mul(denom, field.Sub(xs[i], xs[j]))
		}
		basis := scale(numerator, field.Mul(ys[i], field.Inv(denom)))
		result = add(result, basis)
	}
	return result, nil
}

// EvalLagrangeAt computes f(at) for the unique degree-<len(xs) polynomial
// through the given points, without materializing the full polynomial.
// The reconstruction paths in pkg/mpc decode with Decode instead and do
// not call it.
func EvalLagrangeAt(xs, ys []field.F, at field.F) (field.F, error) {
	if len(xs) != len(ys) {
		return field.F{}, fmt.Errorf("poly: %d x-coordinates but %d y-coordinates", len(xs), len(ys))
	}
	if err := checkDistinct(xs); err != nil {
		return field.F{}, err
	}

	acc := field.Zero()
	for i := range xs {
		num := field.One()
		den := field.One()
		for j := range xs {
			if i == j {
				continue
			}
			num = field.Mul(num, field.Sub(at, xs[j]))
			den = field.Mul(den, field.Sub(xs[i], xs[j]))
		}
		term := field.Mul(ys[i], field.Mul(num, field.Inv(den)))
		acc = field.Add(acc, term)
	}
	return acc, nil
}

func checkDistinct(xs []field.F) error {
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if field.Equal(xs[i], xs[j]) {
				return ErrDegenerateInputs
			}
		}
	}
	return nil
}

// MaxFaults returns the number of corrupted points Decode can tolerate when
// reconstructing a degree-t polynomial from n points: floor((n-1-t)/2),
// the classical Berlekamp-Welch bound (spec.md §4.3).
func MaxFaults(n, t int) int {
	e := (n - 1 - t) / 2
	if e < 0 {
		return -1
	}
	return e
}

// Decode reconstructs the unique degree-t polynomial consistent with at
// least n-MaxFaults(n,t) of the supplied points, tolerating up to
// MaxFaults(n,t) arbitrarily wrong points, via Berlekamp-Welch decoding.
// It returns ErrNotEnoughPoints if n is too small for the requested
// tolerance, and ErrTooManyFaults if no such polynomial exists for any
// split of up to that many faults.
func Decode(xs, ys []field.F, t int) (Polynomial, error) {
	n := len(xs)
	if len(ys) != n {
		return Polynomial{}, fmt.Errorf("poly: %d x-coordinates but %d y-coordinates", n, len(ys))
	}
	if err := checkDistinct(xs); err != nil {
		return Polynomial{}, err
	}

	e := MaxFaults(n, t)
	if e < 0 {
		return Polynomial{}, ErrNotEnoughPoints
	}

	for errBudget := e; errBudget >= 0; errBudget-- {
		p, ok := tryDecode(xs, ys, t, errBudget)
		if ok {
			return p, nil
		}
	}
	return Polynomial{}, ErrTooManyFaults
}

// tryDecode attempts Berlekamp-Welch decoding assuming exactly errBudget
// errors. Q has degree t+errBudget, E is monic of degree errBudget; both
// solve y_i*E(x_i) = Q(x_i) for every point. The unknowns are the t+errBudget+1
// coefficients of Q and the errBudget non-leading coefficients of E.
func tryDecode(xs, ys []field.F, t, errBudget int) (Polynomial, bool) {
	n := len(xs)
	degQ := t + errBudget
	numUnknowns := (degQ + 1) + errBudget
	if numUnknowns == 0 || n < numUnknowns {
		return Polynomial{}, false
	}

	rows := make([][]field.F, numUnknowns)
	rhs := make([]field.F, numUnknowns)
	for i := 0; i < numUnknowns; i++ {
		x, y := xs[i], ys[i]
		row := make([]field.F, numUnknowns)
		xp := field.One()
		for m := 0; m <= degQ; m++ {
			row[m] = field.Neg(xp)
			xp = field.Mul(xp, x)
		}
		xp = field.One()
		for k := 0; k < errBudget; k++ {
			row[degQ+1+k] = field.Mul(y, xp)
			xp = field.Mul(xp, x)
		}
		xEdeg := field.Exp(x, uint64(errBudget))
		rhs[i] = field.Neg(field.Mul(y, xEdeg))
		rows[i] = row
	}

	sol, ok := solveLinear(rows, rhs)
	if !ok {
		return Polynomial{}, false
	}

	qCoeffs := sol[:degQ+1]
	eCoeffs := append(append([]field.F{}, sol[degQ+1:]...), field.One())

	Q := Polynomial{Coeffs: qCoeffs}
	E := Polynomial{Coeffs: eCoeffs}

	// Verify consistency on every remaining point: at most errBudget of
	// the n points may disagree with Q(x)=y*E(x).
	mismatches := 0
	for i := numUnknowns; i < n; i++ {
		lhs := Q.Eval(xs[i])
		rhsV := field.Mul(ys[i], E.Eval(xs[i]))
		if !field.Equal(lhs, rhsV) {
			mismatches++
			if mismatches > errBudget {
				return Polynomial{}, false
			}
		}
	}

	quotient, remainder := divide(Q, E)
	if remainder.Degree() >= 0 {
		return Polynomial{}, false
	}
	if quotient.Degree() > t {
		return Polynomial{}, false
	}
	// Pad/truncate to exactly t+1 coefficients for a canonical representation.
	out := make([]field.F, t+1)
	for i := range out {
		out[i] = field.Zero()
	}
	copy(out, quotient.Coeffs)
	return Polynomial{Coeffs: out}, true
}

// divide performs polynomial long division a = quotient*b + remainder.
func divide(a, b Polynomial) (quotient, remainder Polynomial) {
	remCoeffs := append([]field.F(nil), a.Coeffs...)
	degB := b.Degree()
	if degB < 0 {
		return Polynomial{}, a
	}
	degA := (Polynomial{Coeffs: remCoeffs}).Degree()
	if degA < degB {
		return Polynomial{Coeffs: []field.F{field.Zero()}}, Polynomial{Coeffs: remCoeffs}
	}

	quotCoeffs := make([]field.F, degA-degB+1)
	leadBInv := field.Inv(b.Coeffs[degB])

	for {
		rem := Polynomial{Coeffs: remCoeffs}
		degRem := rem.Degree()
		if degRem < degB {
			break
		}
		coeff := field.Mul(remCoeffs[degRem], leadBInv)
		shift := degRem - degB
		quotCoeffs[shift] = coeff
		for i := 0; i <= degB; i++ {
			remCoeffs[i+shift] = field.Sub(remCoeffs[i+shift], field.Mul(coeff, b.Coeffs[i]))
		}
	}

	return Polynomial{Coeffs: quotCoeffs}, Polynomial{Coeffs: remCoeffs}
}

// solveLinear solves the square system rows*x = rhs via Gaussian
// elimination with partial pivoting over the field. It returns ok=false
// if the system is singular.
func solveLinear(rows [][]field.F, rhs []field.F) ([]field.F, bool) {
	n := len(rows)
	a := make([][]field.F, n)
	b := make([]field.F, n)
	for i := range rows {
		a[i] = append([]field.F(nil), rows[i]...)
		b[i] = rhs[i]
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if !a[row][col].IsZero() {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		inv := field.Inv(a[col][col])
		for j := col; j < n; j++ {
			a[col][j] = field.Mul(a[col][j], inv)
		}
		b[col] = field.Mul(b[col], inv)

		for row := 0; row < n; row++ {
			if row == col || a[row][col].IsZero() {
				continue
			}
			factor := a[row][col]
			for j := col; j < n; j++ {
				a[row][j] = field.Sub(a[row][j], field.Mul(factor, a[col][j]))
			}
			b[row] = field.Sub(b[row], field.Mul(factor, b[col]))
		}
	}

	return b, true
}
