package poly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/poly"
)

func pts(xs ...uint64) []field.F {
	out := make([]field.F, len(xs))
	for i, x := range xs {
		out[i] = field.New(x)
	}
	return out
}

func TestEvalHorner(t *testing.T) {
	// p(x) = 2 + 3x + x^2
	p := poly.New(field.New(2), field.New(3), field.New(1))
	assert.True(t, field.Equal(field.New(2), p.Eval(field.Zero())))
	assert.True(t, field.Equal(field.New(6), p.Eval(field.One())))
	assert.True(t, field.Equal(field.New(12), p.Eval(field.New(2))))
}

func TestInterpolateRecoversPolynomial(t *testing.T) {
	secret := field.New(42)
	p := poly.Random(3, secret)

	xs := pts(1, 2, 3, 4)
	ys := make([]field.F, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x)
	}

	got, err := poly.Interpolate(xs, ys)
	require.NoError(t, err)
	assert.True(t, field.Equal(secret, got.Eval(field.Zero())))
}

func TestInterpolateDuplicatePoints(t *testing.T) {
	xs := pts(1, 1)
	ys := pts(5, 6)
	_, err := poly.Interpolate(xs, ys)
	assert.ErrorIs(t, err, poly.ErrDegenerateInputs)
}

func TestEvalLagrangeAtMatchesInterpolate(t *testing.T) {
	secret := field.New(7)
	p := poly.Random(2, secret)
	xs := pts(10, 20, 30)
	ys := []field.F{p.Eval(xs[0]), p.Eval(xs[1]), p.Eval(xs[2])}

	got, err := poly.EvalLagrangeAt(xs, ys, field.Zero())
	require.NoError(t, err)
	assert.True(t, field.Equal(secret, got))
}

func TestDecodeNoFaults(t *testing.T) {
	secret := field.New(99)
	t_ := 2
	p := poly.Random(t_, secret)
	xs := pts(1, 2, 3, 4, 5, 6, 7)
	ys := make([]field.F, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x)
	}

	decoded, err := poly.Decode(xs, ys, t_)
	require.NoError(t, err)
	assert.True(t, field.Equal(secret, decoded.Eval(field.Zero())))
}

func TestDecodeToleratesFaults(t *testing.T) {
	secret := field.New(1234)
	degree := 2
	// n=7, t=2 tolerates floor((7-1-2)/2) = 2 faulty shares.
	p := poly.Random(degree, secret)
	xs := pts(1, 2, 3, 4, 5, 6, 7)
	ys := make([]field.F, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x)
	}
	// Corrupt two shares.
	ys[1] = field.Add(ys[1], field.One())
	ys[4] = field.Add(ys[4], field.New(5))

	decoded, err := poly.Decode(xs, ys, degree)
	require.NoError(t, err)
	assert.True(t, field.Equal(secret, decoded.Eval(field.Zero())))
}

func TestDecodeTooManyFaults(t *testing.T) {
	secret := field.New(1)
	degree := 1
	// n=4, t=1 tolerates floor((4-1-1)/2) = 1 fault.
	p := poly.Random(degree, secret)
	xs := pts(1, 2, 3, 4)
	ys := make([]field.F, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x)
	}
	ys[0] = field.Add(ys[0], field.One())
	ys[1] = field.Add(ys[1], field.New(3))

	_, err := poly.Decode(xs, ys, degree)
	assert.Error(t, err)
}

func TestDecodeNotEnoughPoints(t *testing.T) {
	xs := pts(1, 2)
	ys := pts(5, 6)
	_, err := poly.Decode(xs, ys, 3)
	assert.ErrorIs(t, err, poly.ErrNotEnoughPoints)
}

func TestMaxFaults(t *testing.T) {
	assert.Equal(t, 2, poly.MaxFaults(7, 2))
	assert.Equal(t, 0, poly.MaxFaults(2, 1))
	assert.Equal(t, -1, poly.MaxFaults(1, 3))
}
