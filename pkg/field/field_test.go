package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/pkg/field"
)

func TestAddSubNeg(t *testing.T) {
	a := field.New(7)
	b := field.New(11)
	sum := field.Add(a, b)
	assert.True(t, field.Equal(field.New(18), sum))

	diff := field.Sub(sum, b)
	assert.True(t, field.Equal(a, diff))

	assert.True(t, field.Equal(field.Zero(), field.Add(a, field.Neg(a))))
}

func TestMulInv(t *testing.T) {
	a := field.New(12345)
	b := field.New(6789)
	prod := field.Mul(a, b)

	inv := field.Inv(b)
	assert.True(t, field.Equal(a, field.Mul(prod, inv)))

	assert.Panics(t, func() { field.Inv(field.Zero()) })
}

func TestExp(t *testing.T) {
	a := field.New(3)
	assert.True(t, field.Equal(field.New(81), field.Exp(a, 4)))
	assert.True(t, field.Equal(field.One(), field.Exp(a, 0)))
}

func TestBytesRoundTrip(t *testing.T) {
	a := field.Random()
	b := field.FromBytes(a.Bytes())
	assert.True(t, field.Equal(a, b))

	raw, err := a.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	var c field.F
	require.NoError(t, c.UnmarshalBinary(raw))
	assert.True(t, field.Equal(a, c))
}

func TestUnmarshalBinaryRejectsWrongLength(t *testing.T) {
	var f field.F
	err := f.UnmarshalBinary([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestLegendre(t *testing.T) {
	assert.Equal(t, 0, field.Legendre(field.Zero()))
	assert.Equal(t, 1, field.Legendre(field.Mul(field.New(7), field.New(7))))

	seenSquare, seenNonSquare := false, false
	for i := uint64(2); i < 200; i++ {
		switch field.Legendre(field.New(i)) {
		case 1:
			seenSquare = true
		case -1:
			seenNonSquare = true
		}
	}
	assert.True(t, seenSquare)
	assert.True(t, seenNonSquare)
}

func TestRandomIsNotDegenerate(t *testing.T) {
	a := field.Random()
	b := field.Random()
	assert.False(t, field.Equal(a, b))
}

func TestRootOfUnityHasExactOrder(t *testing.T) {
	const order = 16
	omega, err := field.RootOfUnity(order)
	require.NoError(t, err)

	assert.True(t, field.Equal(field.One(), field.Exp(omega, order)))
	assert.False(t, field.Equal(field.One(), field.Exp(omega, order/2)))
}

func TestRootOfUnityRejectsNonPowerOfTwo(t *testing.T) {
	_, err := field.RootOfUnity(6)
	assert.Error(t, err)
}
