// Package field implements arithmetic over the BLS12-381 scalar field,
// the prime field this runtime shares all of its secrets over.
package field

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/cronokirby/saferith"
)

// byteLen is the fixed wire width of a field element (spec.md §6): 32
// bytes, big-endian, matching a BLS12-381 scalar.
const byteLen = 32

// primeHex is the BLS12-381 scalar-field modulus, p ≡ 1 (mod 8), used
// throughout spec.md §8's end-to-end scenarios.
const primeHex = "73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"

var modulus *saferith.Modulus

func init() {
	raw, err := hex.DecodeString(primeHex)
	if err != nil {
		panic(fmt.Sprintf("field: invalid modulus literal: %v", err))
	}
	modulus = saferith.ModulusFromBytes(raw)
}

// F is an element of F_p. The zero value is not a valid field element;
// use Zero() or New.
type F struct {
	nat *saferith.Nat
}

// Modulus returns p as a big-endian byte string.
func Modulus() []byte {
	return modulus.Nat().Bytes()
}

// BitLen returns the number of bits in p, the bound the bitwise comparison
// mixin (ShareLessThan) decomposes its operands into (spec.md §4.7).
func BitLen() int {
	raw := Modulus()
	bits := len(raw) * 8
	for _, b := range raw {
		if b == 0 {
			bits -= 8
			continue
		}
		for mask := byte(0x80); mask != 0 && b&mask == 0; mask >>= 1 {
			bits--
		}
		break
	}
	return bits
}

// Zero returns the additive identity.
func Zero() F {
	return F{nat: new(saferith.Nat).SetUint64(0)}
}

// One returns the multiplicative identity.
func One() F {
	return F{nat: new(saferith.Nat).SetUint64(1)}
}

// New reduces x modulo p.
func New(x uint64) F {
	return F{nat: new(saferith.Nat).SetUint64(x).Mod(new(saferith.Nat).SetUint64(x), modulus)}
}

// FromBytes reads a big-endian encoded field element, reducing modulo p.
func FromBytes(b []byte) F {
	n := new(saferith.Nat).SetBytes(b)
	return F{nat: n.Mod(n, modulus)}
}

// Bytes returns the fixed-width (32-byte) big-endian encoding of a, per
// spec.md §6's wire payload contract.
func (a F) Bytes() []byte {
	raw := a.nat.Bytes()
	if len(raw) == byteLen {
		return raw
	}
	out := make([]byte, byteLen)
	copy(out[byteLen-len(raw):], raw)
	return out
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a F) MarshalBinary() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *F) UnmarshalBinary(data []byte) error {
	if len(data) != byteLen {
		return fmt.Errorf("field: expected %d bytes, got %d", byteLen, len(data))
	}
	*a = FromBytes(data)
	return nil
}

// Add returns a+b mod p.
func Add(a, b F) F {
	return F{nat: new(saferith.Nat).ModAdd(a.nat, b.nat, modulus)}
}

// Sub returns a-b mod p.
func Sub(a, b F) F {
	return F{nat: new(saferith.Nat).ModSub(a.nat, b.nat, modulus)}
}

// Neg returns -a mod p.
func Neg(a F) F {
	return F{nat: new(saferith.Nat).ModNeg(a.nat, modulus)}
}

// Mul returns a*b mod p.
func Mul(a, b F) F {
	return F{nat: new(saferith.Nat).ModMul(a.nat, b.nat, modulus)}
}

// Inv returns a^-1 mod p. Panics if a is zero; callers that may hold a
// zero divisor (InvertShare) must check IsZero first and retry with
// fresh randomness, per spec.md §4.5.
func Inv(a F) F {
	if a.IsZero() {
		panic("field: inverse of zero")
	}
	return F{nat: new(saferith.Nat).ModInverse(a.nat, modulus)}
}

// Exp returns a^e mod p for a non-negative exponent e.
func Exp(a F, e uint64) F {
	exp := new(saferith.Nat).SetUint64(e)
	return F{nat: new(saferith.Nat).Exp(a.nat, exp, modulus)}
}

// Equal reports whether a and b represent the same field element.
func Equal(a, b F) bool {
	return a.nat.Eq(b.nat) == 1
}

// IsZero reports whether a is the additive identity.
func (a F) IsZero() bool {
	return Equal(a, Zero())
}

// Legendre returns the Legendre symbol of a: 0 if a is zero, 1 if a is a
// nonzero quadratic residue mod p, -1 otherwise. p is required to be odd
// (spec.md §3), so (p-1)/2 is an exact integer exponent.
func Legendre(a F) int {
	if a.IsZero() {
		return 0
	}
	r := ExpNat(a, legendreExponent())
	if Equal(r, One()) {
		return 1
	}
	return -1
}

// legendreExponent lazily computes and caches (p-1)/2.
var cachedLegendreExp *saferith.Nat

func legendreExponent() *saferith.Nat {
	if cachedLegendreExp == nil {
		pMinus1 := new(saferith.Nat).ModSub(modulus.Nat(), new(saferith.Nat).SetUint64(1), modulus)
		two := new(saferith.Nat).SetUint64(2)
		cachedLegendreExp = new(saferith.Nat).ModInverse(two, modulus)
		cachedLegendreExp.ModMul(cachedLegendreExp, pMinus1, modulus)
	}
	return cachedLegendreExp
}

// ExpNat returns a^e mod p for an arbitrary-precision exponent e.
func ExpNat(a F, e *saferith.Nat) F {
	return F{nat: new(saferith.Nat).Exp(a.nat, e, modulus)}
}

// Random samples a uniformly random field element.
func Random() F {
	buf := make([]byte, byteLen+8) // extra bytes to dilute modulo bias
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("field: failed to read randomness: %v", err))
	}
	return FromBytes(buf)
}

// String renders a in hex, for logging and debugging.
func (a F) String() string {
	return "0x" + hex.EncodeToString(a.Bytes())
}

// Uint64 interprets a as a small natural number, returning its low 64
// bits. Callers (the LessThan mixin's bit-decomposition arithmetic) only
// ever call this on values already known to fit, such as an opened sum of
// a few hundred 0/1 bits.
func (a F) Uint64() uint64 {
	raw := a.Bytes()
	var v uint64
	for _, b := range raw[len(raw)-8:] {
		v = v<<8 | uint64(b)
	}
	return v
}

// Less reports whether a < b when both are viewed as the unique natural
// number in [0, p) they represent -- not a field operation, but the
// ordinary integer order the bitwise comparison mixin needs to reason
// about magnitudes (spec.md §4.7).
func Less(a, b F) bool {
	return bytes.Compare(a.Bytes(), b.Bytes()) < 0
}

// Bit returns the i-th least-significant bit of a, viewed as the natural
// number it represents, as a field element (0 or 1).
func Bit(a F, i int) F {
	raw := a.Bytes()
	byteIdx := len(raw) - 1 - i/8
	if byteIdx < 0 {
		return Zero()
	}
	if raw[byteIdx]&(1<<uint(i%8)) != 0 {
		return One()
	}
	return Zero()
}

// twoAdicity is the largest k such that 2^k divides p-1 for the
// BLS12-381 scalar field, i.e. the order of the largest 2-adic subgroup
// of F_p^* (spec.md §2's FFT-friendly evaluation point set).
const twoAdicity = 32

// generator is a known multiplicative generator of F_p^*, the same value
// most BLS12-381 scalar-field implementations fix as GENERATOR; every
// root of unity this package produces is derived from it.
var generator = New(7)

// RootOfUnity returns a primitive order-th root of unity in F_p. order
// must be a power of two no greater than 2^twoAdicity, since that is the
// largest 2-adic subgroup p-1 admits.
func RootOfUnity(order uint64) (F, error) {
	if order == 0 || order&(order-1) != 0 {
		return F{}, fmt.Errorf("field: order %d is not a power of two", order)
	}
	shift := 0
	for o := order; o > 1; o >>= 1 {
		shift++
	}
	if shift > twoAdicity {
		return F{}, fmt.Errorf("field: order %d exceeds the field's 2-adicity of 2^%d", order, twoAdicity)
	}
	exponent := shiftRightBytes(decrementBytes(Modulus()), shift)
	root := ExpNat(generator, new(saferith.Nat).SetBytes(exponent))
	if Equal(root, One()) {
		return F{}, fmt.Errorf("field: order %d root of unity degenerated to 1", order)
	}
	return root, nil
}

// decrementBytes returns b-1 as a big-endian byte slice of the same
// length, for b != 0.
func decrementBytes(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] > 0 {
			out[i]--
			break
		}
		out[i] = 0xff
	}
	return out
}

// shiftRightBytes returns b right-shifted by n bits, treated as a
// big-endian unsigned integer.
func shiftRightBytes(b []byte, n int) []byte {
	out := append([]byte(nil), b...)
	for ; n > 0; n-- {
		var carry byte
		for i := range out {
			next := out[i] & 1
			out[i] = out[i]>>1 | carry<<7
			carry = next
		}
	}
	return out
}
