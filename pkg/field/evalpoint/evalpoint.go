// Package evalpoint assigns the fixed evaluation points that every party's
// Shamir shares live at. Points are derived deterministically from a party's
// index so no party ever negotiates them over the wire (spec.md §3).
package evalpoint

import (
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
)

// Sequential returns the n points 1, 2, ..., n, the default point set used
// when a program does not request an alternate scheme.
func Sequential(n int) []field.F {
	pts := make([]field.F, n)
	for i := 0; i < n; i++ {
		pts[i] = field.New(uint64(i + 1))
	}
	return pts
}

// ForParty returns the evaluation point assigned to party index i (0-based)
// under the Sequential scheme, without allocating the full set.
func ForParty(i int) field.F {
	return field.New(uint64(i + 1))
}

// Powers returns the n points 1, ω, ω^2, ..., ω^(n-1) for the given
// generator ω. Callers are responsible for supplying a ω of the correct
// order; this package does not search for one.
func Powers(omega field.F, n int) []field.F {
	pts := make([]field.F, n)
	pts[0] = field.One()
	for i := 1; i < n; i++ {
		pts[i] = field.Mul(pts[i-1], omega)
	}
	return pts
}

// FFTFriendly returns the n points 1, ω, ω^2, ..., ω^(n-1) for a
// primitive n-th root of unity ω, the FFT-friendly evaluation point set
// of spec.md §2 and §3. n must be a power of two within the field's
// 2-adic subgroup (field.RootOfUnity's constraint).
func FFTFriendly(n int) ([]field.F, error) {
	omega, err := field.RootOfUnity(uint64(n))
	if err != nil {
		return nil, fmt.Errorf("evalpoint: %w", err)
	}
	return Powers(omega, n), nil
}
