package mpc

import (
	"github.com/luxfi/robustmpc/pkg/field"
)

// Share is this party's point on a degree-t Shamir sharing of an unknown
// secret. It carries its own polynomial degree since some protocols
// (double_share based degree reduction, the products multiplication
// produces before truncation) momentarily hold shares at a non-default
// degree (spec.md §3's DATA MODEL).
type Share struct {
	ctx    *Context
	Value  field.F
	Degree int
}

// NewShare wraps v as a degree-t share under ctx's default threshold.
func (c *Context) NewShare(v field.F) Share {
	return Share{ctx: c, Value: v, Degree: c.T}
}

// NewShareAtDegree wraps v as a share at an explicit degree.
func (c *Context) NewShareAtDegree(v field.F, degree int) Share {
	return Share{ctx: c, Value: v, Degree: degree}
}

// Context returns the Context that produced s.
func (s Share) Context() *Context { return s.ctx }

// Add returns the share of (x+y): additively homomorphic and free of any
// interaction, since every party's share satisfies the same linear
// relation over its evaluation point.
func Add(a, b Share) Share {
	deg := a.Degree
	if b.Degree > deg {
		deg = b.Degree
	}
	return Share{ctx: a.ctx, Value: field.Add(a.Value, b.Value), Degree: deg}
}

// Sub returns the share of (x-y).
func Sub(a, b Share) Share {
	deg := a.Degree
	if b.Degree > deg {
		deg = b.Degree
	}
	return Share{ctx: a.ctx, Value: field.Sub(a.Value, b.Value), Degree: deg}
}

// Neg returns the share of (-x).
func Neg(a Share) Share {
	return Share{ctx: a.ctx, Value: field.Neg(a.Value), Degree: a.Degree}
}

// AddPublic returns the share of (x+k) for a public constant k, applied by
// adding k only at the constant term -- equivalently, every party adds k
// to its own share, since k's "sharing" is the constant polynomial k.
func AddPublic(a Share, k field.F) Share {
	return Share{ctx: a.ctx, Value: field.Add(a.Value, k), Degree: a.Degree}
}

// MulPublic returns the share of (k*x) for a public constant k.
func MulPublic(a Share, k field.F) Share {
	return Share{ctx: a.ctx, Value: field.Mul(a.Value, k), Degree: a.Degree}
}

// Open reveals the secret a degree-t share hides to every party, via
// robust (Berlekamp-Welch) reconstruction that tolerates incorrect shares
// from up to MaxFaults(n, share.Degree) corrupted parties (spec.md §4.3).
func (s Share) Open() (field.F, error) { return s.ctx.OpenSingle(s) }
