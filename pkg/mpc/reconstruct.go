package mpc

import (
	"fmt"

	"github.com/luxfi/robustmpc/internal/wire"
	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/poly"
)

// OpenSingle broadcasts this party's share of s to every party and robustly
// reconstructs the secret from everyone's contribution, tolerating up to
// poly.MaxFaults(c.N, s.Degree) shares that were sent incorrectly by a
// faulty party (spec.md §4.3).
//
// Every party performs the same broadcast-then-decode exchange, so this
// call is symmetric: there is no designated "opener", and any party calling
// OpenSingle for the same share id learns the same value.
func (c *Context) OpenSingle(s Share) (field.F, error) {
	if poly.MaxFaults(c.N, s.Degree) < 0 {
		return field.F{}, fmt.Errorf("mpc: %d parties cannot reconstruct a degree-%d sharing", c.N, s.Degree)
	}

	id := c.manager.allocateID()
	payload, err := s.Value.MarshalBinary()
	if err != nil {
		return field.F{}, fmt.Errorf("mpc: marshal own share: %w", err)
	}
	if err := c.manager.broadcast(id, wire.TagShare, payload); err != nil {
		return field.F{}, fmt.Errorf("mpc: broadcast share: %w", err)
	}

	collected, err := c.manager.waitForSingle(id, c.N)
	if err != nil {
		return field.F{}, err
	}

	xs := make([]field.F, 0, len(collected))
	ys := make([]field.F, 0, len(collected))
	for _, p := range c.Parties {
		v, ok := collected[p]
		if !ok {
			continue
		}
		x, err := c.PointOf(p)
		if err != nil {
			return field.F{}, err
		}
		xs = append(xs, x)
		ys = append(ys, v)
	}

	decoded, err := poly.Decode(xs, ys, s.Degree)
	if err != nil {
		return field.F{}, fmt.Errorf("mpc: reconstruct secret: %w", err)
	}
	return decoded.Eval(field.Zero()), nil
}
