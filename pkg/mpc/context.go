// Package mpc implements the per-party execution context a program runs
// under: share values, deferred opens, the background receive loop that
// routes incoming messages to the open they answer, and robust
// reconstruction (spec.md §3-§4).
package mpc

import (
	"context"
	"fmt"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/field/evalpoint"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/router"
)

// PointScheme selects how a Context assigns party evaluation points
// (spec.md §3's EvalPoint set): the default sequential points 1..n, or
// the FFT-friendly powers of a 2-adic root of unity.
type PointScheme int

const (
	// PointSchemeSequential assigns party i the point i+1.
	PointSchemeSequential PointScheme = iota
	// PointSchemeFFT assigns party i the point ω^i for a primitive n-th
	// root of unity ω (field.RootOfUnity), requiring n to be a power of
	// two within the field's 2-adic subgroup.
	PointSchemeFFT
)

// Context is the handle a program runs against: it names the party
// running it, the other parties in the computation, the Router used to
// reach them, the preprocessing Source backing the mixin layer, and the
// one background receive loop multiplexing every in-flight open.
//
// A Context is created once per party per program instance (spec.md §5's
// ProgramRunner.Add), used for the program's full lifetime, and must be
// closed via Close to stop its receive loop. PID identifies the program
// instance it belongs to: every Context spun up by one ProgramRunner.Add
// call shares the same PID, which the Router uses (where the
// implementation supports it, e.g. SimpleRouter) to keep concurrent
// programs over one Router from racing on each other's messages. Sid
// names the broader deployment the program runs as part of.
type Context struct {
	// Sid names the overall deployment/run this Context belongs to. It is
	// stored for callers only: message routing, preprocessing and logging
	// do not read it (spec.md §3's Context.sid).
	Sid     string
	Self    party.ID
	Parties party.IDSlice
	N, T    int
	PID     int64
	Points  []field.F

	Router  router.Router
	Preproc preproc.Source

	// DebugChecks enables the additional secret-opening sanity assertions
	// LessThan's source protocol performs at development time. They leak
	// intermediate values and must stay off in any real deployment; see
	// DESIGN.md.
	DebugChecks bool

	manager *shareManager
}

// New builds a Context for self among parties under session sid and
// program pid, using r to exchange messages and pp to draw preprocessing
// elements. t is the reconstruction threshold: every Share defaults to
// degree t unless constructed otherwise. scheme selects the evaluation
// point assignment.
func New(ctx context.Context, sid string, self party.ID, parties []party.ID, t int, pid int64, scheme PointScheme, r router.Router, pp preproc.Source) (*Context, error) {
	sorted := party.IDSlice(append([]party.ID(nil), parties...)).Sorted()
	if sorted.IndexOf(self) < 0 {
		return nil, fmt.Errorf("mpc: %q is not among the configured parties", self)
	}
	n := len(sorted)
	if t < 0 || t > n-1 {
		return nil, fmt.Errorf("mpc: threshold %d invalid for %d parties", t, n)
	}

	points, err := pointsForScheme(scheme, n)
	if err != nil {
		return nil, fmt.Errorf("mpc: %w", err)
	}

	c := &Context{
		Sid:     sid,
		Self:    self,
		Parties: sorted,
		N:       n,
		T:       t,
		PID:     pid,
		Points:  points,
		Router:  r,
		Preproc: pp,
	}
	c.manager = newShareManager(ctx, r, self, sorted)
	c.manager.start()
	return c, nil
}

func pointsForScheme(scheme PointScheme, n int) ([]field.F, error) {
	switch scheme {
	case PointSchemeFFT:
		return evalpoint.FFTFriendly(n)
	case PointSchemeSequential:
		return evalpoint.Sequential(n), nil
	default:
		return nil, fmt.Errorf("unknown point scheme %d", scheme)
	}
}

// Close stops the context's background receive loop. Programs should call
// this once their computation is done; OpenSingle/BatchReconstruct
// calls in flight at the time of Close return BackgroundLoopExitedError.
func (c *Context) Close() {
	c.manager.stop()
}

// SelfIndex returns self's position within the sorted party list, which is
// also the index of self's evaluation point in Points.
func (c *Context) SelfIndex() int {
	return c.Parties.IndexOf(c.Self)
}

// PointOf returns the evaluation point assigned to id, the same point
// every party uses to compute id's coordinate of any polynomial it holds
// a share of (spec.md §3's deterministic share-id assignment).
func (c *Context) PointOf(id party.ID) (field.F, error) {
	i := c.Parties.IndexOf(id)
	if i < 0 {
		return field.F{}, fmt.Errorf("mpc: unknown party %q", id)
	}
	return c.Points[i], nil
}
