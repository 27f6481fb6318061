// Package runner provides a single-process multi-party test harness: it
// plays dealer, wires up an in-memory Router between every party, and
// runs one goroutine per party through a program function, grounded on
// the reference implementation's TaskProgramRunner (spec.md §5).
package runner

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/router"
)

// Program is a party's computation for one run, given its Context. Its
// return value is whatever the caller wants to collect via Join.
type Program func(ctx context.Context, mctx *mpc.Context) (interface{}, error)

// Runner drives N parties, each with its own mpc.Context sharing one
// in-memory Network, through one or more Program instances. Every call to
// Add starts a fresh logical computation under its own program id, so
// concurrent Add calls over the same Runner never race on each other's
// messages (pkg/router's pid-scoped inboxes); Join blocks until every
// started program has returned.
type Runner struct {
	n, t   int
	ids    []party.ID
	net    *router.Network
	dealer *preproc.Dealer
	scheme mpc.PointScheme

	mu      sync.Mutex
	nextPID int64
	results []result
	group   *errgroup.Group
}

type result struct {
	id  party.ID
	val interface{}
	err error
}

// New builds a Runner for n parties tolerating t faults.
func New(n, t int) (*Runner, error) {
	if t < 0 || t >= n {
		return nil, fmt.Errorf("runner: threshold %d invalid for %d parties", t, n)
	}
	ids := make([]party.ID, n)
	for i := range ids {
		ids[i] = party.ID(fmt.Sprintf("p%d", i))
	}
	return &Runner{
		n:      n,
		t:      t,
		ids:    ids,
		net:    router.NewNetwork(ids, n*16),
		dealer: preproc.NewDealer(ids, t),
		scheme: mpc.PointSchemeSequential,
	}, nil
}

// PartyIDs returns the runner's fixed party identifiers, p0..p(n-1).
func (r *Runner) PartyIDs() []party.ID { return append([]party.ID(nil), r.ids...) }

// UseFFTPoints switches every subsequent Add call to assign parties their
// evaluation points from field.RootOfUnity's 2-adic subgroup instead of the
// default sequential 1..n, exercising the FFT-friendly point set.
func (r *Runner) UseFFTPoints() { r.scheme = mpc.PointSchemeFFT }

// Preprocess has the Runner's trusted dealer generate count elements of
// kind for every party ahead of a run, returning the per-party Sources to
// compose into a mpc.Context via preproc.NewMultiSource.
func (r *Runner) Preprocess(kind preproc.Kind, count int) (map[party.ID]preproc.Source, error) {
	return r.dealer.Generate(kind, count)
}

// Add starts prog concurrently for every party, each with its own
// mpc.Context over a shared Network and the given per-party preprocessing
// sources. It does not block; call Join to collect results.
func (r *Runner) Add(ctx context.Context, prog Program, pp map[party.ID]preproc.Source) {
	if r.group == nil {
		r.group = new(errgroup.Group)
	}
	r.mu.Lock()
	pid := r.nextPID
	r.nextPID++
	r.mu.Unlock()

	for _, id := range r.ids {
		id := id
		r.group.Go(func() error {
			rt, err := r.net.Router(pid, id)
			if err != nil {
				r.record(id, nil, err)
				return err
			}
			mctx, err := mpc.New(ctx, "runner", id, r.ids, r.t, pid, r.scheme, rt, pp[id])
			if err != nil {
				r.record(id, nil, err)
				return err
			}
			defer mctx.Close()

			val, progErr := prog(ctx, mctx)
			r.record(id, val, progErr)
			return progErr
		})
	}
}

func (r *Runner) record(id party.ID, val interface{}, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result{id: id, val: val, err: err})
}

// Join blocks until every Add'd program has returned, and returns each
// party's result keyed by its ID. The first error encountered (if any) is
// also returned directly, for callers that only care whether the run as a
// whole succeeded.
func (r *Runner) Join() (map[party.ID]interface{}, error) {
	var joinErr error
	if r.group != nil {
		joinErr = r.group.Wait()
		r.group = nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[party.ID]interface{}, len(r.results))
	for _, res := range r.results {
		out[res.id] = res.val
	}
	if joinErr != nil {
		return out, fmt.Errorf("runner: %w", joinErr)
	}
	return out, nil
}

// Run is a convenience wrapper that Adds prog for every party with the
// given preprocessing sources and immediately Joins.
func (r *Runner) Run(ctx context.Context, prog Program, pp map[party.ID]preproc.Source) (map[party.ID]interface{}, error) {
	r.Add(ctx, prog, pp)
	return r.Join()
}
