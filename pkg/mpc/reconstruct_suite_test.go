package mpc_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/poly"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/router"
)

// idsOfSize builds a fixed list of n party ids, p0..p(n-1).
func idsOfSize(n int) []party.ID {
	ids := make([]party.ID, n)
	for i := range ids {
		ids[i] = party.ID(fmt.Sprintf("p%d", i))
	}
	return ids
}

// corruptedSharing returns a degree-t sharing of secret across n parties, with the
// last numFaults shares perturbed away from their honest value.
func corruptedSharing(ids []party.ID, ctxs map[party.ID]*mpc.Context, degree int, secret field.F, numFaults int) map[party.ID]mpc.Share {
	p := poly.Random(degree, secret)
	out := make(map[party.ID]mpc.Share, len(ids))
	for i, id := range ids {
		x, err := ctxs[id].PointOf(id)
		Expect(err).NotTo(HaveOccurred())
		v := p.Eval(x)
		if i >= len(ids)-numFaults {
			v = field.Add(v, field.One())
		}
		out[id] = ctxs[id].NewShare(v)
	}
	return out
}

// openAll runs OpenSingle concurrently for every party and collects every
// resulting value (or the first error encountered).
func openAll(ids []party.ID, shares map[party.ID]mpc.Share) ([]field.F, error) {
	type result struct {
		v   field.F
		err error
	}
	results := make(chan result, len(ids))
	for _, id := range ids {
		id := id
		go func() {
			v, err := shares[id].Open()
			results <- result{v: v, err: err}
		}()
	}
	vals := make([]field.F, 0, len(ids))
	var firstErr error
	for range ids {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		vals = append(vals, r.v)
	}
	return vals, firstErr
}

var _ = Describe("robust single-share reconstruction", func() {
	var (
		ids  []party.ID
		ctxs map[party.ID]*mpc.Context
	)

	// buildCtxs wires one in-memory Network and one Context per party,
	// registering cleanup against ginkgo's DeferCleanup rather than a
	// testing.T, since this spec has no *testing.T of its own.
	buildCtxs := func(n int) {
		ids = idsOfSize(n)
		net := router.NewNetwork(ids, n*4)
		ctxs = make(map[party.ID]*mpc.Context, n)
		for _, id := range ids {
			r, err := net.Router(0, id)
			Expect(err).NotTo(HaveOccurred())
			c, err := mpc.New(context.Background(), "test", id, ids, 1, 0, mpc.PointSchemeSequential, r, preproc.NewMemorySource(nil))
			Expect(err).NotTo(HaveOccurred())
			ctxs[id] = c
			DeferCleanup(c.Close)
		}
	}

	Context("when the party count exceeds the fault budget", func() {
		It("recovers the secret despite one corrupted share", func() {
			// degree t=1, n=5 parties: MaxFaults(5,1) = floor((5-1-1)/2) = 1.
			buildCtxs(5)
			secret := field.New(2026)
			shares := corruptedSharing(ids, ctxs, 1, secret, 1)

			vals, err := openAll(ids, shares)
			Expect(err).NotTo(HaveOccurred())
			for _, v := range vals {
				Expect(field.Equal(v, secret)).To(BeTrue())
			}
		})
	})

	Context("when the party count leaves no fault budget", func() {
		It("fails to reconstruct in the presence of a single corrupted share", func() {
			// degree t=1, n=3 parties: MaxFaults(3,1) = floor((3-1-1)/2) = 0.
			buildCtxs(3)
			secret := field.New(2026)
			shares := corruptedSharing(ids, ctxs, 1, secret, 1)

			vals, err := openAll(ids, shares)
			if err == nil {
				for _, v := range vals {
					Expect(field.Equal(v, secret)).To(BeFalse())
				}
			}
		})
	})
})
