package mpc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/poly"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/router"
)

func buildContexts(t *testing.T, ids []party.ID, degree int) map[party.ID]*mpc.Context {
	t.Helper()
	net := router.NewNetwork(ids, len(ids)*4)
	ctxs := make(map[party.ID]*mpc.Context, len(ids))
	for _, id := range ids {
		r, err := net.Router(0, id)
		require.NoError(t, err)
		c, err := mpc.New(context.Background(), "test", id, ids, degree, 0, mpc.PointSchemeSequential, r, preproc.NewMemorySource(nil))
		require.NoError(t, err)
		ctxs[id] = c
		t.Cleanup(c.Close)
	}
	return ctxs
}

func shareSecret(t *testing.T, ctxs map[party.ID]*mpc.Context, ids []party.ID, degree int, secret field.F) map[party.ID]mpc.Share {
	t.Helper()
	p := poly.Random(degree, secret)
	out := make(map[party.ID]mpc.Share, len(ids))
	for _, id := range ids {
		x, err := ctxs[id].PointOf(id)
		require.NoError(t, err)
		out[id] = ctxs[id].NewShare(p.Eval(x))
	}
	return out
}

func TestOpenSingleHonestParties(t *testing.T) {
	ids := []party.ID{"p0", "p1", "p2", "p3"}
	degree := 1
	ctxs := buildContexts(t, ids, degree)
	secret := field.New(777)
	shares := shareSecret(t, ctxs, ids, degree, secret)

	results := make(chan field.F, len(ids))
	errs := make(chan error, len(ids))
	for _, id := range ids {
		id := id
		go func() {
			v, err := shares[id].Open()
			if err != nil {
				errs <- err
				return
			}
			results <- v
		}()
	}

	for range ids {
		select {
		case err := <-errs:
			t.Fatalf("open failed: %v", err)
		case v := <-results:
			require.True(t, field.Equal(secret, v))
		}
	}
}

func TestOpenSingleToleratesOneFaultyShare(t *testing.T) {
	ids := []party.ID{"p0", "p1", "p2", "p3", "p4", "p5", "p6"}
	degree := 2
	ctxs := buildContexts(t, ids, degree)
	secret := field.New(31337)
	shares := shareSecret(t, ctxs, ids, degree, secret)

	// Corrupt one party's share before it broadcasts.
	bad := shares["p3"]
	bad.Value = field.Add(bad.Value, field.One())
	shares["p3"] = bad

	results := make(chan field.F, len(ids))
	errs := make(chan error, len(ids))
	for _, id := range ids {
		id := id
		go func() {
			v, err := shares[id].Open()
			if err != nil {
				errs <- err
				return
			}
			results <- v
		}()
	}

	for range ids {
		select {
		case err := <-errs:
			t.Fatalf("open failed: %v", err)
		case v := <-results:
			require.True(t, field.Equal(secret, v))
		}
	}
}

func TestBatchReconstruct(t *testing.T) {
	ids := []party.ID{"p0", "p1", "p2", "p3"}
	degree := 1
	ctxs := buildContexts(t, ids, degree)

	secrets := []field.F{field.New(1), field.New(2), field.New(3)}
	polys := make([]poly.Polynomial, len(secrets))
	for i, s := range secrets {
		polys[i] = poly.Random(degree, s)
	}

	arrays := make(map[party.ID]mpc.ShareArray, len(ids))
	for _, id := range ids {
		x, err := ctxs[id].PointOf(id)
		require.NoError(t, err)
		vs := make([]field.F, len(secrets))
		for i, p := range polys {
			vs[i] = p.Eval(x)
		}
		arrays[id] = ctxs[id].NewShareArray(vs)
	}

	type result struct {
		vals []field.F
		err  error
	}
	results := make(chan result, len(ids))
	for _, id := range ids {
		id := id
		go func() {
			v, err := arrays[id].Open()
			results <- result{vals: v, err: err}
		}()
	}

	for range ids {
		r := <-results
		require.NoError(t, r.err)
		require.Len(t, r.vals, len(secrets))
		for i, s := range secrets {
			require.True(t, field.Equal(s, r.vals[i]))
		}
	}
}

func TestBatchReconstructToleratesFaultyShare(t *testing.T) {
	ids := []party.ID{"p0", "p1", "p2", "p3", "p4", "p5", "p6"}
	degree := 2
	ctxs := buildContexts(t, ids, degree)

	secrets := []field.F{field.New(10), field.New(20), field.New(30)}
	polys := make([]poly.Polynomial, len(secrets))
	for i, s := range secrets {
		polys[i] = poly.Random(degree, s)
	}

	arrays := make(map[party.ID]mpc.ShareArray, len(ids))
	for _, id := range ids {
		x, err := ctxs[id].PointOf(id)
		require.NoError(t, err)
		vs := make([]field.F, len(secrets))
		for i, p := range polys {
			vs[i] = p.Eval(x)
		}
		arrays[id] = ctxs[id].NewShareArray(vs)
	}

	// Corrupt every element of one party's array before anybody opens. No
	// single party's vector is trusted more than any other's, so every
	// honest party must still independently decode the right secrets.
	bad := arrays["p4"]
	for i := range bad.Values {
		bad.Values[i] = field.Add(bad.Values[i], field.One())
	}
	arrays["p4"] = bad

	type result struct {
		vals []field.F
		err  error
	}
	results := make(chan result, len(ids))
	for _, id := range ids {
		id := id
		go func() {
			v, err := arrays[id].Open()
			results <- result{vals: v, err: err}
		}()
	}

	for range ids {
		r := <-results
		require.NoError(t, r.err)
		require.Len(t, r.vals, len(secrets))
		for i, s := range secrets {
			require.True(t, field.Equal(s, r.vals[i]))
		}
	}
}
