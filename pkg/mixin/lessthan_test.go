package mixin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mixin"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/runner"
)

func runLessThanProgram(t *testing.T, secretX, secretY uint64, debugChecks bool) map[string]field.F {
	t.Helper()
	r, err := runner.New(4, 1)
	require.NoError(t, err)
	ids := r.PartyIDs()

	xShares := sharedSecret(t, ids, 1, field.New(secretX))
	yShares := sharedSecret(t, ids, 1, field.New(secretY))

	bitLen := field.BitLen()
	pp, err := buildMultiSources(t, r, map[preproc.Kind]int{
		preproc.KindTriple: 4,
		preproc.KindBit:    2*bitLen + 4,
	})
	require.NoError(t, err)

	results, err := r.Run(context.Background(), func(ctx context.Context, c *mpc.Context) (interface{}, error) {
		c.DebugChecks = debugChecks
		x := c.NewShare(xShares[c.Self])
		y := c.NewShare(yShares[c.Self])
		lt, err := mixin.ShareLessThan(c, x, y)
		if err != nil {
			return nil, err
		}
		return lt.Open()
	}, pp)
	require.NoError(t, err)

	out := make(map[string]field.F, len(ids))
	for _, id := range ids {
		out[string(id)] = results[id].(field.F)
	}
	return out
}

func TestShareLessThanWhenTrue(t *testing.T) {
	out := runLessThanProgram(t, 5, 9, false)
	for _, v := range out {
		require.True(t, field.Equal(field.One(), v))
	}
}

func TestShareLessThanWhenFalse(t *testing.T) {
	out := runLessThanProgram(t, 9, 5, false)
	for _, v := range out {
		require.True(t, field.Equal(field.Zero(), v))
	}
}

func TestShareLessThanWhenEqual(t *testing.T) {
	out := runLessThanProgram(t, 7, 7, false)
	for _, v := range out {
		require.True(t, field.Equal(field.Zero(), v))
	}
}

// TestShareLessThanWithDebugChecksEnabled exercises every intermediate
// secret-opening assertion ShareLessThan performs under DebugChecks,
// including the carry-term bound that must accept the possible sum range
// rather than a single bit.
func TestShareLessThanWithDebugChecksEnabled(t *testing.T) {
	out := runLessThanProgram(t, 100, 200, true)
	for _, v := range out {
		require.True(t, field.Equal(field.One(), v))
	}
}
