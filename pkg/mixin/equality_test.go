package mixin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mixin"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/runner"
)

const equalityTestSecurityParam = 16

func runEqualityProgram(t *testing.T, secretX, secretY uint64) map[party.ID]field.F {
	t.Helper()
	r, err := runner.New(4, 1)
	require.NoError(t, err)
	ids := r.PartyIDs()

	xShares := sharedSecret(t, ids, 1, field.New(secretX))
	yShares := sharedSecret(t, ids, 1, field.New(secretY))

	pp, err := buildMultiSources(t, r, map[preproc.Kind]int{
		preproc.KindTriple: equalityTestSecurityParam*6 + 16,
		preproc.KindBit:    equalityTestSecurityParam * 3,
		preproc.KindRand:   equalityTestSecurityParam * 4,
	})
	require.NoError(t, err)

	results, err := r.Run(context.Background(), func(ctx context.Context, c *mpc.Context) (interface{}, error) {
		x := c.NewShare(xShares[c.Self])
		y := c.NewShare(yShares[c.Self])
		eq, err := mixin.ShareEquality(c, x, y, equalityTestSecurityParam)
		if err != nil {
			return nil, err
		}
		return eq.Open()
	}, pp)
	require.NoError(t, err)

	out := make(map[party.ID]field.F, len(ids))
	for _, id := range ids {
		out[id] = results[id].(field.F)
	}
	return out
}

func TestShareEqualityOnEqualSecrets(t *testing.T) {
	out := runEqualityProgram(t, 777, 777)
	for _, v := range out {
		require.True(t, field.Equal(field.One(), v))
	}
}

func TestShareEqualityOnDistinctSecrets(t *testing.T) {
	out := runEqualityProgram(t, 777, 778)
	for _, v := range out {
		require.True(t, field.Equal(field.Zero(), v))
	}
}
