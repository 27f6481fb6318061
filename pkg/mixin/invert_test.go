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

func TestInvertShareRecoversInverse(t *testing.T) {
	r, err := runner.New(4, 1)
	require.NoError(t, err)
	ids := r.PartyIDs()

	xShares := sharedSecret(t, ids, 1, field.New(11))

	pp, err := buildMultiSources(t, r, map[preproc.Kind]int{preproc.KindRand: 1, preproc.KindTriple: 1})
	require.NoError(t, err)

	results, err := r.Run(context.Background(), func(ctx context.Context, c *mpc.Context) (interface{}, error) {
		x := c.NewShare(xShares[c.Self])
		inv, err := mixin.InvertShare(c, x)
		if err != nil {
			return nil, err
		}
		return inv.Open()
	}, pp)
	require.NoError(t, err)

	want := field.Inv(field.New(11))
	for _, id := range ids {
		got := results[id].(field.F)
		require.True(t, field.Equal(want, got))
	}
}

func TestInvertShareArrayRecoversElementwiseInverses(t *testing.T) {
	r, err := runner.New(4, 1)
	require.NoError(t, err)
	ids := r.PartyIDs()

	xs := []field.F{field.New(3), field.New(5), field.New(9)}
	xShares := sharedVector(t, ids, 1, xs)

	pp, err := buildMultiSources(t, r, map[preproc.Kind]int{preproc.KindRand: len(xs), preproc.KindTriple: len(xs)})
	require.NoError(t, err)

	results, err := r.Run(context.Background(), func(ctx context.Context, c *mpc.Context) (interface{}, error) {
		x := c.NewShareArray(xShares[c.Self])
		inv, err := mixin.InvertShareArray(c, x)
		if err != nil {
			return nil, err
		}
		return inv.Open()
	}, pp)
	require.NoError(t, err)

	for _, id := range ids {
		got := results[id].([]field.F)
		require.Len(t, got, len(xs))
		for i, x := range xs {
			require.True(t, field.Equal(field.Inv(x), got[i]))
		}
	}
}
