package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/field/evalpoint"
	"github.com/luxfi/robustmpc/pkg/mixin"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/poly"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/runner"
)

// simulateSecurityParam fixes the number of independent trials the
// simulated equality program runs; it is not exposed as a flag since the
// simulate command exists to exercise a program end to end, not to tune it.
const simulateSecurityParam = 16

func runSimulate(cmd *cobra.Command, args []string) error {
	n, err := cmd.Flags().GetInt("parties")
	if err != nil {
		return err
	}
	t, err := cmd.Flags().GetInt("threshold")
	if err != nil {
		return err
	}
	program, err := cmd.Flags().GetString("program")
	if err != nil {
		return err
	}

	r, err := runner.New(n, t)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	ids := r.PartyIDs()
	table := mixin.Default()

	switch program {
	case "multiply":
		pp, err := buildSources(r, map[preproc.Kind]int{preproc.KindTriple: 1})
		if err != nil {
			return err
		}
		xShares := dealShares(ids, t, 6)
		yShares := dealShares(ids, t, 7)
		return runAndReport(r, pp, func(ctx context.Context, mctx *mpc.Context) (interface{}, error) {
			x := mctx.NewShare(xShares[mctx.Self])
			y := mctx.NewShare(yShares[mctx.Self])
			product, err := table.Multiply(mctx, x, y)
			if err != nil {
				return nil, err
			}
			return product.Open()
		})

	case "equality":
		pp, err := buildSources(r, map[preproc.Kind]int{
			preproc.KindTriple: simulateSecurityParam*6 + 16,
			preproc.KindBit:    simulateSecurityParam * 3,
			preproc.KindRand:   simulateSecurityParam * 4,
		})
		if err != nil {
			return err
		}
		xShares := dealShares(ids, t, 41)
		yShares := dealShares(ids, t, 41)
		return runAndReport(r, pp, func(ctx context.Context, mctx *mpc.Context) (interface{}, error) {
			x := mctx.NewShare(xShares[mctx.Self])
			y := mctx.NewShare(yShares[mctx.Self])
			eq, err := table.Equality(mctx, x, y, simulateSecurityParam)
			if err != nil {
				return nil, err
			}
			return eq.Open()
		})

	case "lessthan":
		bitLen := field.BitLen()
		pp, err := buildSources(r, map[preproc.Kind]int{
			preproc.KindTriple: 4,
			preproc.KindBit:    2*bitLen + 4,
		})
		if err != nil {
			return err
		}
		xShares := dealShares(ids, t, 7)
		yShares := dealShares(ids, t, 9)
		return runAndReport(r, pp, func(ctx context.Context, mctx *mpc.Context) (interface{}, error) {
			x := mctx.NewShare(xShares[mctx.Self])
			y := mctx.NewShare(yShares[mctx.Self])
			lt, err := table.LessThan(mctx, x, y)
			if err != nil {
				return nil, err
			}
			return lt.Open()
		})

	default:
		return fmt.Errorf("simulate: unknown program %q (want multiply, equality, or lessthan)", program)
	}
}

func buildSources(r *runner.Runner, kinds map[preproc.Kind]int) (map[party.ID]preproc.Source, error) {
	byParty := make(map[party.ID]map[preproc.Kind]preproc.Source)
	for _, id := range r.PartyIDs() {
		byParty[id] = make(map[preproc.Kind]preproc.Source)
	}
	for kind, count := range kinds {
		sources, err := r.Preprocess(kind, count)
		if err != nil {
			return nil, fmt.Errorf("simulate: generate preprocessing for %q: %w", kind, err)
		}
		for id, s := range sources {
			byParty[id][kind] = s
		}
	}
	out := make(map[party.ID]preproc.Source, len(byParty))
	for id, m := range byParty {
		out[id] = preproc.NewMultiSource(m)
	}
	return out, nil
}

// dealShares plays the trusted dealer for the simulate command's fixed
// sample inputs, splitting secret into a degree-t Shamir sharing across
// ids the same way pkg/runner's own tests do.
func dealShares(ids []party.ID, t int, secret uint64) map[party.ID]field.F {
	p := poly.Random(t, field.New(secret))
	points := evalpoint.Sequential(len(ids))
	out := make(map[party.ID]field.F, len(ids))
	for i, id := range ids {
		out[id] = p.Eval(points[i])
	}
	return out
}

func runAndReport(r *runner.Runner, pp map[party.ID]preproc.Source, prog runner.Program) error {
	results, err := r.Run(context.Background(), prog, pp)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	for _, id := range r.PartyIDs() {
		fmt.Printf("%s: %v\n", id, results[id])
	}
	return nil
}
