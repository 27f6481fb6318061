package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luxfi/robustmpc/internal/config"
	"github.com/luxfi/robustmpc/pkg/preproc"
)

func runGenpreproc(cmd *cobra.Command, args []string) error {
	kindFlag, err := cmd.Flags().GetString("kind")
	if err != nil {
		return err
	}
	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return &configError{err}
	}

	kind := preproc.Kind(kindFlag)
	if preproc.Arity(kind) == 0 {
		return fmt.Errorf("genpreproc: unknown kind %q", kindFlag)
	}

	ids := cfg.PartyIDs()
	dealer := preproc.NewDealer(ids, cfg.Threshold)
	sources, err := dealer.Generate(kind, count)
	if err != nil {
		return fmt.Errorf("genpreproc: %w", err)
	}

	// Each party's store only ever reads its own id-0 file (preproc.Store
	// always opens <kind>_<n>_<t>/0.dat), so every party's share of the
	// batch is written to its own subdirectory of out for distribution.
	n, t := len(ids), cfg.Threshold
	for _, id := range ids {
		var elems []preproc.Element
		for {
			e, err := sources[id].Next(kind)
			if err != nil {
				break
			}
			elems = append(elems, e)
		}
		partyDir := filepath.Join(out, string(id))
		if err := preproc.WriteBatch(partyDir, n, t, kind, 0, elems); err != nil {
			return &configError{fmt.Errorf("genpreproc: write batch for %q: %w", id, err)}
		}
	}

	fmt.Printf("wrote %d %q elements for %d parties to %s\n", count, kind, n, out)
	return nil
}
