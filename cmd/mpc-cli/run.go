package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/robustmpc/internal/config"
	"github.com/luxfi/robustmpc/internal/logging"
	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/mixin"
	"github.com/luxfi/robustmpc/pkg/mpc"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/preproc"
	"github.com/luxfi/robustmpc/pkg/router"
)

// runSecurityParam fixes the equality program's trial count for the run
// command, matching cmd/mpc-cli's simulate command's simulateSecurityParam.
const runSecurityParam = 16

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return &configError{err}
	}
	nodeID, err := cmd.Flags().GetInt("node-id")
	if err != nil {
		return &configError{err}
	}
	if nodeID < 0 || nodeID >= len(cfg.Parties) {
		return &configError{fmt.Errorf("run: node-id %d out of range for %d parties", nodeID, len(cfg.Parties))}
	}
	cfg.Self = cfg.Parties[nodeID].ID

	log := logging.New(parseLevel(logLevel)).With("node")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := router.NewTCPRouter(cfg.Self, addressOf(cfg, cfg.Self))
	if err != nil {
		return &configError{fmt.Errorf("run: %w", err)}
	}
	defer rt.Close()

	go func() {
		if err := rt.Accept(); err != nil {
			log.Error(ctx, "listener exited", "error", err)
		}
	}()

	for _, p := range cfg.Parties {
		if p.ID == cfg.Self {
			continue
		}
		if err := rt.Dial(p.ID, p.Address); err != nil {
			return &peerUnreachableError{fmt.Errorf("run: %w", err)}
		}
	}

	// A node configured with skip_preprocessing draws from an empty source:
	// with no program configured it only holds its connections open, e.g.
	// while verifying a deployment's peer addresses before an offline
	// preprocessing run populates PreprocDir; a configured program still
	// runs and fails at its first preprocessing draw.
	var source preproc.Source
	if cfg.SkipPreprocessing {
		source = preproc.NewMemorySource(nil)
	} else {
		store := preproc.NewStore(cfg.PreprocDir, len(cfg.Parties), cfg.Threshold)
		defer store.Close()
		source = store
	}

	runID, _ := cfg.Extras["run_id"].(string)
	if runID == "" {
		runID = "run"
	}

	mctx, err := mpc.New(ctx, runID, cfg.Self, cfg.PartyIDs(), cfg.Threshold, 0, mpc.PointSchemeSequential, rt, source)
	if err != nil {
		return &configError{fmt.Errorf("run: %w", err)}
	}
	mctx.DebugChecks = cfg.DebugChecks
	defer mctx.Close()

	log.Info(ctx, "node ready", "self", cfg.Self, "parties", len(cfg.Parties), "threshold", cfg.Threshold)

	program, _ := cfg.Extras["program"].(string)
	if program == "" {
		<-ctx.Done()
		log.Info(ctx, "shutting down")
		return nil
	}

	result, err := dispatchProgram(mctx, program)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	log.Info(ctx, "program completed", "program", program, "result", result)
	return nil
}

// dispatchProgram runs one instance of the named mixin operator, drawing
// its operands from this node's own preprocessing stream as a stand-in for
// wherever a real deployment's secret application input enters (out of
// this runtime's scope; see DESIGN.md).
func dispatchProgram(c *mpc.Context, program string) (field.F, error) {
	table := mixin.Default()
	switch program {
	case "multiply", "equality", "lessthan":
		x, err := drawOperand(c)
		if err != nil {
			return field.F{}, err
		}
		y, err := drawOperand(c)
		if err != nil {
			return field.F{}, err
		}
		switch program {
		case "multiply":
			product, err := table.Multiply(c, x, y)
			if err != nil {
				return field.F{}, err
			}
			return product.Open()
		case "equality":
			eq, err := table.Equality(c, x, y, runSecurityParam)
			if err != nil {
				return field.F{}, err
			}
			return eq.Open()
		default:
			lt, err := table.LessThan(c, x, y)
			if err != nil {
				return field.F{}, err
			}
			return lt.Open()
		}
	default:
		return field.F{}, fmt.Errorf("run: unknown program %q (want multiply, equality, or lessthan)", program)
	}
}

func drawOperand(c *mpc.Context) (mpc.Share, error) {
	e, err := c.Preproc.Next(preproc.KindRand)
	if err != nil {
		return mpc.Share{}, fmt.Errorf("draw operand: %w", err)
	}
	return c.NewShare(e.Values[0]), nil
}

func addressOf(cfg config.Config, id party.ID) string {
	for _, p := range cfg.Parties {
		if p.ID == id {
			return p.Address
		}
	}
	return ""
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
