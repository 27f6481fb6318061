// Command mpc-cli runs and exercises the secure multi-party runtime: it
// starts a single configured node, or drives a local multi-party
// simulation and preprocessing generation for development.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "mpc-cli",
		Short: "Run and simulate the secure multi-party computation runtime",
		Long: `mpc-cli operates the secure multi-party computation runtime: it runs a
single configured party against its peers, or drives a local in-process
simulation and offline preprocessing generation for development.`,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run this node against its configured peers",
		RunE:  runRun,
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run a program across an in-process simulation of every party",
		RunE:  runSimulate,
	}

	genpreprocCmd = &cobra.Command{
		Use:   "genpreproc",
		Short: "Generate an offline batch of preprocessing elements",
		RunE:  runGenpreproc,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./mpc-config.yaml", "Deployment configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	runCmd.Flags().Int("node-id", -1, "Index of this node's party within the configuration (required)")
	runCmd.MarkFlagRequired("node-id")

	simulateCmd.Flags().Int("parties", 4, "Number of simulated parties")
	simulateCmd.Flags().Int("threshold", 1, "Fault threshold among the simulated parties")
	simulateCmd.Flags().String("program", "multiply", "Program to run: multiply, equality, lessthan")

	genpreprocCmd.Flags().String("kind", "triple", "Preprocessing element kind: zero, rand, bit, triple, cube, double_share")
	genpreprocCmd.Flags().Int("count", 1000, "Number of elements to generate per party")
	genpreprocCmd.Flags().String("out", "./preproc-data", "Output directory for the generated store")

	rootCmd.AddCommand(runCmd, simulateCmd, genpreprocCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
