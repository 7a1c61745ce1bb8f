package cmd

import (
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the obbench command tree: replay (the latency
// benchmark) and serve (exposes this process's /metrics; it runs no replay).
func NewRootCmd() *cobra.Command {
	logger := log.NewLogger(os.Stderr)

	root := &cobra.Command{
		Use:   "obbench",
		Short: "Replay synthetic order flow through obcore's matching engine",
		Long: `obbench drives a single-symbol order book with generated Insert and
Cancel operations and reports latency and throughput statistics.`,
	}

	root.AddCommand(newReplayCmd(logger))
	root.AddCommand(newServeCmd(logger))
	return root
}
