// Command obbench replays synthetic order flow through orderbook and
// reports latency statistics, the way the teacher's main.go drove
// Engine.Limit in batches and printed grd/stat summaries. Flags and
// subcommand wiring follow VictorVVedtion-perp-dex's cobra CLI style.
package main

import (
	"fmt"
	"os"

	"github.com/itsstevenwal/obcore/cmd/obbench/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
