package cmd

import (
	"net/http"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/itsstevenwal/obcore/internal/telemetry"
)

func newServeCmd(logger log.Logger) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve this process's Prometheus /metrics endpoint (metrics of a separate replay process are not included)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Info("serving metrics", "addr", addr)
			http.Handle("/metrics", telemetry.Handler())
			return http.ListenAndServe(addr, nil)
		},
	}

	c.Flags().StringVar(&addr, "addr", ":9090", "address to serve /metrics on")
	return c
}
