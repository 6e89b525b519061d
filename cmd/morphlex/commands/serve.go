package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/morphlex/morphlex/internal/observability"
)

// NewServeCommand starts the diagnostics HTTP server (health, readiness,
// and Prometheus metrics endpoints) and blocks until interrupted.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnostics HTTP server",
		Long: `Start a server exposing /healthz, /readyz, and /metrics, intended for
deployments that scrape morphlex's own edit-volume metrics out of band
rather than invoking morph/gitdiff per call.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "address to listen on")

	return cmd
}

func runServe(addr string) error {
	srv, err := observability.NewDiagnosticsServer(addr)
	if err != nil {
		return fmt.Errorf("start diagnostics server: %w", err)
	}
	defer srv.Close()

	fmt.Fprintf(os.Stdout, "morphlex diagnostics server listening on %s\n", srv.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	return nil
}
