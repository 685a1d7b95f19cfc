package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/loglens/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [paths...]",
		Short: "Analyze the logs once and serve the report over HTTP",
		Long: `Analyze the given access logs once, then serve the resulting report as
JSON (/api/report, /api/requests, /api/endpoints/top, /api/suspicious) and as
Prometheus gauges (/metrics) until interrupted.`,
		RunE: a.runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default: :8080)")
	cobra.CheckErr(a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr")))
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := a.buildReport(ctx)
	if err != nil {
		return err
	}

	return server.New(rep, a.cfg.Serve.Addr, a.logger).Start(ctx)
}
