package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atikulmunna/loglens/internal/aggregator"
	"github.com/atikulmunna/loglens/internal/output"
	"github.com/atikulmunna/loglens/internal/parser"
	"github.com/atikulmunna/loglens/internal/pipeline"
	"github.com/atikulmunna/loglens/internal/report"
	"github.com/atikulmunna/loglens/internal/source"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Print the report and save it as CSV (default command)",
		Long: `Read the given access logs (or the configured input) once, print the
report to the terminal, then write the CSV report to --output.

Malformed lines are skipped and counted. An unreadable input aborts the run.`,
		RunE: a.runAnalyze,
	}
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := a.buildReport(ctx)
	if err != nil {
		return err
	}

	renderer, err := output.NewRenderer(a.cfg.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := renderer.Render(rep); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if a.cfg.Output == "" {
		return nil
	}
	if err := output.SaveCSV(a.cfg.Output, rep); err != nil {
		return err
	}
	a.logger.Info("report saved", zap.String("path", a.cfg.Output))
	return nil
}

// buildReport runs one aggregation pass over the configured inputs.
func (a *app) buildReport(ctx context.Context) (report.Report, error) {
	paths, err := source.Expand(a.cfg.Inputs)
	if err != nil {
		return report.Report{}, err
	}

	p, err := parser.New(a.cfg.Parser, a.cfg.Pattern)
	if err != nil {
		return report.Report{}, err
	}

	agg := aggregator.New(
		aggregator.WithParser(p),
		aggregator.WithMarker(a.cfg.Marker),
		aggregator.WithLogger(a.logger),
	)

	if a.cfg.Pipeline {
		err = pipeline.Run(ctx, paths, agg, a.cfg.Buffer)
	} else {
		err = pipeline.Sequential(ctx, paths, agg)
	}
	if err != nil {
		return report.Report{}, err
	}

	res := agg.Result()
	if res.Skipped > 0 {
		fields := []zap.Field{zap.Int("skipped", res.Skipped), zap.Int("parsed", res.Parsed)}
		if len(res.Malformed) > 0 {
			fields = append(fields, zap.String("first", res.Malformed[0].Error()))
		}
		a.logger.Warn("skipped malformed lines", fields...)
	}
	a.logger.Debug("aggregation complete",
		zap.Strings("sources", paths),
		zap.Int("addresses", len(res.Requests)),
		zap.Int("endpoints", len(res.Endpoints)),
	)

	return report.Build(res, report.Options{
		Threshold: a.cfg.Threshold,
		Marker:    a.cfg.Marker,
		Sources:   paths,
	}), nil
}
