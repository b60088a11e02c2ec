package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/sikraken/runreport/internal/metrics"
	"github.com/sikraken/runreport/internal/report"
	"github.com/sikraken/runreport/internal/result"
)

var (
	flagFormat      string
	flagOutput      string
	flagNoSummary   bool
	flagMetricsFile string
	flagWorkers     int
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <run-dir>",
		Short: "Generate the run report from a run directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "html", "output format (html, table, markdown, json)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output path, - for stdout (default <run-dir>/<layout.report> for html, stdout otherwise)")
	cmd.Flags().BoolVar(&flagNoSummary, "no-summary", false, "do not write the JSON summary next to the report")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "write run totals in Prometheus text format to this path")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent benchmark extraction (overrides config)")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	runDir, err := result.ResolveRunDir(args[0])
	if err != nil {
		return err
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}

	rep, err := report.Build(ctx, runDir, &report.Options{Layout: cfg.Layout, Workers: cfg.Workers})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.Render(rep, flagFormat, &buf); err != nil {
		return err
	}

	out := flagOutput
	if out == "" {
		out = "-"
		if flagFormat == "html" {
			out = cfg.Layout.ReportPath(runDir)
		}
	}
	if out == "-" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return err
		}
	} else if err := result.WriteFileAtomic(out, buf.Bytes()); err != nil {
		return err
	}

	if !flagNoSummary {
		if err := result.WriteSummary(cfg.Layout.SummaryPath(runDir), rep); err != nil {
			return err
		}
	}
	if flagMetricsFile != "" {
		if err := metrics.WriteTextfile(flagMetricsFile, rep); err != nil {
			return err
		}
	}

	clog.InfoContextf(ctx, "%d of %d benchmarks reported, %d flagged", len(rep.Rows), rep.BenchmarkCount, rep.Flagged())
	if out != "-" {
		if abs, err := filepath.Abs(out); err == nil {
			out = abs
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s report generated: %s\n", formatLabel(flagFormat), out)
	}
	return nil
}

func formatLabel(format string) string {
	switch format {
	case "html":
		return "HTML"
	case "json":
		return "JSON"
	case "markdown":
		return "Markdown"
	default:
		return "Table"
	}
}
