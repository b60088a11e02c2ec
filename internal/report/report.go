package report

import (
	"context"
	"fmt"
	"io"

	"github.com/chainguard-dev/clog"

	"github.com/sikraken/runreport/internal/manifest"
	"github.com/sikraken/runreport/internal/result"
	"github.com/sikraken/runreport/internal/runlog"
	"github.com/sikraken/runreport/internal/runner"
)

type Options struct {
	Layout  result.Layout
	Workers int
}

// Build runs the extraction pipeline over runDir and aggregates the results.
// A missing manifest, run log or run log field aborts with a
// *runlog.MissingInputError.
func Build(ctx context.Context, runDir string, opts *Options) (*result.AggregateReport, error) {
	manifestPath := opts.Layout.ManifestPath(runDir)
	if err := runlog.RequireFile(manifestPath); err != nil {
		return nil, err
	}
	meta, err := runlog.ParseFile(opts.Layout.RunLogPath(runDir))
	if err != nil {
		return nil, err
	}
	ids, err := manifest.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	clog.InfoContextf(ctx, "extracting %d benchmarks for category %s", len(ids), meta.Category)

	results, err := runner.ExtractAll(ctx, ids, &runner.ExtractOpts{
		RunDir:               runDir,
		Layout:               opts.Layout,
		CoverageToolDisabled: meta.CoverageToolDisabled,
		Workers:              opts.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting benchmarks: %w", err)
	}

	rep := Aggregate(meta, len(ids), results)
	rep.RunDir = runDir
	rep.RunID = result.RunID(runDir)
	return rep, nil
}

// Aggregate folds extracted results into run totals. benchmarkCount is the
// manifest size, skipped entries included.
//
// TotalScore is the sum of the applicable coverage percentages divided by
// 100. It is not normalized by the number of benchmarks; consumers compare it
// against the category maximum.
func Aggregate(meta *runlog.RunMetadata, benchmarkCount int, results []result.BenchmarkResult) *result.AggregateReport {
	rep := &result.AggregateReport{
		Metadata:       *meta,
		BenchmarkCount: benchmarkCount,
		Rows:           make([]result.Row, 0, len(results)),
	}
	var coverage float64
	for _, r := range results {
		rep.TotalTestCount += r.TestCount
		if meta.CoverageToolDisabled {
			coverage += r.CoveragePrimary
		} else if sec, ok := r.Secondary(); ok {
			coverage += sec
		}
		rep.Rows = append(rep.Rows, result.Row{
			BenchmarkResult: r,
			Flagged:         r.TestCount == 0,
		})
	}
	rep.TotalScore = coverage / 100
	return rep
}

// Generate builds the report for runDir and renders it to w.
func Generate(ctx context.Context, runDir, format string, w io.Writer, opts *Options) error {
	rep, err := Build(ctx, runDir, opts)
	if err != nil {
		return err
	}
	return Render(rep, format, w)
}
