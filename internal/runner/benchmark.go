package runner

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/chainguard-dev/clog"

	"github.com/sikraken/runreport/internal/fields"
	"github.com/sikraken/runreport/internal/manifest"
	"github.com/sikraken/runreport/internal/result"
)

type ExtractOpts struct {
	RunDir               string
	Layout               result.Layout
	CoverageToolDisabled bool
	// Workers bounds concurrent extraction. Values below 2 extract
	// sequentially.
	Workers int
}

// ExtractBenchmark reads the artifacts of one benchmark. ok is false when the
// benchmark has no artifact directory, in which case it is left out of the
// report.
func ExtractBenchmark(ctx context.Context, id manifest.Identity, opts *ExtractOpts) (*result.BenchmarkResult, bool) {
	log := clog.FromContext(ctx).With("benchmark", id.BaseName)

	dir := id.ArtifactDir(opts.RunDir)
	if dir == "" {
		log.Debug("skipping blank manifest entry")
		return nil, false
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Warn("artifact directory missing, skipping", "dir", dir)
		return nil, false
	}

	res := &result.BenchmarkResult{
		Identity:           id,
		CoveragePrimary:    result.CoverageUnavailable,
		LogPath:            opts.Layout.PrimaryLogPath(dir),
		CoverageDetailPath: opts.Layout.CoverageDetailPath(dir, id.BaseName),
		PlotPath:           opts.Layout.PlotPath(dir),
	}

	if text, ok := readLog(ctx, res.LogPath); ok {
		res.CoveragePrimary = fields.Float(text, fields.CoveragePattern, result.CoverageUnavailable)
		res.TestCount = fields.Int(text, fields.GeneratedPattern, 0)
		res.StackPeakBytes = fields.Int(text, fields.StackPeakPattern, 0)
	}

	if opts.CoverageToolDisabled {
		return res, true
	}

	res.SecondaryLogPath = opts.Layout.SecondaryLogPath(dir)
	secondary := result.SecondaryUnreadable
	if text, ok := readLog(ctx, res.SecondaryLogPath); ok {
		secondary = fields.Float(text, fields.CoveragePattern, result.SecondaryUnreadable)
	}
	res.CoverageSecondary = &secondary
	return res, true
}

func readLog(ctx context.Context, path string) (string, bool) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		clog.DebugContextf(ctx, "log %s not found", path)
		return "", false
	case err != nil:
		clog.WarnContextf(ctx, "reading %s: %v", path, err)
		return "", false
	}
	return string(data), true
}

// ExtractAll extracts every manifest entry and returns the results in
// manifest order, leaving out skipped entries.
func ExtractAll(ctx context.Context, ids []manifest.Identity, opts *ExtractOpts) ([]result.BenchmarkResult, error) {
	slots := make([]*result.BenchmarkResult, len(ids))
	jobs := make([]Job, len(ids))
	for i, id := range ids {
		jobs[i] = func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if res, ok := ExtractBenchmark(ctx, id, opts); ok {
				slots[i] = res
			}
			return nil
		}
	}

	if errs := RunPool(opts.Workers, jobs); len(errs) > 0 {
		return nil, errs[0]
	}

	results := make([]result.BenchmarkResult, 0, len(ids))
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results, nil
}
