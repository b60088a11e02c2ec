package result

import (
	"github.com/sikraken/runreport/internal/manifest"
	"github.com/sikraken/runreport/internal/runlog"
)

// Sentinels for metrics that could not be read.
const (
	CoverageUnavailable = -1.0
	SecondaryUnreadable = 0.0
)

const bytesPerMiB = 1 << 20

// BenchmarkResult holds the metrics extracted for one benchmark. A nil
// CoverageSecondary means the secondary tool was disabled for the run.
type BenchmarkResult struct {
	manifest.Identity
	CoveragePrimary    float64  `json:"coverage_primary"`
	CoverageSecondary  *float64 `json:"coverage_secondary"`
	TestCount          int64    `json:"test_count"`
	StackPeakBytes     int64    `json:"stack_peak_bytes"`
	LogPath            string   `json:"log_path"`
	CoverageDetailPath string   `json:"coverage_detail_path"`
	PlotPath           string   `json:"plot_path"`
	SecondaryLogPath   string   `json:"secondary_log_path,omitempty"`
}

// StackPeakMiB reports the peak global stack in mebibytes.
func (r BenchmarkResult) StackPeakMiB() float64 {
	return float64(r.StackPeakBytes) / bytesPerMiB
}

// Secondary returns the secondary coverage and whether it applies to the run.
func (r BenchmarkResult) Secondary() (float64, bool) {
	if r.CoverageSecondary == nil {
		return 0, false
	}
	return *r.CoverageSecondary, true
}

// Row is a BenchmarkResult as it appears in the report.
type Row struct {
	BenchmarkResult
	// Flagged marks benchmarks for which no tests were generated.
	Flagged bool `json:"flagged"`
}

// AggregateReport is the run-level summary handed to a renderer.
type AggregateReport struct {
	RunID          string             `json:"run_id"`
	RunDir         string             `json:"run_dir"`
	Metadata       runlog.RunMetadata `json:"metadata"`
	BenchmarkCount int                `json:"benchmark_count"`
	Rows           []Row              `json:"results"`
	TotalTestCount int64              `json:"total_test_count"`
	TotalScore     float64            `json:"total_score"`
}

// Flagged counts rows with no generated tests.
func (r *AggregateReport) Flagged() int {
	n := 0
	for _, row := range r.Rows {
		if row.Flagged {
			n++
		}
	}
	return n
}
