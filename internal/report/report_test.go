package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sikraken/runreport/internal/manifest"
	"github.com/sikraken/runreport/internal/report"
	"github.com/sikraken/runreport/internal/result"
	"github.com/sikraken/runreport/internal/runlog"
)

const runLog = `Command Used to Generate the Category Test run: ./sikraken.sh
Timestamp: 2025_01_01_00_00
Category: chris
Mode: release
Options: -m32
Budget: 900
Cores: 4
Duration: 00:15:00
no_testcov: %s
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// setupRun lays out a run directory with three benchmarks on disk and one
// manifest entry whose directory is missing.
func setupRun(t *testing.T, noTestcov string) string {
	t.Helper()
	runDir := filepath.Join(t.TempDir(), "2025_01_01_00_00")
	writeFile(t, filepath.Join(runDir, "category_test_run.log"), strings.Replace(runLog, "%s", noTestcov, 1))
	writeFile(t, filepath.Join(runDir, "benchmark_files.txt"),
		"/bench/Problem03_label00.c -32\n/bench/gone.c\n/bench/array-1.i\n/bench/loop.c\n")

	writeFile(t, filepath.Join(runDir, "Problem03_label00", "sikraken.log"), "Coverage: 90.00%\nGenerated: 10\nglobal_stack_peak: 1048576\n")
	writeFile(t, filepath.Join(runDir, "Problem03_label00", "testcov_call.log"), "Coverage: 80.00%\n")
	writeFile(t, filepath.Join(runDir, "array-1", "sikraken.log"), "Coverage: 50.50%\nGenerated: 5\n")
	writeFile(t, filepath.Join(runDir, "array-1", "testcov_call.log"), "Coverage: 40.25%\n")
	// loop has no logs at all.
	if err := os.MkdirAll(filepath.Join(runDir, "loop"), 0o755); err != nil {
		t.Fatal(err)
	}
	return runDir
}

func opts() *report.Options {
	return &report.Options{Layout: result.DefaultLayout()}
}

func TestBuild(t *testing.T) {
	runDir := setupRun(t, "0")
	rep, err := report.Build(context.Background(), runDir, opts())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.BenchmarkCount != 4 {
		t.Errorf("benchmark count: got %d, want 4", rep.BenchmarkCount)
	}
	var names []string
	var flagged []bool
	for _, r := range rep.Rows {
		names = append(names, r.BaseName)
		flagged = append(flagged, r.Flagged)
	}
	if diff := cmp.Diff([]string{"Problem03_label00", "array-1", "loop"}, names); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, true}, flagged); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if rep.TotalTestCount != 15 {
		t.Errorf("total tests: got %d, want 15", rep.TotalTestCount)
	}
	// 80 + 40.25 + 0 (missing secondary log)
	if rep.TotalScore != 1.2025 {
		t.Errorf("total score: got %v, want 1.2025", rep.TotalScore)
	}
	if rep.RunID != "2025_01_01_00_00" {
		t.Errorf("run id: got %q", rep.RunID)
	}
}

func TestBuildCoverageToolDisabled(t *testing.T) {
	runDir := setupRun(t, "1")
	rep, err := report.Build(context.Background(), runDir, opts())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// 90 + 50.5 + -1 (primary coverage unavailable for loop)
	if rep.TotalScore != 1.395 {
		t.Errorf("total score: got %v, want 1.395", rep.TotalScore)
	}
	if got := report.ScoreLabel(rep); got != "1.395 (sik)" {
		t.Errorf("score label: got %q", got)
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	runDir := setupRun(t, "0")
	seq, err := report.Build(context.Background(), runDir, opts())
	if err != nil {
		t.Fatal(err)
	}
	o := opts()
	o.Workers = 8
	par, err := report.Build(context.Background(), runDir, o)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("parallel build differs (-seq +par):\n%s", diff)
	}
}

func TestBuildMissingInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, runDir string)
		want   string
	}{
		{"manifest", func(t *testing.T, runDir string) {
			os.Remove(filepath.Join(runDir, "benchmark_files.txt"))
		}, "benchmark_files.txt"},
		{"run log", func(t *testing.T, runDir string) {
			os.Remove(filepath.Join(runDir, "category_test_run.log"))
		}, "category_test_run.log"},
		{"field", func(t *testing.T, runDir string) {
			writeFile(t, filepath.Join(runDir, "category_test_run.log"), strings.Replace(runLog, "Cores: 4\n", "", 1))
		}, "Cores"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runDir := setupRun(t, "0")
			tt.mutate(t, runDir)
			_, err := report.Build(context.Background(), runDir, opts())
			if !errors.Is(err, runlog.ErrMissingInput) {
				t.Fatalf("expected ErrMissingInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestAggregateFlagFlip(t *testing.T) {
	sec := 30.0
	results := []result.BenchmarkResult{
		{Identity: manifest.Normalize("/x/a.c"), CoveragePrimary: 70, CoverageSecondary: &sec, TestCount: 3},
		{Identity: manifest.Normalize("/x/b.c"), CoveragePrimary: 20, CoverageSecondary: &sec},
	}
	enabled := report.Aggregate(&runlog.RunMetadata{}, 5, results)
	disabled := report.Aggregate(&runlog.RunMetadata{CoverageToolDisabled: true}, 5, results)
	if enabled.TotalScore != 0.6 {
		t.Errorf("secondary score: got %v, want 0.6", enabled.TotalScore)
	}
	if disabled.TotalScore != 0.9 {
		t.Errorf("primary score: got %v, want 0.9", disabled.TotalScore)
	}
	if enabled.BenchmarkCount != 5 || enabled.TotalTestCount != 3 {
		t.Errorf("counts: got %d benchmarks, %d tests", enabled.BenchmarkCount, enabled.TotalTestCount)
	}
	if enabled.Flagged() != 1 {
		t.Errorf("flagged: got %d, want 1", enabled.Flagged())
	}
}

func TestAggregateEmpty(t *testing.T) {
	rep := report.Aggregate(&runlog.RunMetadata{}, 2, nil)
	if rep.TotalScore != 0 || rep.TotalTestCount != 0 || len(rep.Rows) != 0 {
		t.Errorf("expected empty totals, got %+v", rep)
	}
	if rep.BenchmarkCount != 2 {
		t.Errorf("benchmark count: got %d, want 2", rep.BenchmarkCount)
	}
}

func TestGenerateHTML(t *testing.T) {
	runDir := setupRun(t, "0")
	var buf bytes.Buffer
	if err := report.Generate(context.Background(), runDir, "html", &buf, opts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()
	wants := []string{
		"<title>chris Test Run Results</title>",
		"Number of Benchmarks: 4",
		"Overall Score Achieved: 1.2025<",
		"Overall Tests Generated: 15",
		`href="file://` + filepath.Join(runDir, "Problem03_label00", "sikraken.log") + `"`,
		`src="` + filepath.Join(runDir, "array-1", "sikraken_plot.png") + `"`,
		`<tr class="flagged">`,
		"<td>40.25%</td>",
		"<td>-1%</td>",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
	if n := strings.Count(out, "<tr"); n != 4 {
		t.Errorf("expected header + 3 rows, got %d <tr> elements", n)
	}
}

func TestGenerateHTMLSecondaryDisabled(t *testing.T) {
	runDir := setupRun(t, "1")
	var buf bytes.Buffer
	if err := report.Generate(context.Background(), runDir, "html", &buf, opts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "testcov_call.log") {
		t.Error("secondary log should not be linked when the tool is disabled")
	}
	if !strings.Contains(out, "1.395 (sik)") {
		t.Error("expected primary-coverage score label")
	}
}

func TestGenerateOtherFormats(t *testing.T) {
	runDir := setupRun(t, "0")
	for _, format := range []string{"table", "markdown"} {
		var buf bytes.Buffer
		if err := report.Generate(context.Background(), runDir, format, &buf, opts()); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		for _, want := range []string{"Problem03_label00", "array-1", "loop", "no tests"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("%s output missing %q", format, want)
			}
		}
		if strings.Contains(buf.String(), "gone") {
			t.Errorf("%s output should not list the skipped benchmark", format)
		}
	}

	var buf bytes.Buffer
	if err := report.Generate(context.Background(), runDir, "json", &buf, opts()); err != nil {
		t.Fatalf("json: %v", err)
	}
	var rep result.AggregateReport
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("decoding json output: %v", err)
	}
	if len(rep.Rows) != 3 || rep.TotalTestCount != 15 {
		t.Errorf("json output: got %d rows, %d tests", len(rep.Rows), rep.TotalTestCount)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	err := report.Render(&result.AggregateReport{}, "pdf", &bytes.Buffer{})
	if err == nil {
		t.Error("expected error for unknown format")
	}
}
