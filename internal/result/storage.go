package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Layout names the files the test generator leaves in a run directory.
type Layout struct {
	RunLog       string `yaml:"run_log"`
	Manifest     string `yaml:"manifest"`
	Report       string `yaml:"report"`
	Summary      string `yaml:"summary"`
	PrimaryLog   string `yaml:"primary_log"`
	SecondaryLog string `yaml:"secondary_log"`
	Plot         string `yaml:"plot"`
}

func DefaultLayout() Layout {
	return Layout{
		RunLog:       "category_test_run.log",
		Manifest:     "benchmark_files.txt",
		Report:       "category_test_run_results.html",
		Summary:      "summary.json",
		PrimaryLog:   "sikraken.log",
		SecondaryLog: "testcov_call.log",
		Plot:         "sikraken_plot.png",
	}
}

func (l Layout) RunLogPath(runDir string) string { return filepath.Join(runDir, l.RunLog) }
func (l Layout) ManifestPath(runDir string) string { return filepath.Join(runDir, l.Manifest) }
func (l Layout) ReportPath(runDir string) string { return filepath.Join(runDir, l.Report) }
func (l Layout) SummaryPath(runDir string) string { return filepath.Join(runDir, l.Summary) }

func (l Layout) PrimaryLogPath(benchDir string) string { return filepath.Join(benchDir, l.PrimaryLog) }
func (l Layout) SecondaryLogPath(benchDir string) string { return filepath.Join(benchDir, l.SecondaryLog) }
func (l Layout) PlotPath(benchDir string) string { return filepath.Join(benchDir, l.Plot) }

// CoverageDetailPath is the per-benchmark HTML coverage listing, named after
// the benchmark.
func (l Layout) CoverageDetailPath(benchDir, baseName string) string {
	return filepath.Join(benchDir, baseName+".html")
}

// ResolveRunDir returns the absolute, symlink-free form of runDir so that a
// "latest" link resolves to the real run directory.
func ResolveRunDir(runDir string) (string, error) {
	abs, err := filepath.Abs(runDir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	return resolved, nil
}

// RunID is the identifier a run is published under: its directory name.
func RunID(runDir string) string {
	return filepath.Base(filepath.Clean(runDir))
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

func WriteSummary(path string, rep *AggregateReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	return WriteFileAtomic(path, append(data, '\n'))
}

func ReadSummary(path string) (*AggregateReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var rep AggregateReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return &rep, nil
}
