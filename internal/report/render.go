package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/sikraken/runreport/internal/result"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"fileURL":   fileURL,
	"num":       formatNumber,
	"score":     ScoreLabel,
	"secondary": formatSecondary,
}).ParseFS(templateFS, "templates/report.html.tmpl"))

var Formats = []string{"html", "table", "markdown", "json"}

// Render writes rep to w in the given format.
func Render(rep *result.AggregateReport, format string, w io.Writer) error {
	switch format {
	case "html":
		return writeHTML(rep, w)
	case "table":
		return writeTable(rep, w)
	case "markdown":
		return writeMarkdown(rep, w)
	case "json":
		return writeJSON(rep, w)
	default:
		return fmt.Errorf("unknown format %q (want one of %v)", format, Formats)
	}
}

// ScoreLabel formats the overall score, marking scores computed from the
// test generator's own coverage figure.
func ScoreLabel(rep *result.AggregateReport) string {
	s := formatNumber(rep.TotalScore)
	if rep.Metadata.CoverageToolDisabled {
		s += " (sik)"
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSecondary(r result.BenchmarkResult) string {
	if sec, ok := r.Secondary(); ok {
		return formatNumber(sec) + "%"
	}
	return "N/A"
}

func fileURL(path string) template.URL {
	return template.URL("file://" + path)
}

func writeHTML(rep *result.AggregateReport, w io.Writer) error {
	return htmlTemplate.Execute(w, rep)
}

func writeMarkdown(rep *result.AggregateReport, w io.Writer) error {
	m := rep.Metadata
	fmt.Fprintf(w, "# %s Test Run Results\n\n", m.Category)
	fmt.Fprintf(w, "- Command Used: %s\n", m.Command)
	fmt.Fprintf(w, "- Timestamp: %s\n", m.Timestamp)
	fmt.Fprintf(w, "- Budget: %s\n", m.Budget)
	fmt.Fprintf(w, "- Mode: %s\n", m.Mode)
	fmt.Fprintf(w, "- Options: %s\n", m.Options)
	fmt.Fprintf(w, "- Number of Benchmarks: %d\n", rep.BenchmarkCount)
	fmt.Fprintf(w, "- Run time: %s\n", m.Duration)
	fmt.Fprintf(w, "- Cores: %s\n", m.Cores)
	fmt.Fprintf(w, "- Overall Score Achieved: %s\n", ScoreLabel(rep))
	fmt.Fprintf(w, "- Overall Tests Generated: %d\n\n", rep.TotalTestCount)
	fmt.Fprintln(w, "| Benchmark | Tests | Coverage | Secondary Coverage | Peak Global Stack (MB) | |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, r := range rep.Rows {
		flag := ""
		if r.Flagged {
			flag = "no tests"
		}
		fmt.Fprintf(w, "| %s | %d | %s%% | %s | %s | %s |\n",
			r.Name, r.TestCount, formatNumber(r.CoveragePrimary), formatSecondary(r.BenchmarkResult),
			formatNumber(r.StackPeakMiB()), flag)
	}
	return nil
}

func writeJSON(rep *result.AggregateReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
