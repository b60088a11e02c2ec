package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sikraken/runreport/internal/result"
)

var tableHeaders = []string{"Benchmark", "Tests", "Coverage", "Secondary", "Stack (MB)", "Flag"}

func newTable(w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(tableHeaders),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func writeTable(rep *result.AggregateReport, w io.Writer) error {
	m := rep.Metadata
	fmt.Fprintf(w, "Category:   %s (%s)\n", m.Category, m.Timestamp)
	fmt.Fprintf(w, "Benchmarks: %d (%d reported)\n", rep.BenchmarkCount, len(rep.Rows))
	fmt.Fprintf(w, "Tests:      %d\n", rep.TotalTestCount)
	fmt.Fprintf(w, "Score:      %s\n\n", ScoreLabel(rep))

	table := newTable(w)
	for _, r := range rep.Rows {
		flag := ""
		if r.Flagged {
			flag = "no tests"
		}
		row := []string{
			r.Name,
			strconv.FormatInt(r.TestCount, 10),
			formatNumber(r.CoveragePrimary) + "%",
			formatSecondary(r.BenchmarkResult),
			strconv.FormatFloat(r.StackPeakMiB(), 'f', 2, 64),
			flag,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("appending row %s: %w", r.Name, err)
		}
	}
	return table.Render()
}
