package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/prompteval/driftreport/internal/aggregate"
	"github.com/prompteval/driftreport/internal/pipeline"
	"github.com/prompteval/driftreport/internal/records"
	"github.com/prompteval/driftreport/internal/report"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// printSummary writes the post-publish console recap: where the report
// landed, the headline cards, a per-group table, and any warnings.
func printSummary(w io.Writer, d records.Dialect, res *pipeline.Result) {
	fmt.Fprintln(w, okStyle.Render("report written:"), res.ReportPath)
	fmt.Fprintln(w)

	for _, c := range res.Cards {
		line := fmt.Sprintf("%s: %s", c.Title, report.FormatCard(c))
		if c.Subject != "" {
			line += " " + dimStyle.Render("("+c.Subject+")")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	printGroupTable(w, d, res.Groups)

	if len(res.Warnings) > 0 {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("%d warning(s):", len(res.Warnings))))
		for _, warning := range res.Warnings {
			fmt.Fprintln(os.Stderr, warnStyle.Render("  "+warning.String()))
		}
	}
}

func printGroupTable(w io.Writer, d records.Dialect, groups []aggregate.Group) {
	primary := aggregate.PrimaryMetric(d)
	primaryLabel := primary
	primaryFormat := report.FormatNumber
	for _, col := range report.Columns(d) {
		if col.Metric == primary && col.Source == report.SourceMean {
			primaryLabel = col.Label
			primaryFormat = col.Format
			break
		}
	}

	table := newSummaryTable([]string{"Model", "Variant", "Runs", primaryLabel}, w)
	for _, g := range groups {
		value := "n/a"
		if v, ok := g.Mean(primary); ok {
			value = report.FormatValue(v, primaryFormat)
		}
		_ = table.Append([]string{
			g.Key.Model,
			g.Key.Variant,
			fmt.Sprintf("%d", g.RunCount),
			value,
		})
	}
	_ = table.Render()
}

// newSummaryTable creates a table writer with consistent markdown-style
// formatting for console output.
func newSummaryTable(headers []string, w io.Writer) *tablewriter.Table {
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
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
	)
}
