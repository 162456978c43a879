// Package report renders the aggregated results into one self-contained
// HTML document and publishes it under the results root.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"time"

	"github.com/prompteval/driftreport/internal/aggregate"
	"github.com/prompteval/driftreport/internal/records"
	"github.com/prompteval/driftreport/internal/warnings"
)

// Placeholder rendered for missing or non-finite values. Never a zero and
// never a blank cell: a failed derivation must stay visible to the reader.
const naPlaceholder = "n/a"

// Document is everything the renderer needs. Groups must already be in
// report order (model ascending, primary metric descending); GeneratedAt is
// injected so runs over an unchanged artifact set render byte-identically
// in tests.
type Document struct {
	Dialect     records.Dialect
	GeneratedAt time.Time
	Cards       []aggregate.HeadlineCard
	Groups      []aggregate.Group
	Warnings    []warnings.Warning
}

type viewModel struct {
	Title       string
	GeneratedAt string
	Warnings    []string
	Cards       []cardView
	Columns     []string
	Tables      []tableView
	Collapsible bool
	ColSpan     int
}

type cardView struct {
	Title   string
	Value   string
	Subject string
}

type tableView struct {
	Model string
	Rows  []rowView
}

type rowView struct {
	Variant string
	Cells   []cellView
	Runs    []runView
}

type cellView struct {
	Text  string
	Color string // background hex, empty for uncolored cells
}

type runView struct {
	RunID      string
	Similarity string
	Trace      string
}

// Render produces the complete HTML document for doc.
func Render(doc Document) (string, error) {
	columns := Columns(doc.Dialect)

	vm := viewModel{
		Title:       doc.Dialect.Title(),
		GeneratedAt: doc.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		Collapsible: doc.Dialect == records.DialectComparison,
		ColSpan:     len(columns) + 1,
	}

	for _, w := range doc.Warnings {
		vm.Warnings = append(vm.Warnings, w.String())
	}
	for _, c := range doc.Cards {
		vm.Cards = append(vm.Cards, cardView{
			Title:   c.Title,
			Value:   FormatCard(c),
			Subject: c.Subject,
		})
	}
	for _, c := range columns {
		vm.Columns = append(vm.Columns, c.Label)
	}

	scales := buildScales(columns, doc.Groups)

	var current *tableView
	for _, g := range doc.Groups {
		if current == nil || current.Model != g.Key.Model {
			vm.Tables = append(vm.Tables, tableView{Model: g.Key.Model})
			current = &vm.Tables[len(vm.Tables)-1]
		}
		row := rowView{Variant: g.Key.Variant}
		for i, col := range columns {
			row.Cells = append(row.Cells, buildCell(col, scales[i], g))
		}
		for _, r := range g.Runs {
			row.Runs = append(row.Runs, runView{
				RunID:      r.RunID,
				Similarity: FormatValue(r.Similarity, FormatPercent),
				Trace:      r.Trace,
			})
		}
		current.Rows = append(current.Rows, row)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// buildScales anchors each colored column's scale at the values observed
// across the whole table set.
func buildScales(columns []Column, groups []aggregate.Group) []colorScale {
	scales := make([]colorScale, len(columns))
	for i, col := range columns {
		var observed []float64
		if col.Scale != ScaleNone {
			for _, g := range groups {
				if v, ok := col.value(g); ok {
					observed = append(observed, v)
				}
			}
		}
		scales[i] = newColorScale(col.Scale, observed)
	}
	return scales
}

func buildCell(col Column, scale colorScale, g aggregate.Group) cellView {
	v, ok := col.value(g)
	if !ok || !isFinite(v) {
		return cellView{Text: naPlaceholder}
	}
	return cellView{
		Text:  FormatValue(v, col.Format),
		Color: scale.hex(v),
	}
}

// FormatValue renders one metric value under a column formatting rule.
// Non-finite values come back as the n/a placeholder.
func FormatValue(v float64, f Format) string {
	if !isFinite(v) {
		return naPlaceholder
	}
	switch f {
	case FormatPercent:
		return fmt.Sprintf("%.1f%%", v*100)
	case FormatDelta:
		return fmt.Sprintf("%+.2f", v)
	case FormatCount:
		return strconv.Itoa(int(math.Round(v)))
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// FormatCard renders a headline card value by its kind.
func FormatCard(c aggregate.HeadlineCard) string {
	switch c.Kind {
	case aggregate.KindCount:
		return FormatValue(c.Value, FormatCount)
	case aggregate.KindDelta:
		return FormatValue(c.Value, FormatDelta)
	default:
		return FormatValue(c.Value, FormatPercent)
	}
}

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: #f4f6f8; color: #333; padding: 32px; max-width: 1100px; margin: 0 auto; }
  h1 { color: #2c3e50; margin-bottom: 6px; }
  .timestamp { color: #666; margin-bottom: 28px; font-size: 0.9em; }
  .warnings { background: #fff3cd; border-left: 4px solid #f0ad4e; padding: 14px 18px; border-radius: 4px; margin-bottom: 24px; }
  .warnings h2 { font-size: 1em; color: #8a6d3b; margin-bottom: 8px; }
  .warnings li { margin-left: 18px; font-size: 0.9em; color: #8a6d3b; }
  .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; margin-bottom: 32px; }
  .card { background: white; padding: 18px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.08); }
  .card h3 { color: #666; font-size: 0.8em; text-transform: uppercase; margin-bottom: 8px; }
  .card .value { font-size: 1.8em; font-weight: bold; color: #2c3e50; }
  .card .subtitle { color: #999; font-size: 0.85em; margin-top: 4px; }
  h2 { color: #2c3e50; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid #3498db; font-size: 1.2em; }
  table { width: 100%; border-collapse: collapse; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.08); margin-bottom: 8px; }
  th, td { padding: 10px 14px; text-align: left; border-bottom: 1px solid #eee; }
  th { background: #2c3e50; color: white; font-weight: 600; font-size: 0.85em; }
  td { font-variant-numeric: tabular-nums; }
  details.model-section { margin-bottom: 16px; }
  details.model-section > summary { cursor: pointer; font-weight: 600; color: #2c3e50; padding: 8px 0; }
  details.run-list > summary { cursor: pointer; color: #3498db; font-size: 0.85em; }
  details.run { margin: 6px 0 6px 18px; }
  details.run > summary { cursor: pointer; font-size: 0.85em; color: #666; }
  details.run pre { background: #2c3e50; color: #ecf0f1; padding: 12px; border-radius: 4px; overflow-x: auto; font-size: 0.8em; margin-top: 6px; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="timestamp">Generated {{.GeneratedAt}}</p>
{{if .Warnings}}<div class="warnings">
<h2>Warnings</h2>
<ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>
</div>{{end}}
<div class="cards">
{{range .Cards}}<div class="card"><h3>{{.Title}}</h3><div class="value">{{.Value}}</div>{{if .Subject}}<div class="subtitle">{{.Subject}}</div>{{end}}</div>
{{end}}</div>
{{range .Tables}}{{if $.Collapsible}}<details class="model-section" open><summary>{{.Model}}</summary>{{else}}<h2>{{.Model}}</h2>{{end}}
<table>
<thead><tr><th>Variant</th>{{range $.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Variant}}</td>{{range .Cells}}{{if .Color}}<td style="background-color: {{.Color}}">{{.Text}}</td>{{else}}<td>{{.Text}}</td>{{end}}{{end}}</tr>
{{if .Runs}}<tr><td colspan="{{$.ColSpan}}"><details class="run-list"><summary>{{len .Runs}} individual runs</summary>
{{range .Runs}}<details class="run"><summary>{{.RunID}} · {{.Similarity}}</summary><pre>{{.Trace}}</pre></details>
{{end}}</details></td></tr>
{{end}}{{end}}</tbody>
</table>
{{if $.Collapsible}}</details>{{end}}
{{end}}</body>
</html>
`
