package report

import (
	"github.com/prompteval/driftreport/internal/aggregate"
	"github.com/prompteval/driftreport/internal/records"
)

// Source selects where a column's value comes from within a group.
type Source int

const (
	SourceMean Source = iota
	SourceStdDev
	SourceCIMargin
	SourceRunCount
)

// Format is the per-column formatting rule.
type Format int

const (
	FormatNumber  Format = iota // plain number, 3 decimals
	FormatPercent               // 0..1 score rendered as a percentage
	FormatDelta                 // signed difference, explicit sign
	FormatCount                 // whole number
)

// Scale is the per-column color rule. Scales are anchored at the value
// range actually observed in the table, not a fixed theoretical range.
type Scale int

const (
	ScaleNone       Scale = iota
	ScaleSequential       // low-to-high gradient across the observed range
	ScaleDiverging        // centered at zero, intensity by magnitude
)

// Column describes one table column: label, value source, formatting rule,
// and color rule.
type Column struct {
	Label  string
	Metric string
	Source Source
	Format Format
	Scale  Scale
}

// Columns returns the dialect's column specification.
func Columns(d records.Dialect) []Column {
	switch d {
	case records.DialectConsistency:
		return []Column{
			{Label: "Runs", Source: SourceRunCount, Format: FormatCount},
			{Label: "Mean Similarity", Metric: records.MetricSimilarity, Format: FormatPercent, Scale: ScaleSequential},
			{Label: "σ Similarity", Metric: records.MetricSimilarity, Source: SourceStdDev, Format: FormatNumber},
			{Label: "95% CI ±", Metric: records.MetricSimilarity, Source: SourceCIMargin, Format: FormatNumber},
			{Label: "Mean Count Δ", Metric: records.MetricCountDiff, Format: FormatDelta, Scale: ScaleDiverging},
			{Label: "Mean Count Ratio", Metric: records.MetricCountRatio, Format: FormatNumber, Scale: ScaleSequential},
		}
	case records.DialectMultistage:
		return []Column{
			{Label: "Runs", Source: SourceRunCount, Format: FormatCount},
			{Label: "Original vs Stage 1", Metric: records.MetricAvsB, Format: FormatPercent, Scale: ScaleSequential},
			{Label: "Original vs Stage 2", Metric: records.MetricAvsC, Format: FormatPercent, Scale: ScaleSequential},
			{Label: "σ Stage 2", Metric: records.MetricAvsC, Source: SourceStdDev, Format: FormatNumber},
			{Label: "95% CI ±", Metric: records.MetricAvsC, Source: SourceCIMargin, Format: FormatNumber},
			{Label: "Stage 1 vs Stage 2", Metric: records.MetricBvsC, Format: FormatPercent, Scale: ScaleSequential},
			{Label: "Mean Decay", Metric: records.MetricDecay, Format: FormatDelta, Scale: ScaleDiverging},
		}
	case records.DialectComparison:
		return []Column{
			{Label: "Runs", Source: SourceRunCount, Format: FormatCount},
			{Label: "Mean Similarity", Metric: aggregate.StatMeanSimilarity, Format: FormatPercent, Scale: ScaleSequential},
			{Label: "Min", Metric: aggregate.StatMinSimilarity, Format: FormatPercent},
			{Label: "Max", Metric: aggregate.StatMaxSimilarity, Format: FormatPercent},
			{Label: "Std Dev", Metric: aggregate.StatStdDev, Format: FormatNumber},
		}
	}
	return nil
}

// value extracts this column's value from a group. ok is false when the
// group does not carry the metric; the renderer shows a placeholder in
// that case rather than a zero.
func (c Column) value(g aggregate.Group) (float64, bool) {
	switch c.Source {
	case SourceRunCount:
		return float64(g.RunCount), true
	case SourceStdDev:
		v, ok := g.StdDevs[c.Metric]
		return v, ok
	case SourceCIMargin:
		v, ok := g.CIMargins[c.Metric]
		return v, ok
	default:
		return g.Mean(c.Metric)
	}
}
