// Package metrics holds the numeric kernels: summary statistics, the
// baseline consistency check, and the per-record derived metrics.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prompteval/driftreport/internal/records"
	"github.com/prompteval/driftreport/internal/warnings"
)

// CanonicalBaseline scans records in load order and returns the canonical
// baseline count for the run: the first value seen. The baseline is
// expected constant across all single-stage records of a run; when more
// than one distinct value appears the disagreement is surfaced as a warning
// listing every distinct value in first-seen order. The values are never
// averaged; averaging would silently manufacture a baseline nobody
// measured.
func CanonicalBaseline(recs []records.Record, sink *warnings.Sink) (float64, bool) {
	var distinct []float64
	seen := make(map[float64]bool)
	for _, r := range recs {
		v, ok := r.Metric(records.MetricBaselineCount)
		if !ok {
			continue
		}
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	if len(distinct) == 0 {
		return 0, false
	}
	if len(distinct) > 1 {
		parts := make([]string, len(distinct))
		for i, v := range distinct {
			parts[i] = fmt.Sprintf("%g", v)
		}
		sink.Add("consistency check",
			"baseline_count disagrees across records (%s); using first-seen value %g",
			strings.Join(parts, ", "), distinct[0])
	}
	return distinct[0], true
}

// DeriveConsistency computes count_diff and count_ratio for each
// single-stage record against the canonical baseline. A canonical baseline
// of zero makes the ratio underivable; such records are excluded from
// aggregation entirely, with a warning, rather than carried with a bogus
// value.
func DeriveConsistency(recs []records.Record, canonical float64, sink *warnings.Sink) []records.Record {
	out := make([]records.Record, 0, len(recs))
	for _, r := range recs {
		generated, ok := r.Metric(records.MetricGeneratedCount)
		if !ok {
			sink.Add(r.Path, "skipping record: no generated_count, cannot derive count metrics")
			continue
		}
		if canonical == 0 {
			sink.Add(r.Path, "skipping record: cannot derive count_ratio with a zero baseline")
			continue
		}
		r = r.WithMetric(records.MetricCountDiff, generated-canonical)
		r = r.WithMetric(records.MetricCountRatio, generated/canonical)
		out = append(out, r)
	}
	return out
}

// DeriveMultistage computes the signed stage decay for each multi-stage
// record: decay = a_vs_b - a_vs_c. A positive decay means the second
// regeneration drifted farther from the original than the first did, the
// signature of compounding semantic drift.
func DeriveMultistage(recs []records.Record, sink *warnings.Sink) []records.Record {
	out := make([]records.Record, 0, len(recs))
	for _, r := range recs {
		ab, okAB := r.Metric(records.MetricAvsB)
		ac, okAC := r.Metric(records.MetricAvsC)
		if !okAB || !okAC {
			sink.Add(r.Path, "skipping record: stage scores incomplete, cannot derive decay")
			continue
		}
		out = append(out, r.WithMetric(records.MetricDecay, ab-ac))
	}
	return out
}
