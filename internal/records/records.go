// Package records defines the normalized result-record model and the
// per-dialect artifact loaders.
package records

import "fmt"

// Metric names carried by normalized records. Loaders populate the raw
// metrics; the deriver adds the computed ones.
const (
	MetricBaselineCount  = "baseline_count"
	MetricGeneratedCount = "generated_count"
	MetricSimilarity     = "similarity_score"

	MetricAvsB = "a_vs_b"
	MetricAvsC = "a_vs_c"
	MetricBvsC = "b_vs_c"

	// Derived.
	MetricCountDiff  = "count_diff"
	MetricCountRatio = "count_ratio"
	MetricDecay      = "decay"
)

// GroupKey is the (model, prompt variant) pair that buckets records for
// aggregation. Two records with equal GroupKeys belong to the same group.
type GroupKey struct {
	Model   string
	Variant string
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s / %s", k.Model, k.Variant)
}

// Record is one normalized result row: where it came from, which group it
// belongs to, and its named numeric metrics. Loaders return records fully
// populated; later stages copy rather than mutate.
type Record struct {
	Path    string
	Key     GroupKey
	Metrics map[string]float64
}

// Metric returns the named metric and whether the record carries it.
func (r Record) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// WithMetric returns a copy of the record with one additional metric set.
// The original record's metric map is left untouched.
func (r Record) WithMetric(name string, value float64) Record {
	m := make(map[string]float64, len(r.Metrics)+1)
	for k, v := range r.Metrics {
		m[k] = v
	}
	m[name] = value
	return Record{Path: r.Path, Key: r.Key, Metrics: m}
}

// RunDetail is one individual run preserved by the pre-aggregated dialect
// for the collapsible report sections. Trace holds raw execution output and
// is escaped at render time.
type RunDetail struct {
	RunID      string  `json:"run_id"`
	Similarity float64 `json:"similarity_score"`
	Trace      string  `json:"trace"`
}

// SummaryStats are the upstream-computed statistics for one (model,
// variant) pair in the pre-aggregated dialect. They pass through the
// aggregator verbatim; nothing is recomputed.
type SummaryStats struct {
	RunCount       int     `json:"run_count"`
	MeanSimilarity float64 `json:"mean_similarity"`
	MinSimilarity  float64 `json:"min_similarity"`
	MaxSimilarity  float64 `json:"max_similarity"`
	StdDev         float64 `json:"std_dev"`
}

// ComparisonEntry is one (model, variant) pair from the pre-aggregated
// artifact: the upstream stats plus the preserved per-run details.
type ComparisonEntry struct {
	Key   GroupKey
	Stats SummaryStats
	Runs  []RunDetail
}
