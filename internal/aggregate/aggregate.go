// Package aggregate groups normalized records by (model, prompt variant),
// computes per-group statistics, and selects the headline winners.
package aggregate

import (
	"math"
	"sort"

	"github.com/prompteval/driftreport/internal/metrics"
	"github.com/prompteval/driftreport/internal/records"
)

// Upstream stat names passed through verbatim for the pre-aggregated
// dialect. Nothing under these keys is recomputed locally.
const (
	StatMeanSimilarity = "mean_similarity"
	StatMinSimilarity  = "min_similarity"
	StatMaxSimilarity  = "max_similarity"
	StatStdDev         = "std_dev"
)

// Group is the per-(model, variant) aggregate. RunCount equals exactly the
// number of surviving records that carried this key; excluded records never
// contribute.
type Group struct {
	Key       records.GroupKey
	RunCount  int
	Means     map[string]float64
	StdDevs   map[string]float64
	CIMargins map[string]float64 // 95% CI half-widths around the means
	Runs      []records.RunDetail // preserved detail list, pre-aggregated dialect only
}

// Mean returns the group mean for a metric and whether it is tracked.
func (g Group) Mean(name string) (float64, bool) {
	v, ok := g.Means[name]
	return v, ok
}

// AbsMean returns |mean(metric)|, the ranking helper for closer-to-zero
// metrics. Only the signed mean is ever rendered; the sign carries meaning
// to a reader.
func (g Group) AbsMean(name string) float64 {
	return math.Abs(g.Means[name])
}

// TrackedMetrics returns the metrics aggregated per group for a dialect.
func TrackedMetrics(d records.Dialect) []string {
	switch d {
	case records.DialectConsistency:
		return []string{
			records.MetricSimilarity,
			records.MetricCountDiff,
			records.MetricCountRatio,
		}
	case records.DialectMultistage:
		return []string{
			records.MetricAvsB,
			records.MetricAvsC,
			records.MetricBvsC,
			records.MetricDecay,
		}
	}
	return nil
}

// PrimaryMetric returns the dialect's headline ranking metric, used both
// for table sort order and the lead headline card.
func PrimaryMetric(d records.Dialect) string {
	switch d {
	case records.DialectConsistency:
		return records.MetricSimilarity
	case records.DialectMultistage:
		return records.MetricAvsC
	case records.DialectComparison:
		return StatMeanSimilarity
	}
	return ""
}

// Collect groups records by GroupKey and computes the arithmetic mean and
// standard deviation of each tracked metric. Groups come back in
// first-encounter order, which is deterministic because discovery sorts its
// results; that order is also the ranking tie-break.
func Collect(recs []records.Record, tracked []string) []Group {
	var order []records.GroupKey
	counts := make(map[records.GroupKey]int)
	samples := make(map[records.GroupKey]map[string][]float64)

	for _, r := range recs {
		if _, ok := counts[r.Key]; !ok {
			order = append(order, r.Key)
			samples[r.Key] = make(map[string][]float64)
		}
		counts[r.Key]++
		for _, name := range tracked {
			if v, ok := r.Metric(name); ok {
				samples[r.Key][name] = append(samples[r.Key][name], v)
			}
		}
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := Group{
			Key:       key,
			RunCount:  counts[key],
			Means:     make(map[string]float64, len(tracked)),
			StdDevs:   make(map[string]float64, len(tracked)),
			CIMargins: make(map[string]float64, len(tracked)),
		}
		for _, name := range tracked {
			values := samples[key][name]
			if len(values) == 0 {
				continue
			}
			g.Means[name] = metrics.Mean(values)
			g.StdDevs[name] = metrics.StdDev(values)
			g.CIMargins[name] = metrics.ConfidenceMargin95(values)
		}
		groups = append(groups, g)
	}
	return groups
}

// FromSummaries converts pre-aggregated entries into groups without
// recomputing anything: the upstream summary stats are copied through
// unchanged and the per-run detail list is preserved for rendering.
func FromSummaries(entries []records.ComparisonEntry) []Group {
	groups := make([]Group, 0, len(entries))
	for _, e := range entries {
		groups = append(groups, Group{
			Key:      e.Key,
			RunCount: e.Stats.RunCount,
			Means: map[string]float64{
				StatMeanSimilarity: e.Stats.MeanSimilarity,
				StatMinSimilarity:  e.Stats.MinSimilarity,
				StatMaxSimilarity:  e.Stats.MaxSimilarity,
				StatStdDev:         e.Stats.StdDev,
			},
			StdDevs:   map[string]float64{},
			CIMargins: map[string]float64{},
			Runs:      e.Runs,
		})
	}
	return groups
}

// SortForReport orders groups by model ascending, then by the primary
// metric descending. The sort is stable so equal entries keep their
// first-encounter order.
func SortForReport(groups []Group, primary string) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Key.Model != groups[j].Key.Model {
			return groups[i].Key.Model < groups[j].Key.Model
		}
		return groups[i].Means[primary] > groups[j].Means[primary]
	})
}

// TotalRuns sums RunCount across all groups.
func TotalRuns(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += g.RunCount
	}
	return total
}
