package aggregate

import (
	"github.com/prompteval/driftreport/internal/records"
)

// Direction states how a metric ranks.
type Direction int

const (
	// HigherIsBetter ranks by maximum value (similarity, retention,
	// stability).
	HigherIsBetter Direction = iota
	// ClosestToZero ranks by minimum absolute value (signed count
	// difference, stage decay).
	ClosestToZero
)

// ValueKind tells the renderer how to format a headline value.
type ValueKind int

const (
	KindCount ValueKind = iota // whole number
	KindScore                  // 0..1 score shown as a percentage
	KindDelta                  // signed difference
)

// HeadlineCard is one summary statistic surfaced at the top of the report.
// Subject names the winning (model, variant) pair; it is empty for scalar
// cards such as the total run count.
type HeadlineCard struct {
	Title   string
	Subject string
	Value   float64
	Kind    ValueKind
}

// Best returns the group that wins for the given metric and direction.
// Ties keep the earliest group in slice order, which is the deterministic
// first-encounter order from Collect. ok is false when no group carries the
// metric.
func Best(groups []Group, metric string, dir Direction) (Group, bool) {
	var winner Group
	found := false
	for _, g := range groups {
		v, ok := g.Mean(metric)
		if !ok {
			continue
		}
		if !found {
			winner, found = g, true
			continue
		}
		switch dir {
		case HigherIsBetter:
			if v > winner.Means[metric] {
				winner = g
			}
		case ClosestToZero:
			if g.AbsMean(metric) < winner.AbsMean(metric) {
				winner = g
			}
		}
	}
	return winner, found
}

// Cards builds the fixed headline list for a dialect: the total run count
// first, then one best-of card per designated metric.
func Cards(d records.Dialect, groups []Group) []HeadlineCard {
	cards := []HeadlineCard{{
		Title: "Total Runs",
		Value: float64(TotalRuns(groups)),
		Kind:  KindCount,
	}}

	add := func(title, metric string, dir Direction, kind ValueKind) {
		if g, ok := Best(groups, metric, dir); ok {
			cards = append(cards, HeadlineCard{
				Title:   title,
				Subject: g.Key.String(),
				Value:   g.Means[metric],
				Kind:    kind,
			})
		}
	}

	switch d {
	case records.DialectConsistency:
		add("Best Similarity", records.MetricSimilarity, HigherIsBetter, KindScore)
		add("Closest Count Match", records.MetricCountDiff, ClosestToZero, KindDelta)
	case records.DialectMultistage:
		add("Best Retention", records.MetricAvsC, HigherIsBetter, KindScore)
		add("Least Decay", records.MetricDecay, ClosestToZero, KindDelta)
		add("Most Stable", records.MetricBvsC, HigherIsBetter, KindScore)
	case records.DialectComparison:
		add("Best Similarity", StatMeanSimilarity, HigherIsBetter, KindScore)
	}
	return cards
}
