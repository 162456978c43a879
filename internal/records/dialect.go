package records

// Dialect identifies one of the three result-artifact shapes this tool
// consumes. A report run operates on exactly one dialect, chosen by the
// subcommand that was invoked, never guessed from file contents.
type Dialect string

const (
	// DialectConsistency is the single-stage dialect: one flat record per
	// run with a baseline count, a generated count, and a similarity score.
	DialectConsistency Dialect = "consistency"

	// DialectMultistage is the multi-stage dialect: one record per run with
	// pairwise similarity scores across two regeneration stages.
	DialectMultistage Dialect = "multistage"

	// DialectComparison is the pre-aggregated dialect: a single artifact
	// holding upstream-computed statistics per (model, variant) plus the
	// full per-run detail list.
	DialectComparison Dialect = "comparison"
)

// Subtree returns the subdirectory of the results root that this dialect's
// artifacts live under.
func (d Dialect) Subtree() string {
	return string(d)
}

// ArtifactName returns the exact artifact filename for this dialect. Any
// other filename is ignored by discovery.
func (d Dialect) ArtifactName() string {
	switch d {
	case DialectConsistency:
		return "consistency_result.json"
	case DialectMultistage:
		return "multistage_result.json"
	case DialectComparison:
		return "comparison_results.json"
	}
	return ""
}

// ReportName returns the fixed report filename written directly under the
// results root. Repeated runs overwrite rather than accumulate.
func (d Dialect) ReportName() string {
	switch d {
	case DialectConsistency:
		return "consistency_report.html"
	case DialectMultistage:
		return "multistage_report.html"
	case DialectComparison:
		return "comparison_report.html"
	}
	return ""
}

// Title returns the human-readable report heading for this dialect.
func (d Dialect) Title() string {
	switch d {
	case DialectConsistency:
		return "Single-Stage Consistency Report"
	case DialectMultistage:
		return "Multi-Stage Consistency Report"
	case DialectComparison:
		return "Model Comparison Report"
	}
	return ""
}
