package records

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/prompteval/driftreport/internal/warnings"
)

// consistencyArtifact is the wire shape of one single-stage result file.
// Pointer fields distinguish "absent" from zero values so a missing
// required field excludes the record instead of being treated as zero.
type consistencyArtifact struct {
	Model          *string  `json:"model"`
	PromptVariant  *string  `json:"prompt_variant"`
	BaselineCount  *float64 `json:"baseline_count"`
	GeneratedCount *float64 `json:"generated_count"`
	Similarity     *float64 `json:"similarity_score"`
}

// multistageArtifact is the wire shape of one multi-stage result file. The
// nested score object is flattened into top-level metrics on load.
type multistageArtifact struct {
	Model         *string `json:"model"`
	PromptVariant *string `json:"prompt_variant"`
	NestedScores  *struct {
		AvsB *float64 `json:"a_vs_b"`
		AvsC *float64 `json:"a_vs_c"`
		BvsC *float64 `json:"b_vs_c"`
	} `json:"nested_scores"`
}

// comparisonArtifact is the wire shape of the single pre-aggregated file:
// models → prompt variants → {summary_stats, all_runs}.
type comparisonArtifact struct {
	Models map[string]map[string]struct {
		SummaryStats *SummaryStats `json:"summary_stats"`
		AllRuns      []RunDetail   `json:"all_runs"`
	} `json:"models"`
}

// LoadConsistency parses every single-stage artifact in paths. Files that
// fail to parse or lack a required field are skipped with a warning; one
// corrupt artifact never aborts the batch.
func LoadConsistency(paths []string, sink *warnings.Sink) []Record {
	var recs []Record
	for _, path := range paths {
		var art consistencyArtifact
		if !readArtifact(path, &art, sink) {
			continue
		}
		if name, ok := firstMissing([]fieldCheck{
			{"model", art.Model == nil},
			{"prompt_variant", art.PromptVariant == nil},
			{"baseline_count", art.BaselineCount == nil},
			{"generated_count", art.GeneratedCount == nil},
			{"similarity_score", art.Similarity == nil},
		}); !ok {
			sink.Add(path, "skipping record: missing required field %q", name)
			continue
		}
		recs = append(recs, Record{
			Path: path,
			Key:  GroupKey{Model: *art.Model, Variant: *art.PromptVariant},
			Metrics: map[string]float64{
				MetricBaselineCount:  *art.BaselineCount,
				MetricGeneratedCount: *art.GeneratedCount,
				MetricSimilarity:     *art.Similarity,
			},
		})
	}
	return recs
}

// LoadMultistage parses every multi-stage artifact in paths, flattening the
// nested score object into top-level metrics. Defective files are skipped
// with a warning.
func LoadMultistage(paths []string, sink *warnings.Sink) []Record {
	var recs []Record
	for _, path := range paths {
		var art multistageArtifact
		if !readArtifact(path, &art, sink) {
			continue
		}
		checks := []fieldCheck{
			{"model", art.Model == nil},
			{"prompt_variant", art.PromptVariant == nil},
			{"nested_scores", art.NestedScores == nil},
		}
		if art.NestedScores != nil {
			checks = append(checks,
				fieldCheck{"nested_scores.a_vs_b", art.NestedScores.AvsB == nil},
				fieldCheck{"nested_scores.a_vs_c", art.NestedScores.AvsC == nil},
				fieldCheck{"nested_scores.b_vs_c", art.NestedScores.BvsC == nil},
			)
		}
		if name, ok := firstMissing(checks); !ok {
			sink.Add(path, "skipping record: missing required field %q", name)
			continue
		}
		recs = append(recs, Record{
			Path: path,
			Key:  GroupKey{Model: *art.Model, Variant: *art.PromptVariant},
			Metrics: map[string]float64{
				MetricAvsB: *art.NestedScores.AvsB,
				MetricAvsC: *art.NestedScores.AvsC,
				MetricBvsC: *art.NestedScores.BvsC,
			},
		})
	}
	return recs
}

// LoadComparison parses the single pre-aggregated artifact and walks its
// nesting directly; this dialect is never flattened into per-record rows.
// Entries are returned sorted by model then variant for deterministic
// downstream output. A (model, variant) entry without summary_stats is
// skipped with a warning.
func LoadComparison(path string, sink *warnings.Sink) []ComparisonEntry {
	var art comparisonArtifact
	if !readArtifact(path, &art, sink) {
		return nil
	}
	if len(art.Models) == 0 {
		sink.Add(path, "skipping artifact: missing required field %q", "models")
		return nil
	}

	var entries []ComparisonEntry
	for _, model := range sortedKeys(art.Models) {
		variants := art.Models[model]
		for _, variant := range sortedKeys(variants) {
			entry := variants[variant]
			if entry.SummaryStats == nil {
				sink.Add(path, "skipping %s / %s: missing required field %q", model, variant, "summary_stats")
				continue
			}
			entries = append(entries, ComparisonEntry{
				Key:   GroupKey{Model: model, Variant: variant},
				Stats: *entry.SummaryStats,
				Runs:  entry.AllRuns,
			})
		}
	}
	return entries
}

// readArtifact reads and unmarshals one artifact, reporting failures to the
// sink. Returns false when the record should be skipped.
func readArtifact(path string, out any, sink *warnings.Sink) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		sink.Add(path, "skipping record: %v", err)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		sink.Add(path, "skipping record: parse failure: %v", err)
		return false
	}
	return true
}

type fieldCheck struct {
	name    string
	missing bool
}

// firstMissing returns the name of the first missing required field, or
// ok=true when every field is present.
func firstMissing(checks []fieldCheck) (string, bool) {
	for _, c := range checks {
		if c.missing {
			return c.name, false
		}
	}
	return "", true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
