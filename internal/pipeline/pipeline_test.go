package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompteval/driftreport/internal/aggregate"
	"github.com/prompteval/driftreport/internal/discovery"
	"github.com/prompteval/driftreport/internal/projectconfig"
	"github.com/prompteval/driftreport/internal/records"
	"github.com/prompteval/driftreport/internal/warnings"
)

var fixedTime = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func newRun(t *testing.T, d records.Dialect) (*Run, string) {
	t.Helper()
	root := t.TempDir()
	return &Run{
		Config:   &projectconfig.Config{ResultsDir: root},
		Dialect:  d,
		Warnings: &warnings.Sink{},
		Now:      func() time.Time { return fixedTime },
	}, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func consistencyJSON(model, variant string, baseline, generated int, score float64) string {
	return fmt.Sprintf(`{"model":%q,"prompt_variant":%q,"baseline_count":%d,"generated_count":%d,"similarity_score":%g}`,
		model, variant, baseline, generated, score)
}

func TestExecuteConsistencyEndToEnd(t *testing.T) {
	run, root := newRun(t, records.DialectConsistency)
	writeFile(t, filepath.Join(root, "consistency", "runA", "consistency_result.json"),
		consistencyJSON("m1", "v1", 25, 27, 0.9))
	writeFile(t, filepath.Join(root, "consistency", "runB", "consistency_result.json"),
		consistencyJSON("m1", "v1", 25, 23, 0.8))

	res, err := Execute(run)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "consistency_report.html"), res.ReportPath)
	data, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Single-Stage Consistency Report")

	require.Len(t, res.Groups, 1)
	assert.Equal(t, 2, res.Groups[0].RunCount)
	assert.InDelta(t, 0.85, res.Groups[0].Means[records.MetricSimilarity], 1e-9)
	// generated 27 and 23 against baseline 25: diffs +2 and -2, mean 0.
	assert.InDelta(t, 0.0, res.Groups[0].Means[records.MetricCountDiff], 1e-9)
	assert.Empty(t, res.Warnings)
}

func TestExecuteSurvivesCorruptArtifact(t *testing.T) {
	run, root := newRun(t, records.DialectConsistency)
	writeFile(t, filepath.Join(root, "consistency", "good", "consistency_result.json"),
		consistencyJSON("m1", "v1", 25, 27, 0.9))
	writeFile(t, filepath.Join(root, "consistency", "bad", "consistency_result.json"),
		`this is not json at all`)

	res, err := Execute(run)
	require.NoError(t, err)

	require.Len(t, res.Groups, 1)
	assert.Equal(t, 1, res.Groups[0].RunCount)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Detail, "parse failure")
	// The report still gets written.
	_, statErr := os.Stat(res.ReportPath)
	assert.NoError(t, statErr)
}

func TestExecuteBaselineDisagreementFirstSeenWins(t *testing.T) {
	run, root := newRun(t, records.DialectConsistency)
	// Discovery sorts paths, so "a" is seen before "b": canonical is 25.
	writeFile(t, filepath.Join(root, "consistency", "a", "consistency_result.json"),
		consistencyJSON("m1", "v1", 25, 27, 0.9))
	writeFile(t, filepath.Join(root, "consistency", "b", "consistency_result.json"),
		consistencyJSON("m1", "v2", 30, 27, 0.8))

	res, err := Execute(run)
	require.NoError(t, err)

	var v2 *aggregate.Group
	for i := range res.Groups {
		if res.Groups[i].Key.Variant == "v2" {
			v2 = &res.Groups[i]
		}
	}
	require.NotNil(t, v2)
	// 27 - 25, not 27 - 30 and not 27 - 27.5.
	assert.InDelta(t, 2.0, v2.Means[records.MetricCountDiff], 1e-9)

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0].Detail, "25")
	assert.Contains(t, res.Warnings[0].Detail, "30")
}

func TestExecuteMissingRootIsDistinctError(t *testing.T) {
	run, _ := newRun(t, records.DialectConsistency)
	run.Config.ResultsDir = filepath.Join(run.Config.ResultsDir, "never-created")

	_, err := Execute(run)
	require.Error(t, err)
	assert.ErrorIs(t, err, discovery.ErrRootNotFound)
	assert.NotErrorIs(t, err, ErrNoArtifacts)
}

func TestExecuteZeroArtifacts(t *testing.T) {
	run, root := newRun(t, records.DialectConsistency)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "consistency"), 0o755))

	_, err := Execute(run)
	require.ErrorIs(t, err, ErrNoArtifacts)
	// No partial report on an early exit.
	_, statErr := os.Stat(filepath.Join(root, "consistency_report.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecuteAllRecordsCorrupt(t *testing.T) {
	run, root := newRun(t, records.DialectConsistency)
	writeFile(t, filepath.Join(root, "consistency", "bad", "consistency_result.json"), `{{{`)

	_, err := Execute(run)
	require.ErrorIs(t, err, ErrNoUsableRecords)
}

func TestExecuteMultistage(t *testing.T) {
	run, root := newRun(t, records.DialectMultistage)
	writeFile(t, filepath.Join(root, "multistage", "r1", "multistage_result.json"),
		`{"model":"m1","prompt_variant":"v1","nested_scores":{"a_vs_b":0.95,"a_vs_c":0.80,"b_vs_c":0.85}}`)

	res, err := Execute(run)
	require.NoError(t, err)

	require.Len(t, res.Groups, 1)
	assert.InDelta(t, 0.15, res.Groups[0].Means[records.MetricDecay], 1e-9)
	assert.Equal(t, filepath.Join(root, "multistage_report.html"), res.ReportPath)
}

func TestExecuteComparisonPassThrough(t *testing.T) {
	run, root := newRun(t, records.DialectComparison)
	writeFile(t, filepath.Join(root, "comparison", "comparison_results.json"), `{
		"models": {
			"m1": {
				"v1": {
					"summary_stats": {"run_count": 4, "mean_similarity": 0.88, "min_similarity": 0.8, "max_similarity": 0.95, "std_dev": 0.05},
					"all_runs": [{"run_id": "r01", "similarity_score": 0.9, "trace": "raw output"}]
				}
			}
		}
	}`)

	res, err := Execute(run)
	require.NoError(t, err)

	require.Len(t, res.Groups, 1)
	assert.Equal(t, 4, res.Groups[0].RunCount)
	assert.Equal(t, 0.88, res.Groups[0].Means[aggregate.StatMeanSimilarity])
	require.Len(t, res.Groups[0].Runs, 1)

	data, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "raw output")
}

func TestExecuteIdempotentModuloTimestamp(t *testing.T) {
	run, root := newRun(t, records.DialectConsistency)
	writeFile(t, filepath.Join(root, "consistency", "a", "consistency_result.json"),
		consistencyJSON("m1", "v1", 25, 27, 0.9))

	res1, err := Execute(run)
	require.NoError(t, err)
	first, err := os.ReadFile(res1.ReportPath)
	require.NoError(t, err)

	// Fresh sink, same fixed clock, unchanged artifacts.
	run.Warnings = &warnings.Sink{}
	res2, err := Execute(run)
	require.NoError(t, err)
	second, err := os.ReadFile(res2.ReportPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
