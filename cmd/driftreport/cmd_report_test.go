package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestConsistencyCommandEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "consistency", "r1", "consistency_result.json"),
		`{"model":"m1","prompt_variant":"v1","baseline_count":25,"generated_count":27,"similarity_score":0.9}`)

	cfgPath := filepath.Join(t.TempDir(), ".driftreport.yaml")
	writeFixture(t, cfgPath, "results_dir: "+root+"\nopen_report: false\n")

	err := runCLI(t, "consistency", "--config", cfgPath, "--no-open")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "consistency_report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Single-Stage Consistency Report")
}

func TestCommandFailsWithoutConfig(t *testing.T) {
	err := runCLI(t, "consistency", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestCommandFailsOnMissingResultsRoot(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ".driftreport.yaml")
	writeFixture(t, cfgPath, "results_dir: "+filepath.Join(t.TempDir(), "nope")+"\n")

	err := runCLI(t, "multistage", "--config", cfgPath, "--no-open")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestComparisonCommandEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "comparison", "comparison_results.json"), `{
		"models": {
			"m1": {
				"v1": {
					"summary_stats": {"run_count": 2, "mean_similarity": 0.9, "min_similarity": 0.85, "max_similarity": 0.95, "std_dev": 0.03},
					"all_runs": [{"run_id": "r01", "similarity_score": 0.92, "trace": "ok"}]
				}
			}
		}
	}`)

	cfgPath := filepath.Join(t.TempDir(), ".driftreport.yaml")
	writeFixture(t, cfgPath, "results_dir: "+root+"\nopen_report: false\n")

	err := runCLI(t, "comparison", "--config", cfgPath)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "comparison_report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Model Comparison Report")
}
