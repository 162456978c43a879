package projectconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResolvesResultsDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "results_dir: results\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results"), cfg.ResultsDir)
	assert.True(t, cfg.ShouldOpenReport())
}

func TestLoadWalksUpToParent(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "results_dir: "+filepath.Join(dir, "out")+"\n")

	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.ResultsDir)
}

func TestLoadMissingFile(t *testing.T) {
	// An empty temp dir has no config anywhere within the walk-up limit.
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMissingResultsDirKey(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "open_report: false\n")

	_, err := Load(dir)
	require.Error(t, err)

	var missing *MissingKeyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "results_dir", missing.Key)
	assert.Equal(t, path, missing.Path)
	assert.Contains(t, err.Error(), `"results_dir"`)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "results_dir: [unclosed\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestOpenReportDisabled(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "results_dir: r\nopen_report: false\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.ShouldOpenReport())
}
