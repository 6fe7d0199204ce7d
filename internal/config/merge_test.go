package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShallowMergeYAML_ReplacesSections(t *testing.T) {
	cfg := Default()
	cfg.Data = map[string]string{"penguins": "csv:a.csv", "weather": "csv:w.csv"}

	path := writeConfig(t, t.TempDir(), "data:\n  penguins: csv:b.csv\n")
	require.NoError(t, ShallowMergeYAML(cfg, path))

	assert.Equal(t, map[string]string{"penguins": "csv:b.csv"}, cfg.Data, "maps are replaced, not merged")
	assert.Equal(t, "penguins", cfg.Dashboard, "absent keys are untouched")
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	cfg := Default()
	path := writeConfig(t, t.TempDir(), "# nothing here\n")
	require.NoError(t, ShallowMergeYAML(cfg, path))
	assert.Equal(t, Default(), cfg)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	assert.Error(t, ShallowMergeYAML(nil, "x"))
	assert.Error(t, ShallowMergeYAML(Default(), "/does/not/exist.yaml"))

	path := writeConfig(t, t.TempDir(), "metrics: [1, 2]\n")
	assert.Error(t, ShallowMergeYAML(Default(), path))
}
