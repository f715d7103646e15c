package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "minerva", cfg.App.Name)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.Equal(t, 20, cfg.AI.MaxIterations)
	assert.Equal(t, "Rscript", cfg.Analysis.RscriptBin)
	assert.NotEmpty(t, cfg.Analysis.RulesetPath)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("AGENT_MAX_ITERATIONS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 5, cfg.AI.MaxIterations)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.AI.MaxIterations = 0
	assert.Error(t, cfg.Validate())
}
