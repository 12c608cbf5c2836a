package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.RateLimitRPS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o"}, cfg.OpenAI.Models)
	assert.Empty(t, cfg.OpenAI.APIKey)
}

func TestLoad_MissingMapboxToken(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_ModelListParsing(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test")
	t.Setenv("OPENAI_MODELS", "gpt-4o, gpt-4.1-mini ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "gpt-4.1-mini"}, cfg.OpenAI.Models)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test")
	t.Setenv("SERVER_PORT", "99999")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", "pk.test")
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
