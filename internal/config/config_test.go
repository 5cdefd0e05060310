package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://project2cst438group9-70c9b7b662e0.herokuapp.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Empty(t, cfg.OAuth.ClientID)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COURTSIDE_API_BASE_URL", "http://localhost:8080")
	t.Setenv("COURTSIDE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("COURTSIDE_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_RejectsBadBaseURL(t *testing.T) {
	t.Setenv("COURTSIDE_API_BASE_URL", "not a url")

	_, err := Load()
	require.Error(t, err)
}
