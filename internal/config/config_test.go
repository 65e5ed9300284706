package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.UseMockLLM, "local mode without key should fall back to the mock")
	assert.False(t, cfg.ScriptedWarmup)
	assert.Equal(t, 5, cfg.SOSCountdown)
	assert.Equal(t, 60*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "gemini-2.5-flash", cfg.MapsModel)
}

func TestLoad_KeyDisablesMock(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("YATRA_SCRIPTED_WARMUP", "true")
	t.Setenv("YATRA_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.UseMockLLM)
	assert.True(t, cfg.ScriptedWarmup)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_GCPRequiresProject(t *testing.T) {
	t.Setenv("YATRA_MODE", "gcp")
	t.Setenv("YATRA_GCP_PROJECT", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YATRA_GCP_PROJECT")
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{Mode: "bogus", UseMockLLM: true}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"YATRA_MODE", "YATRA_PORT", "YATRA_GATEWAY_TIMEOUT", "YATRA_MAX_IMAGE_BYTES"} {
		assert.Contains(t, err.Error(), want)
	}
}
