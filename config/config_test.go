package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient CI settings
// cannot leak into assertions. Setenv restores the originals on cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROJECT_ID", "LOCATION", "PORT", "DEBUG", "GEMINI_MODEL",
		"HTTP_TIMEOUT_SECONDS", "RESEARCH_TIMEOUT_SECONDS", "EVENT_BUFFER_SIZE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "ARTIFACT_BUCKET_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "", cfg.ProjectID)
	assert.Equal(t, "", cfg.Location)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 20, cfg.HTTPTimeoutSeconds)
	assert.Equal(t, 45, cfg.ResearchTimeoutSeconds)
	assert.Equal(t, 32, cfg.EventBufferSize)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, "", cfg.ArtifactBucketName)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROJECT_ID", "rolebrief-prod")
	t.Setenv("LOCATION", "europe-west1")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("RESEARCH_TIMEOUT_SECONDS", "90")
	t.Setenv("EVENT_BUFFER_SIZE", "64")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("ARTIFACT_BUCKET_NAME", "rolebrief-artifacts")

	cfg := Load()

	assert.Equal(t, "rolebrief-prod", cfg.ProjectID)
	assert.Equal(t, "europe-west1", cfg.Location)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, 90, cfg.ResearchTimeoutSeconds)
	assert.Equal(t, 64, cfg.EventBufferSize)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, "rolebrief-artifacts", cfg.ArtifactBucketName)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBUG", "yes-please")
	t.Setenv("RATE_LIMIT_RPS", "ten")
	t.Setenv("EVENT_BUFFER_SIZE", "16.5")

	cfg := Load()

	assert.False(t, cfg.Debug)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 32, cfg.EventBufferSize)
}

func TestValidateDefaults(t *testing.T) {
	clearEnv(t)

	require.NoError(t, Load().Validate())
}

func TestValidateRequiresLocationForVertex(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROJECT_ID", "rolebrief-prod")

	err := Load().Validate()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "LOCATION", cfgErr.Field)
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	cases := []struct {
		key   string
		field string
	}{
		{"EVENT_BUFFER_SIZE", "EVENT_BUFFER_SIZE"},
		{"RESEARCH_TIMEOUT_SECONDS", "RESEARCH_TIMEOUT_SECONDS"},
		{"RATE_LIMIT_RPS", "RATE_LIMIT_RPS"},
		{"RATE_LIMIT_BURST", "RATE_LIMIT_BURST"},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, "0")

			err := Load().Validate()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}
