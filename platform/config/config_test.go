package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.GetHTTPAddr())
	assert.Equal(t, 80, cfg.GetTierHotMin())
	assert.Equal(t, 60, cfg.GetTierMediumMin())
	assert.Equal(t, 30, cfg.GetTierLowMin())
	assert.Equal(t, []string{"spam", "not_relevant"}, cfg.GetIntentDowngradeLabels())
	assert.Equal(t, 8*time.Second, cfg.GetIntentTimeout())
	assert.Empty(t, cfg.GetPhoneDefaultRegion())
	assert.False(t, cfg.IsLLMIntentEnabled())
	assert.False(t, cfg.IsDatabaseEnabled())
	assert.False(t, cfg.IsRedisEnabled())
	assert.False(t, cfg.IsMinIOEnabled())
}

func TestOpenAIKeyFallback(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"OPENAI_API_KEY": "sk-test"}))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.GetIntentAPIKey())
	assert.True(t, cfg.IsLLMIntentEnabled())
}

func TestWildcardOriginEnablesAllowAll(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"CORS_ORIGINS": "*"}))
	require.NoError(t, err)
	assert.True(t, cfg.GetCORSAllowAll())
}

func TestRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"thresholds out of order": {"TIER_MEDIUM_MIN": "85"},
		"low above medium":        {"TIER_LOW_MIN": "70"},
		"bad timeout":             {"INTENT_TIMEOUT": "soon"},
		"zero concurrency":        {"SCORING_CONCURRENCY": "0"},
		"bad region":              {"PHONE_DEFAULT_REGION": "UAE"},
		"creds with wildcard":     {"CORS_ORIGINS": "*", "CORS_ALLOW_CREDENTIALS": "true"},
		"minio without keys":      {"MINIO_ENDPOINT": "localhost:9000"},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(values))
			assert.Error(t, err)
		})
	}
}
