package leads

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lead_triage_backend/internal/events"
	"lead_triage_backend/internal/leads/intent"
	"lead_triage_backend/platform/config"
	"lead_triage_backend/platform/logger"
	"lead_triage_backend/platform/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.FromLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)
	return cfg
}

func TestNewModuleDefaultsToMemoryAndHeuristic(t *testing.T) {
	cfg := loadConfig(t, nil)
	m, err := NewModule(Deps{
		EventBus:  events.NewInMemoryBus(logger.Nop()),
		Validator: validator.New(),
		Config:    cfg,
		Logger:    logger.Nop(),
	})
	require.NoError(t, err)

	assert.Equal(t, "leads", m.Name())
	assert.NoError(t, m.Processor().Ping(context.Background()))

	snap := m.Processor().Rules()
	assert.Equal(t, "heuristic", snap.IntentBackend)
	assert.Equal(t, 80, snap.Thresholds.Hot)
	assert.Equal(t, "AE", snap.Rules.Contact.DefaultRegion)
}

func TestNewIntentClassifierSelectsBackend(t *testing.T) {
	c, err := NewIntentClassifier(loadConfig(t, map[string]string{"OPENROUTER_API_KEY": "sk-test", "INTENT_MODEL": "test/model"}), nil, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "llm:test/model", intent.BackendName(c))
	assert.IsType(t, &intent.Guard{}, c)

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c, err = NewIntentClassifier(loadConfig(t, map[string]string{"OPENROUTER_API_KEY": "sk-test"}), rdb, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &intent.CachedClassifier{}, c)
}

func TestNewEngineAppliesRegionOverride(t *testing.T) {
	e, err := NewEngine(loadConfig(t, map[string]string{"PHONE_DEFAULT_REGION": "sa"}), nil)
	require.NoError(t, err)
	assert.Equal(t, "SA", e.Rules().Contact.DefaultRegion)
}

func TestNewEngineKeepsRulesFileRegionWithoutOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contact:\n  default_region: GB\n"), 0o600))

	e, err := NewEngine(loadConfig(t, map[string]string{"SCORING_RULES_FILE": path}), nil)
	require.NoError(t, err)
	assert.Equal(t, "GB", e.Rules().Contact.DefaultRegion)

	e, err = NewEngine(loadConfig(t, map[string]string{"SCORING_RULES_FILE": path, "PHONE_DEFAULT_REGION": "SA"}), nil)
	require.NoError(t, err)
	assert.Equal(t, "SA", e.Rules().Contact.DefaultRegion)
}

func TestNewEngineRejectsMissingRulesFile(t *testing.T) {
	_, err := NewEngine(loadConfig(t, map[string]string{"SCORING_RULES_FILE": "/does/not/exist.yaml"}), nil)
	assert.Error(t, err)
}

func TestNewTierClassifierUsesConfig(t *testing.T) {
	c, err := NewTierClassifier(loadConfig(t, map[string]string{"TIER_HOT_MIN": "90", "INTENT_DOWNGRADE_LABELS": "spam"}))
	require.NoError(t, err)
	assert.Equal(t, 90, c.Thresholds().Hot)
	assert.Equal(t, []string{"spam"}, c.Policy().DowngradeLabels)
}
