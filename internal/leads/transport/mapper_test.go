package transport

import (
	"encoding/json"
	"testing"

	"lead_triage_backend/internal/leads/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLeadWithoutAnalysisFallsBack(t *testing.T) {
	resp := FromLead(domain.Lead{ID: 7, Fields: domain.Fields{Name: "Sam"}, Tier: domain.TierLow, BaseTier: domain.TierLow})

	assert.Equal(t, domain.IntentUnknown, resp.Intent)
	assert.Empty(t, resp.Reason)
	assert.False(t, resp.AIAnalyzed)
	assert.Nil(t, resp.AIAnalysis)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "ai_analysis")
	assert.Equal(t, "Sam", decoded["data"].(map[string]any)["name"])
	assert.Contains(t, decoded["breakdown"], "timeframe")
}

func TestFromLeadFlattensAnalysis(t *testing.T) {
	resp := FromLead(domain.Lead{
		Tier: domain.TierMedium, BaseTier: domain.TierHot, TierAdjusted: true,
		AI: &domain.AIAnalysis{IntentLabel: domain.IntentSpam, ShortReason: "promo text"},
	})
	assert.Equal(t, domain.IntentSpam, resp.Intent)
	assert.Equal(t, "promo text", resp.Reason)
	assert.True(t, resp.AIAnalyzed)
	assert.Equal(t, "HOT", resp.BaseTier)
}

func TestFromLeadsNeverNil(t *testing.T) {
	raw, err := json.Marshal(FromLeads(nil))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Processed 3 leads", ProcessedMessage(3))
	assert.Equal(t, "Cleared 0 leads", ClearedMessage(0))
}
