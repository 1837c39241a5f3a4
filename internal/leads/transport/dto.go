package transport

import (
	"fmt"
	"time"

	"lead_triage_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// BreakdownResponse carries the five weighted sub-scores.
type BreakdownResponse struct {
	Location  int `json:"location"`
	Budget    int `json:"budget"`
	Timeframe int `json:"timeframe"`
	Contact   int `json:"contact"`
	Message   int `json:"message"`
}

// AIAnalysisResponse is the classifier output for a lead.
type AIAnalysisResponse struct {
	IntentLabel string `json:"intent_label"`
	ShortReason string `json:"short_reason"`
}

// LeadResponse is a stored lead as rendered to the dashboard. Intent and
// Reason are flattened from the analysis; they fall back to "unknown" and ""
// when classification failed, and AIAnalyzed is false in that case.
type LeadResponse struct {
	ID           int64               `json:"id"`
	BatchID      uuid.UUID           `json:"batch_id"`
	Data         map[string]string   `json:"data"`
	Score        int                 `json:"score"`
	Tier         string              `json:"tier"`
	BaseTier     string              `json:"base_tier"`
	TierAdjusted bool                `json:"tier_adjusted"`
	TierRule     string              `json:"tier_rule,omitempty"`
	Action       string              `json:"action"`
	Intent       string              `json:"intent"`
	Reason       string              `json:"reason"`
	AIAnalyzed   bool                `json:"ai_analyzed"`
	AIAnalysis   *AIAnalysisResponse `json:"ai_analysis,omitempty"`
	Breakdown    BreakdownResponse   `json:"breakdown"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ReportResponse maps a source to its HOT leads.
type ReportResponse map[string][]LeadResponse

// ProcessResponse is returned after an upload has been stored.
type ProcessResponse struct {
	Message            string         `json:"message"`
	Count              int            `json:"count"`
	Skipped            int            `json:"skipped"`
	ClassifierFailures int            `json:"classifier_failures"`
	NoContact          int            `json:"no_contact"`
	BatchID            uuid.UUID      `json:"batch_id"`
	Tiers              map[string]int `json:"tiers"`
	ArchiveKey         string         `json:"archive_key,omitempty"`
}

// ClearResponse is returned after the store has been emptied.
type ClearResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// WeightsResponse lists the maximum of each sub-score.
type WeightsResponse struct {
	Location  int `json:"location"`
	Budget    int `json:"budget"`
	Timeframe int `json:"timeframe"`
	Contact   int `json:"contact"`
	Message   int `json:"message"`
	Total     int `json:"total"`
}

// ThresholdsResponse lists the minimum score of each tier.
type ThresholdsResponse struct {
	Hot    int `json:"HOT"`
	Medium int `json:"MEDIUM"`
	Low    int `json:"LOW"`
}

// ScoringRulesResponse describes the active scoring configuration.
type ScoringRulesResponse struct {
	Version         string             `json:"version"`
	Weights         WeightsResponse    `json:"weights"`
	Thresholds      ThresholdsResponse `json:"thresholds"`
	DowngradeLabels []string           `json:"downgrade_labels"`
	IntentBackend   string             `json:"intent_backend"`
	Rules           any                `json:"rules"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// ProcessedMessage renders the /process confirmation.
func ProcessedMessage(n int) string { return fmt.Sprintf("Processed %d leads", n) }

// ClearedMessage renders the /clear confirmation.
func ClearedMessage(n int) string { return fmt.Sprintf("Cleared %d leads", n) }

// Weights returns the fixed sub-score weights.
func Weights() WeightsResponse {
	return WeightsResponse{
		Location:  domain.WeightLocation,
		Budget:    domain.WeightBudget,
		Timeframe: domain.WeightTimeframe,
		Contact:   domain.WeightContact,
		Message:   domain.WeightMessage,
		Total:     domain.MaxScore,
	}
}
