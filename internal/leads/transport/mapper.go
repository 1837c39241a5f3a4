package transport

import (
	"lead_triage_backend/internal/leads/domain"
)

// FromLead renders a stored lead.
func FromLead(l domain.Lead) LeadResponse {
	resp := LeadResponse{
		ID:           l.ID,
		BatchID:      l.BatchID,
		Data:         l.Data(),
		Score:        l.Score,
		Tier:         string(l.Tier),
		BaseTier:     string(l.BaseTier),
		TierAdjusted: l.TierAdjusted,
		TierRule:     l.TierRule,
		Action:       l.Action,
		Intent:       domain.IntentUnknown,
		Breakdown: BreakdownResponse{
			Location:  l.Breakdown.Location,
			Budget:    l.Breakdown.Budget,
			Timeframe: l.Breakdown.Timeframe,
			Contact:   l.Breakdown.Contact,
			Message:   l.Breakdown.Message,
		},
		CreatedAt: l.CreatedAt,
	}
	if l.AI != nil {
		resp.Intent = l.AI.IntentLabel
		resp.Reason = l.AI.ShortReason
		resp.AIAnalyzed = true
		resp.AIAnalysis = &AIAnalysisResponse{IntentLabel: l.AI.IntentLabel, ShortReason: l.AI.ShortReason}
	}
	return resp
}

// FromLeads renders leads, returning an empty slice rather than nil.
func FromLeads(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, FromLead(l))
	}
	return out
}

// FromReport renders a report. Sources are emitted in sorted order by the
// JSON encoder.
func FromReport(r domain.Report) ReportResponse {
	out := make(ReportResponse, len(r))
	for source, leads := range r {
		out[source] = FromLeads(leads)
	}
	return out
}
