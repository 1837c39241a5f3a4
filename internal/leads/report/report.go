// Package report aggregates HOT leads by source for the summary report.
package report

import "lead_triage_backend/internal/leads/domain"

// GroupHotBySource keeps only HOT leads and groups them by source. A blank
// source is bucketed as domain.UnknownSource. Within each group leads keep
// the order in which they appear in leads.
func GroupHotBySource(leads []domain.Lead) domain.Report {
	out := make(domain.Report)
	for _, lead := range leads {
		if lead.Tier != domain.TierHot {
			continue
		}
		source := lead.SourceOrUnknown()
		out[source] = append(out[source], lead)
	}
	return out
}
