package intent

import (
	"context"
	"regexp"
	"strings"

	"lead_triage_backend/internal/leads/domain"
)

var (
	spamRe        = regexp.MustCompile(`(?i)\b(lottery|winner|click here|subscribe|free money|casino|viagra|crypto giveaway)`)
	irrelevantRe  = regexp.MustCompile(`(?i)\b(job|hiring|vacancy|resume|cv|internship|seo services|marketing services|web design)\b`)
	sellerRe      = regexp.MustCompile(`(?i)\b(sell|selling|list my|listing my|valuation|evaluate my)`)
	renterRe      = regexp.MustCompile(`(?i)\b(rent|renting|lease|leasing|tenancy|yearly contract)`)
	buyerRe       = regexp.MustCompile(`(?i)\b(buy|buying|purchase|invest|mortgage|off[- ]plan|own a)`)
	seriousSignal = regexp.MustCompile(`(?i)\b(asap|urgent|immediately|this month|budget|viewing|\d+\s*(bed|br|bhk)|bedroom|cash buyer|pre-approved)`)
)

// HeuristicClassifier labels leads from keywords. It needs no network access
// and is used when no LLM credentials are configured.
type HeuristicClassifier struct{}

// NewHeuristicClassifier returns the keyword classifier.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

// Backend reports the classifier backend.
func (*HeuristicClassifier) Backend() string { return "heuristic" }

// Classify never fails unless ctx is already done.
func (*HeuristicClassifier) Classify(ctx context.Context, f domain.Fields) (domain.AIAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return domain.AIAnalysis{}, err
	}

	msg := strings.TrimSpace(f.Message)
	detail := strings.Join([]string{msg, f.PropertyType, f.TimeframeToMove, f.Budget}, " ")

	switch {
	case spamRe.MatchString(msg):
		return analysis(domain.IntentSpam, "Message contains promotional or spam phrases."), nil
	case sellerRe.MatchString(msg):
		return analysis(domain.IntentSeller, "Wants to sell or list a property."), nil
	case renterRe.MatchString(msg) && seriousSignal.MatchString(detail):
		return analysis(domain.IntentSeriousRenter, "Looking to rent with concrete requirements."), nil
	case buyerRe.MatchString(msg) && seriousSignal.MatchString(detail):
		return analysis(domain.IntentSeriousBuyer, "Looking to buy with concrete requirements."), nil
	case irrelevantRe.MatchString(msg) && !renterRe.MatchString(msg) && !buyerRe.MatchString(msg):
		return analysis(domain.IntentNotRelevant, "Message is not about buying, renting or selling property."), nil
	case msg == "" && f.PropertyType == "" && f.Budget == "":
		return analysis(domain.IntentNotRelevant, "No message or property details provided."), nil
	default:
		return analysis(domain.IntentCasualInquiry, "General inquiry without firm requirements."), nil
	}
}

func analysis(label, reason string) domain.AIAnalysis {
	return domain.AIAnalysis{IntentLabel: label, ShortReason: reason}
}
