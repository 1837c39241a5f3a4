package domain

// Intent labels accepted from a classifier.
const (
	IntentSeriousBuyer  = "serious_buyer"
	IntentSeriousRenter = "serious_renter"
	IntentSeller        = "seller"
	IntentCasualInquiry = "casual_inquiry"
	IntentSpam          = "spam"
	IntentNotRelevant   = "not_relevant"

	// IntentUnknown is rendered when no analysis is available.
	IntentUnknown = "unknown"
)

// IntentLabels is the closed set of labels a classifier may return.
var IntentLabels = []string{
	IntentSeriousBuyer,
	IntentSeriousRenter,
	IntentSeller,
	IntentCasualInquiry,
	IntentSpam,
	IntentNotRelevant,
}

// IsIntentLabel reports whether label belongs to IntentLabels.
func IsIntentLabel(label string) bool {
	for _, l := range IntentLabels {
		if l == label {
			return true
		}
	}
	return false
}

// AIAnalysis is the classifier verdict attached to a lead.
type AIAnalysis struct {
	IntentLabel string `json:"intent_label"`
	ShortReason string `json:"short_reason"`
}
