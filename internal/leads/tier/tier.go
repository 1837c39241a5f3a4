// Package tier maps scores to tiers and applies the intent downgrade policy.
package tier

import (
	"fmt"
	"strings"

	"lead_triage_backend/internal/leads/domain"
)

// Thresholds are the minimum scores for each tier. Anything below Low is JUNK.
type Thresholds struct {
	Hot    int `json:"hot"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// DefaultThresholds returns the standard 80/60/30 boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Hot: 80, Medium: 60, Low: 30}
}

// Validate requires Hot > Medium > Low > 0 and Hot <= 100.
func (t Thresholds) Validate() error {
	if !(t.Hot <= domain.MaxScore && t.Hot > t.Medium && t.Medium > t.Low && t.Low > 0) {
		return fmt.Errorf("tier thresholds must satisfy 100 >= hot > medium > low > 0, got %d/%d/%d", t.Hot, t.Medium, t.Low)
	}
	return nil
}

// Policy lists the intent labels that downgrade a lead by one tier.
type Policy struct {
	DowngradeLabels []string `json:"downgrade_labels"`
}

// DefaultPolicy downgrades spam and not_relevant leads.
func DefaultPolicy() Policy {
	return Policy{DowngradeLabels: []string{domain.IntentSpam, domain.IntentNotRelevant}}
}

func (p Policy) downgrades(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, l := range p.DowngradeLabels {
		if strings.ToLower(l) == label {
			return true
		}
	}
	return false
}

// Decision is the outcome of tier assignment. When Adjusted is true, Rule
// names the policy entry that moved the lead from BaseTier to Tier.
type Decision struct {
	Tier     domain.Tier
	BaseTier domain.Tier
	Adjusted bool
	Rule     string
}

// Classifier assigns tiers.
type Classifier struct {
	thresholds Thresholds
	policy     Policy
}

// New validates thresholds and returns a classifier.
func New(thresholds Thresholds, policy Policy) (*Classifier, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{thresholds: thresholds, policy: policy}, nil
}

// Default returns a classifier with default thresholds and policy.
func Default() *Classifier {
	c, _ := New(DefaultThresholds(), DefaultPolicy())
	return c
}

// Thresholds returns the configured boundaries.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Policy returns the configured downgrade policy.
func (c *Classifier) Policy() Policy {
	return c.policy
}

// FromScore maps a score to its tier. It is monotonic in score.
func (c *Classifier) FromScore(score int) domain.Tier {
	switch {
	case score >= c.thresholds.Hot:
		return domain.TierHot
	case score >= c.thresholds.Medium:
		return domain.TierMedium
	case score >= c.thresholds.Low:
		return domain.TierLow
	default:
		return domain.TierJunk
	}
}

// Assign computes the base tier from score and applies at most one downgrade
// step when the analysis carries a downgrade label. Intent never raises a tier.
func (c *Classifier) Assign(score int, ai *domain.AIAnalysis) Decision {
	base := c.FromScore(score)
	d := Decision{Tier: base, BaseTier: base}

	if ai == nil || !c.policy.downgrades(ai.IntentLabel) || base == domain.TierJunk {
		return d
	}

	d.Tier = base.Lower()
	d.Adjusted = true
	d.Rule = "intent:" + strings.ToLower(strings.TrimSpace(ai.IntentLabel)) + " downgrades one tier"
	return d
}

// Action returns the recommended follow-up for a tier.
func Action(t domain.Tier) string {
	switch t {
	case domain.TierHot:
		return "call now"
	case domain.TierMedium:
		return "call later"
	case domain.TierLow:
		return "nurture"
	default:
		return "ignore"
	}
}
