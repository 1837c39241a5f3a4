// Package scoring computes the 0-100 lead score from five weighted sub-scores.
//
// Scoring is pure: the same fields and rules always yield the same breakdown.
package scoring

import (
	"strings"

	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/platform/phone"
	"lead_triage_backend/platform/validator"
)

// ScoreVersion tracks the scoring model. Bump it when scoring logic changes.
const ScoreVersion = "2026-10-v1"

// Engine scores lead drafts against a fixed rule set.
type Engine struct {
	rules Rules
	val   *validator.Validator

	serviceAreas matcher
	nearby       matcher
	immediate    matcher
	notReady     matcher
	distant      matcher
	intent       matcher
	spam         matcher
}

// NewEngine validates rules and compiles their keyword sets. val may be nil.
func NewEngine(rules Rules, val *validator.Validator) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if val == nil {
		val = validator.New()
	}

	return &Engine{
		rules:        rules,
		val:          val,
		serviceAreas: newMatcher(rules.Location.ServiceAreas, false),
		nearby:       newMatcher(rules.Location.Nearby, false),
		immediate:    newMatcher(rules.Timeframe.Immediate, false),
		notReady:     newMatcher(rules.Timeframe.NotReady, false),
		distant:      newMatcher(rules.Timeframe.Distant, false),
		intent:       newMatcher(rules.Message.IntentKeywords, true),
		spam:         newMatcher(rules.Message.SpamKeywords, true),
	}, nil
}

// Default returns an engine over DefaultRules.
func Default() *Engine {
	e, err := NewEngine(DefaultRules(), nil)
	if err != nil {
		panic("scoring: default rules are invalid: " + err.Error())
	}
	return e
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Score computes the breakdown for one lead. Every sub-score lies in
// [0, weight] and Breakdown.Total is the lead's score.
func (e *Engine) Score(f domain.Fields) domain.Breakdown {
	return domain.Breakdown{
		Location:  e.scoreLocation(f.LocationPreference),
		Budget:    e.scoreBudget(f.Budget),
		Timeframe: e.scoreTimeframe(f.TimeframeToMove),
		Contact:   e.scoreContact(f.Email, f.Phone),
		Message:   e.scoreMessage(f.Message),
	}.Clamp()
}

func (e *Engine) scoreLocation(location string) int {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return 0
	case e.serviceAreas.match(location):
		return domain.WeightLocation
	case e.nearby.match(location):
		return e.rules.Location.NearbyScore
	default:
		return e.rules.Location.OtherScore
	}
}

func (e *Engine) scoreBudget(budget string) int {
	budget = strings.TrimSpace(budget)
	if budget == "" || isUndisclosed(budget) {
		return 0
	}

	r, ok := parseBudget(budget)
	switch {
	case ok && r.overlaps(e.rules.Budget.TargetMin, e.rules.Budget.TargetMax):
		return domain.WeightBudget
	case ok:
		return e.rules.Budget.OutsideScore
	case isPlausibleBudget(budget):
		return e.rules.Budget.PlausibleScore
	default:
		return 0
	}
}

func (e *Engine) scoreTimeframe(timeframe string) int {
	timeframe = strings.TrimSpace(timeframe)
	if timeframe == "" || e.notReady.match(timeframe) {
		return 0
	}
	if e.immediate.match(timeframe) {
		return domain.WeightTimeframe
	}

	tf := e.rules.Timeframe
	if days, ok := durationDays(timeframe); ok {
		switch {
		case days <= tf.ImmediateMax:
			return domain.WeightTimeframe
		case days <= tf.ShortDays:
			return tf.ShortScore
		case days <= tf.MediumDays:
			return tf.MediumScore
		default:
			return tf.LongScore
		}
	}
	if e.distant.match(timeframe) {
		return tf.LongScore
	}
	return 0
}

// scoreContact gives full credit only when both channels are present and
// valid. Any other present channel earns the partial credit.
func (e *Engine) scoreContact(email, phoneNumber string) int {
	email = strings.TrimSpace(email)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if email == "" && phoneNumber == "" {
		return 0
	}

	if e.val.IsEmail(email) && phone.IsValid(phoneNumber, e.rules.Contact.DefaultRegion) {
		return domain.WeightContact
	}
	return e.rules.Contact.PartialScore
}

func (e *Engine) scoreMessage(message string) int {
	message = strings.TrimSpace(message)
	if message == "" || e.spam.match(message) {
		return 0
	}

	if e.intent.match(message) {
		if len(strings.Fields(message)) >= e.rules.Message.MinTokens {
			return domain.WeightMessage
		}
		return e.rules.Message.ShortScore
	}
	return e.rules.Message.GenericScore
}
