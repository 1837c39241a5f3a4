package scoring

import (
	"errors"
	"fmt"
	"os"

	"lead_triage_backend/internal/leads/domain"

	"gopkg.in/yaml.v3"
)

// Rules holds the tunable parts of the scoring model. Weights are fixed by
// the domain; rules decide how much of each weight a lead earns.
type Rules struct {
	Location  LocationRules  `yaml:"location" json:"location"`
	Budget    BudgetRules    `yaml:"budget" json:"budget"`
	Timeframe TimeframeRules `yaml:"timeframe" json:"timeframe"`
	Contact   ContactRules   `yaml:"contact" json:"contact"`
	Message   MessageRules   `yaml:"message" json:"message"`
}

// LocationRules matches the location preference against service areas.
type LocationRules struct {
	ServiceAreas []string `yaml:"service_areas" json:"service_areas"`
	Nearby       []string `yaml:"nearby" json:"nearby"`
	NearbyScore  int      `yaml:"nearby_score" json:"nearby_score"`
	OtherScore   int      `yaml:"other_score" json:"other_score"`
}

// BudgetRules defines the target budget range in AED.
type BudgetRules struct {
	TargetMin      float64 `yaml:"target_min" json:"target_min"`
	TargetMax      float64 `yaml:"target_max" json:"target_max"`
	OutsideScore   int     `yaml:"outside_score" json:"outside_score"`
	PlausibleScore int     `yaml:"plausible_score" json:"plausible_score"`
}

// TimeframeRules scores urgency. Durations are compared in days against the bands.
type TimeframeRules struct {
	Immediate    []string `yaml:"immediate" json:"immediate"`
	NotReady     []string `yaml:"not_ready" json:"not_ready"`
	Distant      []string `yaml:"distant" json:"distant"`
	ImmediateMax int      `yaml:"immediate_max_days" json:"immediate_max_days"`
	ShortDays    int      `yaml:"short_days" json:"short_days"`
	ShortScore   int      `yaml:"short_score" json:"short_score"`
	MediumDays   int      `yaml:"medium_days" json:"medium_days"`
	MediumScore  int      `yaml:"medium_score" json:"medium_score"`
	LongScore    int      `yaml:"long_score" json:"long_score"`
}

// ContactRules controls email and phone credit.
type ContactRules struct {
	DefaultRegion string `yaml:"default_region" json:"default_region"`
	PartialScore  int    `yaml:"partial_score" json:"partial_score"`
}

// MessageRules controls message quality credit.
type MessageRules struct {
	IntentKeywords []string `yaml:"intent_keywords" json:"intent_keywords"`
	SpamKeywords   []string `yaml:"spam_keywords" json:"spam_keywords"`
	MinTokens      int      `yaml:"min_tokens" json:"min_tokens"`
	ShortScore     int      `yaml:"short_score" json:"short_score"`
	GenericScore   int      `yaml:"generic_score" json:"generic_score"`
}

// DefaultRules returns the built-in scoring rules.
func DefaultRules() Rules {
	return Rules{
		Location: LocationRules{
			ServiceAreas: []string{"dubai", "abu dhabi"},
			Nearby:       []string{"ajman", "al ain", "rak", "ras al khaimah", "sharjah"},
			NearbyScore:  20,
			OtherScore:   10,
		},
		Budget: BudgetRules{
			TargetMin:      500_000,
			TargetMax:      20_000_000,
			OutsideScore:   12,
			PlausibleScore: 12,
		},
		Timeframe: TimeframeRules{
			Immediate:    []string{"now", "immediate", "immediately", "asap", "urgent", "urgently", "right away", "this month"},
			NotReady:     []string{"just looking", "not sure", "browsing", "undecided", "no rush", "not now", "unknown"},
			Distant:      []string{"next year", "long term", "later", "someday"},
			ImmediateMax: 30,
			ShortDays:    90,
			ShortScore:   15,
			MediumDays:   180,
			MediumScore:  8,
			LongScore:    3,
		},
		Contact: ContactRules{
			DefaultRegion: "AE",
			PartialScore:  7,
		},
		Message: MessageRules{
			IntentKeywords: []string{
				"buy", "rent", "sell", "invest", "price", "looking for", "bedroom", "bhk",
				"studio", "villa", "apartment", "flat", "townhouse", "penthouse", "off-plan",
				"mortgage", "viewing", "lease", "property",
			},
			SpamKeywords: []string{"lottery", "winner", "click here", "subscribe", "free money", "casino", "viagra"},
			MinTokens:    6,
			ShortScore:   5,
			GenericScore: 3,
		},
	}
}

// LoadRules reads a YAML rules file on top of the defaults. Keys absent from
// the file keep their default values; unknown keys are rejected.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Rules{}, fmt.Errorf("open scoring rules: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return Rules{}, fmt.Errorf("decode scoring rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("scoring rules %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks that every configured score fits its weight.
func (r Rules) Validate() error {
	var errs []error
	check := func(name string, v, max int) {
		if v < 0 || v > max {
			errs = append(errs, fmt.Errorf("%s must be within [0, %d], got %d", name, max, v))
		}
	}

	check("location.nearby_score", r.Location.NearbyScore, domain.WeightLocation)
	check("location.other_score", r.Location.OtherScore, domain.WeightLocation)
	check("budget.outside_score", r.Budget.OutsideScore, domain.WeightBudget)
	check("budget.plausible_score", r.Budget.PlausibleScore, domain.WeightBudget)
	check("timeframe.short_score", r.Timeframe.ShortScore, domain.WeightTimeframe)
	check("timeframe.medium_score", r.Timeframe.MediumScore, domain.WeightTimeframe)
	check("timeframe.long_score", r.Timeframe.LongScore, domain.WeightTimeframe)
	check("contact.partial_score", r.Contact.PartialScore, domain.WeightContact)
	check("message.short_score", r.Message.ShortScore, domain.WeightMessage)
	check("message.generic_score", r.Message.GenericScore, domain.WeightMessage)

	if len(r.Location.ServiceAreas) == 0 {
		errs = append(errs, errors.New("location.service_areas must not be empty"))
	}
	if r.Budget.TargetMin < 0 || r.Budget.TargetMax < r.Budget.TargetMin {
		errs = append(errs, fmt.Errorf("budget target range [%v, %v] is invalid", r.Budget.TargetMin, r.Budget.TargetMax))
	}
	tf := r.Timeframe
	if tf.ImmediateMax <= 0 || tf.ShortDays <= tf.ImmediateMax || tf.MediumDays <= tf.ShortDays {
		errs = append(errs, errors.New("timeframe bands must satisfy 0 < immediate_max_days < short_days < medium_days"))
	}
	if len(r.Contact.DefaultRegion) != 2 {
		errs = append(errs, fmt.Errorf("contact.default_region must be a two-letter region, got %q", r.Contact.DefaultRegion))
	}
	if r.Message.MinTokens < 1 {
		errs = append(errs, errors.New("message.min_tokens must be at least 1"))
	}

	return errors.Join(errs...)
}
