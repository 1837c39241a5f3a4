package domain

// Sub-score weights. Each sub-score lies in [0, weight].
const (
	WeightLocation  = 30
	WeightBudget    = 25
	WeightTimeframe = 20
	WeightContact   = 15
	WeightMessage   = 10
	MaxScore        = 100
)

// Breakdown holds the five weighted sub-scores of a lead.
type Breakdown struct {
	Location  int `json:"location"`
	Budget    int `json:"budget"`
	Timeframe int `json:"timeframe"`
	Contact   int `json:"contact"`
	Message   int `json:"message"`
}

// Total is the sum of the sub-scores capped at MaxScore.
func (b Breakdown) Total() int {
	total := b.Location + b.Budget + b.Timeframe + b.Contact + b.Message
	if total > MaxScore {
		return MaxScore
	}
	return total
}

// Clamp bounds every sub-score to [0, weight].
func (b Breakdown) Clamp() Breakdown {
	return Breakdown{
		Location:  clamp(b.Location, WeightLocation),
		Budget:    clamp(b.Budget, WeightBudget),
		Timeframe: clamp(b.Timeframe, WeightTimeframe),
		Contact:   clamp(b.Contact, WeightContact),
		Message:   clamp(b.Message, WeightMessage),
	}
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
