package scoring

import (
	"math/rand"
	"testing"

	"lead_triage_backend/internal/leads/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreLocation(t *testing.T) {
	e := Default()
	cases := map[string]int{
		"":                  0,
		"Dubai Marina":      30,
		"ABU DHABI":         30,
		"Sharjah":           20,
		"RAK":               20,
		"Ras Al Khaimah":    20,
		"Iraq":              10,
		"Muscat, Oman":      10,
		"  downtown dubai ": 30,
	}
	for input, want := range cases {
		assert.Equal(t, want, e.scoreLocation(input), "location %q", input)
	}
}

func TestScoreBudget(t *testing.T) {
	e := Default()
	cases := map[string]int{
		"":              0,
		"undisclosed":   0,
		"Flexible":      0,
		"1.5M":          25,
		"800k":          25,
		"AED 2,000,000": 25,
		"1M-2M":         25,
		"300k - 600k":   25,
		"up to 3m":      25,
		"100k":          12,
		"50M+":          12,
		"a few million": 12,
		"depends":       0,
	}
	for input, want := range cases {
		assert.Equal(t, want, e.scoreBudget(input), "budget %q", input)
	}
}

func TestScoreTimeframe(t *testing.T) {
	e := Default()
	cases := map[string]int{
		"":               0,
		"ASAP":           20,
		"Immediately":    20,
		"right now":      20,
		"within 30 days": 20,
		"2 weeks":        20,
		"a month":        20,
		"1-3 months":     15,
		"3-6 months":     8,
		"6+ months":      3,
		"next year":      3,
		"just looking":   0,
		"Not sure":       0,
		"unknown":        0,
		"not now":        0,
		"whenever":       0,
	}
	for input, want := range cases {
		assert.Equal(t, want, e.scoreTimeframe(input), "timeframe %q", input)
	}
}

func TestScoreContact(t *testing.T) {
	e := Default()
	cases := []struct {
		name, email, phone string
		want               int
	}{
		{"both valid", "aisha@example.com", "+971501234567", 15},
		{"both valid local format", "aisha@example.com", "050 123 4567", 15},
		{"email only", "aisha@example.com", "", 7},
		{"phone only", "", "+971501234567", 7},
		{"invalid phone", "aisha@example.com", "12", 7},
		{"invalid email", "not-an-email", "+971501234567", 7},
		{"none", "", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.scoreContact(tc.email, tc.phone))
		})
	}
}

func TestScoreMessage(t *testing.T) {
	e := Default()
	cases := []struct {
		message string
		want    int
	}{
		{"", 0},
		{"You are a lottery winner, click here", 0},
		{"Looking to buy a 2 bedroom apartment in Marina", 10},
		{"Buy villa", 5},
		{"Hello there", 3},
		{"I would like more information about your services please", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, e.scoreMessage(tc.message), "message %q", tc.message)
	}
}

func TestScoreFullLeadReachesCap(t *testing.T) {
	b := Default().Score(domain.Fields{
		Name:               "Aisha",
		Email:              "aisha@example.com",
		Phone:              "+971501234567",
		Message:            "Looking to buy a 3 bedroom villa with garden urgently",
		LocationPreference: "Dubai Hills",
		Budget:             "AED 4.5M",
		TimeframeToMove:    "ASAP",
	})
	assert.Equal(t, domain.Breakdown{Location: 30, Budget: 25, Timeframe: 20, Contact: 15, Message: 10}, b)
	assert.Equal(t, 100, b.Total())
}

func TestScoreIsDeterministicAndBounded(t *testing.T) {
	pool := func(values ...string) []string { return append(values, "") }
	locations := pool("Dubai", "Sharjah", "London", "al ain", "nan")
	budgets := pool("1M", "5k", "up to 30m", "millions", "undisclosed", "1-2", "AED 900,000")
	timeframes := pool("asap", "1-3 months", "3-6 months", "6+ months", "just looking", "2 years")
	emails := pool("a@b.co", "broken@", "x@example.com")
	phones := pool("+971501234567", "123", "0501234567")
	messages := pool("buy now", "Looking for a studio to rent near the metro", "lottery winner", "hi")

	e := Default()
	rng := rand.New(rand.NewSource(42))
	pick := func(xs []string) string { return xs[rng.Intn(len(xs))] }

	for i := 0; i < 2000; i++ {
		f := domain.Fields{
			LocationPreference: pick(locations),
			Budget:             pick(budgets),
			TimeframeToMove:    pick(timeframes),
			Email:              pick(emails),
			Phone:              pick(phones),
			Message:            pick(messages),
		}
		b := e.Score(f)
		require.Equal(t, b, e.Score(f), "score must be deterministic for %+v", f)

		assert.GreaterOrEqual(t, b.Location, 0)
		assert.LessOrEqual(t, b.Location, domain.WeightLocation)
		assert.GreaterOrEqual(t, b.Budget, 0)
		assert.LessOrEqual(t, b.Budget, domain.WeightBudget)
		assert.GreaterOrEqual(t, b.Timeframe, 0)
		assert.LessOrEqual(t, b.Timeframe, domain.WeightTimeframe)
		assert.GreaterOrEqual(t, b.Contact, 0)
		assert.LessOrEqual(t, b.Contact, domain.WeightContact)
		assert.GreaterOrEqual(t, b.Message, 0)
		assert.LessOrEqual(t, b.Message, domain.WeightMessage)

		sum := b.Location + b.Budget + b.Timeframe + b.Contact + b.Message
		assert.Equal(t, sum, b.Total())
		assert.LessOrEqual(t, b.Total(), domain.MaxScore)
		if f.Email == "" && f.Phone == "" {
			assert.Zero(t, b.Contact)
		}
	}
}
