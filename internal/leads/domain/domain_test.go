package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakdownClampAndTotal(t *testing.T) {
	b := Breakdown{Location: 45, Budget: -3, Timeframe: 20, Contact: 15, Message: 11}.Clamp()
	assert.Equal(t, Breakdown{Location: 30, Budget: 0, Timeframe: 20, Contact: 15, Message: 10}, b)
	assert.Equal(t, 75, b.Total())
}

func TestTierLowerStopsAtJunk(t *testing.T) {
	assert.Equal(t, TierMedium, TierHot.Lower())
	assert.Equal(t, TierLow, TierMedium.Lower())
	assert.Equal(t, TierJunk, TierLow.Lower())
	assert.Equal(t, TierJunk, TierJunk.Lower())
}

func TestParseTier(t *testing.T) {
	got, err := ParseTier(" hot ")
	assert.NoError(t, err)
	assert.Equal(t, TierHot, got)

	_, err = ParseTier("warm")
	assert.Error(t, err)
}

func TestLeadDataIncludesCanonicalAndExtra(t *testing.T) {
	lead := Lead{
		Fields: Fields{Name: "Aisha", Source: "Website"},
		Extra:  map[string]string{"campaign": "spring", "name": "shadowed"},
	}
	data := lead.Data()
	assert.Equal(t, "Aisha", data["name"])
	assert.Equal(t, "spring", data["campaign"])
	assert.Equal(t, "", data["email"])
	assert.Len(t, data, len(CanonicalFields)+1)
}

func TestReportSourcesSorted(t *testing.T) {
	r := Report{"Website": {{}}, "Facebook": {{}, {}}, UnknownSource: {{}}}
	assert.Equal(t, []string{"Facebook", UnknownSource, "Website"}, r.Sources())
	assert.Equal(t, 4, r.Len())
}
