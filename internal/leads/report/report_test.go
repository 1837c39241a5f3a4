package report

import (
	"testing"

	"lead_triage_backend/internal/leads/domain"

	"github.com/stretchr/testify/assert"
)

func lead(id int64, t domain.Tier, source string) domain.Lead {
	return domain.Lead{ID: id, Tier: t, Fields: domain.Fields{Name: "n", Source: source}}
}

func ids(leads []domain.Lead) []int64 {
	out := make([]int64, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

func TestGroupHotBySource(t *testing.T) {
	leads := []domain.Lead{
		lead(1, domain.TierHot, "Website"),
		lead(2, domain.TierMedium, "Website"),
		lead(3, domain.TierHot, ""),
		lead(4, domain.TierHot, "Facebook"),
		lead(5, domain.TierHot, "Website"),
		lead(6, domain.TierJunk, ""),
		lead(7, domain.TierHot, "  "),
	}

	r := GroupHotBySource(leads)

	assert.Equal(t, []string{"Facebook", domain.UnknownSource, "Website"}, r.Sources())
	assert.Equal(t, []int64{1, 5}, ids(r["Website"]))
	assert.Equal(t, []int64{3, 7}, ids(r[domain.UnknownSource]))
	assert.Equal(t, []int64{4}, ids(r["Facebook"]))
	assert.NotContains(t, r, "  ")
}

func TestGroupHotBySourceUnionEqualsHotSubset(t *testing.T) {
	var leads []domain.Lead
	tiers := domain.Tiers
	sources := []string{"A", "B", ""}
	for i := 0; i < 60; i++ {
		leads = append(leads, lead(int64(i+1), tiers[i%len(tiers)], sources[i%len(sources)]))
	}

	r := GroupHotBySource(leads)

	var hot int
	for _, l := range leads {
		if l.Tier == domain.TierHot {
			hot++
		}
	}
	assert.Equal(t, hot, r.Len())
	for _, group := range r {
		for i, l := range group {
			assert.Equal(t, domain.TierHot, l.Tier)
			if i > 0 {
				assert.Greater(t, l.ID, group[i-1].ID)
			}
		}
	}
}

func TestGroupHotBySourceEmpty(t *testing.T) {
	r := GroupHotBySource(nil)
	assert.NotNil(t, r)
	assert.Zero(t, r.Len())
}
