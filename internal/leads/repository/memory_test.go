package repository

import (
	"context"
	"sync"
	"testing"

	"lead_triage_backend/internal/leads/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLeads(n int, tier domain.Tier, source string) []domain.Lead {
	out := make([]domain.Lead, n)
	for i := range out {
		out[i] = domain.Lead{
			Row:    i + 2,
			Fields: domain.Fields{Name: "Lead", Source: source},
			Extra:  map[string]string{"notes": "x"},
			Score:  85,
			Tier:   tier,
			AI:     &domain.AIAnalysis{IntentLabel: domain.IntentSeriousBuyer, ShortReason: "ready"},
		}
	}
	return out
}

func TestMemoryStoreAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.PutBatch(ctx, sampleLeads(3, domain.TierHot, "Web"))
	require.NoError(t, err)
	second, err := s.PutBatch(ctx, sampleLeads(2, domain.TierLow, "Web"))
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, idsOf(first))
	assert.Equal(t, []int64{4, 5}, idsOf(second))
	for _, l := range first {
		assert.False(t, l.CreatedAt.IsZero())
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, idsOf(all))
}

func TestMemoryStoreClearIsIdempotentAndResetsIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.PutBatch(ctx, sampleLeads(4, domain.TierHot, ""))
	require.NoError(t, err)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = s.Clear(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	again, err := s.PutBatch(ctx, sampleLeads(1, domain.TierHot, ""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), again[0].ID)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	stored, err := s.PutBatch(ctx, sampleLeads(1, domain.TierHot, "Web"))
	require.NoError(t, err)

	stored[0].Extra["notes"] = "changed"
	stored[0].AI.IntentLabel = domain.IntentSpam

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", all[0].Extra["notes"])
	assert.Equal(t, domain.IntentSeriousBuyer, all[0].AI.IntentLabel)
}

func TestMemoryStoreGroupHotBySource(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.PutBatch(ctx, sampleLeads(2, domain.TierHot, "Web"))
	require.NoError(t, err)
	_, err = s.PutBatch(ctx, sampleLeads(2, domain.TierMedium, "Web"))
	require.NoError(t, err)
	_, err = s.PutBatch(ctx, sampleLeads(1, domain.TierHot, ""))
	require.NoError(t, err)

	r, err := s.GroupHotBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.UnknownSource, "Web"}, r.Sources())
	assert.Len(t, r["Web"], 2)
	assert.Len(t, r[domain.UnknownSource], 1)
}

func TestMemoryStoreConcurrentBatchesKeepContiguousIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	results := make([][]domain.Lead, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := s.PutBatch(ctx, sampleLeads(5, domain.TierLow, ""))
			assert.NoError(t, err)
			results[i] = out
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, batch := range results {
		for i := 1; i < len(batch); i++ {
			assert.Equal(t, batch[i-1].ID+1, batch[i].ID)
		}
		for _, l := range batch {
			assert.False(t, seen[l.ID])
			seen[l.ID] = true
		}
	}
	assert.Len(t, seen, 40)
}

func idsOf(leads []domain.Lead) []int64 {
	out := make([]int64, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}
