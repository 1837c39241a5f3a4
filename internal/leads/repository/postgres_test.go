package repository

import (
	"context"
	"os"
	"testing"

	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/migrations"
	"lead_triage_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPostgresStore connects to TEST_DATABASE_URL and skips when it is unset.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.RunMigrations(ctx, pool, migrations.FS, "."))

	s := NewPostgresStore(pool)
	_, err = s.Clear(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = s.Clear(context.Background()) })
	return s
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()

	batchID := uuid.New()
	leads := sampleLeads(2, domain.TierHot, "Website")
	leads[1].AI = nil
	leads[1].Tier = domain.TierMedium
	leads[1].BaseTier = domain.TierHot
	leads[1].TierAdjusted = true
	leads[1].TierRule = "intent:spam downgrades one tier"
	leads[0].Breakdown = domain.Breakdown{Location: 20, Budget: 25, Timeframe: 20, Contact: 15, Message: 5}
	for i := range leads {
		leads[i].BatchID = batchID
	}

	stored, err := s.PutBatch(ctx, leads)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, idsOf(stored))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, batchID, all[0].BatchID)
	assert.Equal(t, "Website", all[0].Fields.Source)
	assert.Equal(t, "x", all[0].Extra["notes"])
	assert.Equal(t, leads[0].Breakdown, all[0].Breakdown)
	require.NotNil(t, all[0].AI)
	assert.Equal(t, domain.IntentSeriousBuyer, all[0].AI.IntentLabel)

	assert.Nil(t, all[1].AI)
	assert.True(t, all[1].TierAdjusted)
	assert.Equal(t, domain.TierHot, all[1].BaseTier)
	assert.Equal(t, "intent:spam downgrades one tier", all[1].TierRule)

	r, err := s.GroupHotBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Website"}, r.Sources())

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = s.Clear(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostgresStoreRejectsWholeBatch(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()

	leads := sampleLeads(3, domain.TierHot, "")
	leads[2].Score = 150 // violates the score CHECK constraint

	_, err := s.PutBatch(ctx, leads)
	require.Error(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
