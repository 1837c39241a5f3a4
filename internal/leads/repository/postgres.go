package repository

import (
	"context"
	"time"

	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/internal/leads/report"
	"lead_triage_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const errStoreUnavailable = "lead store unavailable"

const insertLeadSQL = `
	INSERT INTO leads (
		id, batch_id, row_number, data, score, tier, base_tier, tier_adjusted,
		tier_rule, action, intent, reason, ai_analyzed, breakdown, source, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

const selectLeadColumns = `
	SELECT id, batch_id, row_number, data, score, tier, base_tier, tier_adjusted,
		tier_rule, action, intent, reason, breakdown, created_at
	FROM leads`

// PostgresStore persists leads in the leads table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a pool. The schema must already be migrated.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// PutBatch inserts all leads in one transaction. The table lock serializes
// concurrent batches so that ids stay contiguous per batch.
func (s *PostgresStore) PutBatch(ctx context.Context, leads []domain.Lead) ([]domain.Lead, error) {
	if len(leads) == 0 {
		return []domain.Lead{}, nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, unavailable("repository.PutBatch", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE leads IN EXCLUSIVE MODE`); err != nil {
		return nil, unavailable("repository.PutBatch", err)
	}

	var maxID int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM leads`).Scan(&maxID); err != nil {
		return nil, unavailable("repository.PutBatch", err)
	}

	createdAt := time.Now().UTC()
	out := make([]domain.Lead, len(leads))
	batch := &pgx.Batch{}
	for i, lead := range leads {
		lead.ID = maxID + int64(i) + 1
		if lead.CreatedAt.IsZero() {
			lead.CreatedAt = createdAt
		}
		out[i] = cloneLead(lead)

		var intent, reason *string
		if lead.AI != nil {
			intent, reason = &lead.AI.IntentLabel, &lead.AI.ShortReason
		}
		batch.Queue(insertLeadSQL,
			lead.ID, lead.BatchID, lead.Row, lead.Data(), lead.Score,
			string(lead.Tier), string(lead.BaseTier), lead.TierAdjusted, lead.TierRule,
			lead.Action, intent, reason, lead.AI != nil, lead.Breakdown,
			lead.Fields.Source, lead.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range leads {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return nil, unavailable("repository.PutBatch", err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, unavailable("repository.PutBatch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, unavailable("repository.PutBatch", err)
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.Lead, error) {
	return s.query(ctx, "repository.List", selectLeadColumns+` ORDER BY id ASC`)
}

func (s *PostgresStore) GroupHotBySource(ctx context.Context) (domain.Report, error) {
	leads, err := s.query(ctx, "repository.GroupHotBySource",
		selectLeadColumns+` WHERE tier = $1 ORDER BY id ASC`, string(domain.TierHot))
	if err != nil {
		return nil, err
	}
	return report.GroupHotBySource(leads), nil
}

func (s *PostgresStore) Clear(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leads`)
	if err != nil {
		return 0, unavailable("repository.Clear", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return unavailable("repository.Ping", err)
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, op, sql string, args ...any) ([]domain.Lead, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		items = append(items, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return items, nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead           domain.Lead
		batchID        uuid.UUID
		data           map[string]string
		tier, baseTier string
		intent, reason *string
	)
	err := row.Scan(
		&lead.ID, &batchID, &lead.Row, &data, &lead.Score, &tier, &baseTier,
		&lead.TierAdjusted, &lead.TierRule, &lead.Action, &intent, &reason,
		&lead.Breakdown, &lead.CreatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	lead.BatchID = batchID
	lead.Tier = domain.Tier(tier)
	lead.BaseTier = domain.Tier(baseTier)
	if intent != nil {
		lead.AI = &domain.AIAnalysis{IntentLabel: *intent}
		if reason != nil {
			lead.AI.ShortReason = *reason
		}
	}
	lead.Fields, lead.Extra = splitData(data)
	return lead, nil
}

// splitData separates canonical fields from extra columns in a stored data mapping.
func splitData(data map[string]string) (domain.Fields, map[string]string) {
	var fields domain.Fields
	var extra map[string]string
	for key, value := range data {
		if fields.Set(key, value) {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[key] = value
	}
	return fields, extra
}

func unavailable(op string, err error) error {
	return apperr.Unavailable(errStoreUnavailable, err).WithOp(op)
}
