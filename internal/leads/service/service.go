// Package service runs upload batches through ingest, scoring, intent
// classification and tiering, and owns the lead store lifecycle.
package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"lead_triage_backend/internal/events"
	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/internal/leads/ingest"
	"lead_triage_backend/internal/leads/intent"
	"lead_triage_backend/internal/leads/repository"
	"lead_triage_backend/internal/leads/scoring"
	"lead_triage_backend/internal/leads/tier"
	"lead_triage_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds per-batch scoring and classification when no
// limit is configured.
const DefaultConcurrency = 8

// Archiver stores the raw bytes of an upload. Discard removes an archived
// upload whose batch could not be stored.
type Archiver interface {
	Archive(ctx context.Context, batchID uuid.UUID, fileName string, body []byte) (string, error)
	Discard(ctx context.Context, key string) error
}

// Upload is one file submitted for processing.
type Upload struct {
	FileName string
	Body     []byte
}

// BatchResult summarizes a processed upload.
type BatchResult struct {
	BatchID            uuid.UUID
	FileName           string
	Count              int
	Skipped            int
	ClassifierFailures int
	// NoContact counts stored leads that carried neither email nor phone.
	NoContact int
	Adjusted           int
	Tiers              map[domain.Tier]int
	ArchiveKey         string
	Leads              []domain.Lead
}

// RulesSnapshot describes the active scoring and tiering configuration.
type RulesSnapshot struct {
	Version       string
	Rules         scoring.Rules
	Thresholds    tier.Thresholds
	Policy        tier.Policy
	IntentBackend string
}

// Processor turns uploads into stored leads.
type Processor struct {
	// mu is held for reading by every in-flight Process call and for writing
	// by Clear, so a clear never interleaves with a batch.
	mu sync.RWMutex

	store       repository.Store
	engine      *scoring.Engine
	tiers       *tier.Classifier
	classifier  intent.Classifier
	archiver    Archiver
	bus         events.Bus
	log         *logger.Logger
	concurrency int
	now         func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency sets how many leads of one batch are scored at once.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithArchiver enables raw upload archiving.
func WithArchiver(a Archiver) Option {
	return func(p *Processor) { p.archiver = a }
}

// WithBus publishes batch and clear events on bus.
func WithBus(bus events.Bus) Option {
	return func(p *Processor) { p.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// New builds a processor. engine, tiers and classifier must be non-nil.
func New(store repository.Store, engine *scoring.Engine, tiers *tier.Classifier, classifier intent.Classifier, opts ...Option) *Processor {
	p := &Processor{
		store:       store,
		engine:      engine,
		tiers:       tiers,
		classifier:  classifier,
		log:         logger.Nop(),
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process ingests an upload and appends the resulting leads to the store.
// Either every lead of the batch is stored or none is.
func (p *Processor) Process(ctx context.Context, up Upload) (BatchResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	start := p.now()
	batchID := uuid.New()
	ctx = context.WithValue(ctx, logger.BatchIDKey, batchID.String())
	log := p.log.WithContext(ctx)

	reader, err := ingest.Open(bytes.NewReader(up.Body))
	if err != nil {
		return BatchResult{}, err
	}
	drafts, err := reader.ReadAll()
	for _, skip := range reader.Skips() {
		log.RowSkipped(skip.Row, skip.Err.Error())
	}
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{
		BatchID:  batchID,
		FileName: up.FileName,
		Skipped:  reader.Stats().Skipped,
		Tiers:    make(map[domain.Tier]int, len(domain.Tiers)),
	}
	for _, draft := range drafts {
		if draft.NoContact {
			result.NoContact++
		}
	}
	for _, t := range domain.Tiers {
		result.Tiers[t] = 0
	}

	if p.archiver != nil {
		key, err := p.archiver.Archive(ctx, batchID, up.FileName, up.Body)
		if err != nil {
			log.Warn("upload_archive_failed", slog.String("error", err.Error()))
		} else {
			result.ArchiveKey = key
		}
	}

	leads, failures, err := p.triage(ctx, log, batchID, drafts)
	if err != nil {
		p.discard(ctx, log, result.ArchiveKey)
		return BatchResult{}, err
	}

	stored, err := p.store.PutBatch(ctx, leads)
	if err != nil {
		log.DatabaseError("put_batch", err)
		p.discard(ctx, log, result.ArchiveKey)
		return BatchResult{}, err
	}

	result.Leads = stored
	result.Count = len(stored)
	result.ClassifierFailures = failures
	for _, lead := range stored {
		result.Tiers[lead.Tier]++
		if lead.TierAdjusted {
			result.Adjusted++
		}
	}

	elapsed := float64(p.now().Sub(start).Microseconds()) / 1000
	log.BatchProcessed(batchID.String(), result.Count, result.Skipped, result.ClassifierFailures, elapsed)
	p.publish(ctx, events.LeadBatchProcessed{
		BaseEvent:          events.NewBaseEvent(),
		BatchID:            batchID,
		FileName:           up.FileName,
		Count:              result.Count,
		Skipped:            result.Skipped,
		ClassifierFailures: result.ClassifierFailures,
		NoContact:          result.NoContact,
		Tiers:              tierCounts(result.Tiers),
		Adjusted:           result.Adjusted,
		ArchiveKey:         result.ArchiveKey,
		DurationMs:         elapsed,
	})

	return result, nil
}

// discard drops the archived copy of a batch that was not stored. It runs
// even when ctx is already cancelled.
func (p *Processor) discard(ctx context.Context, log *logger.Logger, key string) {
	if p.archiver == nil || key == "" {
		return
	}
	if err := p.archiver.Discard(context.WithoutCancel(ctx), key); err != nil {
		log.Warn("upload_archive_discard_failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// triage scores, classifies and tiers every draft. Results keep draft order.
func (p *Processor) triage(ctx context.Context, log *logger.Logger, batchID uuid.UUID, drafts []ingest.Draft) ([]domain.Lead, int, error) {
	leads := make([]domain.Lead, len(drafts))
	var failures atomic.Int64

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, draft := range drafts {
		g.Go(func() error {
			breakdown := p.engine.Score(draft.Fields)
			score := breakdown.Total()

			var ai *domain.AIAnalysis
			analysis, err := p.classifier.Classify(ctx, draft.Fields)
			if err != nil {
				failures.Add(1)
				log.ClassifierFailure(draft.Row, err)
			} else {
				ai = &analysis
			}

			decision := p.tiers.Assign(score, ai)
			leads[i] = domain.Lead{
				BatchID:      batchID,
				Row:          draft.Row,
				Fields:       draft.Fields,
				Extra:        draft.Extra,
				Score:        score,
				Breakdown:    breakdown,
				Tier:         decision.Tier,
				BaseTier:     decision.BaseTier,
				TierAdjusted: decision.Adjusted,
				TierRule:     decision.Rule,
				Action:       tier.Action(decision.Tier),
				AI:           ai,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	// Nothing is stored once the request is cancelled.
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return leads, int(failures.Load()), nil
}

// Leads returns every stored lead in id order.
func (p *Processor) Leads(ctx context.Context) ([]domain.Lead, error) {
	return p.store.List(ctx)
}

// Report returns HOT leads grouped by source.
func (p *Processor) Report(ctx context.Context) (domain.Report, error) {
	return p.store.GroupHotBySource(ctx)
}

// Clear empties the store once in-flight batches have finished.
func (p *Processor) Clear(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, err := p.store.Clear(ctx)
	if err != nil {
		p.log.WithContext(ctx).DatabaseError("clear", err)
		return 0, err
	}

	p.log.WithContext(ctx).Info("leads_cleared", slog.Int("count", n))
	p.publish(ctx, events.LeadsCleared{BaseEvent: events.NewBaseEvent(), Count: n})
	return n, nil
}

// Ping checks the backing store.
func (p *Processor) Ping(ctx context.Context) error {
	return p.store.Ping(ctx)
}

// Rules describes the active configuration.
func (p *Processor) Rules() RulesSnapshot {
	return RulesSnapshot{
		Version:       scoring.ScoreVersion,
		Rules:         p.engine.Rules(),
		Thresholds:    p.tiers.Thresholds(),
		Policy:        p.tiers.Policy(),
		IntentBackend: intent.BackendName(p.classifier),
	}
}

func (p *Processor) publish(ctx context.Context, event events.Event) {
	if p.bus != nil {
		p.bus.Publish(ctx, event)
	}
}

func tierCounts(tiers map[domain.Tier]int) map[string]int {
	out := make(map[string]int, len(tiers))
	for t, n := range tiers {
		out[string(t)] = n
	}
	return out
}
