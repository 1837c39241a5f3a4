// Package leads provides the lead triage bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"lead_triage_backend/internal/adapters/storage"
	"lead_triage_backend/internal/events"
	apphttp "lead_triage_backend/internal/http"
	"lead_triage_backend/internal/leads/handler"
	"lead_triage_backend/internal/leads/intent"
	"lead_triage_backend/internal/leads/repository"
	"lead_triage_backend/internal/leads/scoring"
	"lead_triage_backend/internal/leads/service"
	"lead_triage_backend/internal/leads/tier"
	"lead_triage_backend/platform/ai/openrouter"
	"lead_triage_backend/platform/config"
	"lead_triage_backend/platform/logger"
	"lead_triage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Deps are the infrastructure handles the module may use. Pool, Redis and
// Storage are optional; without them the module falls back to in-memory
// storage, no intent cache and no upload archive.
type Deps struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Storage   storage.StorageService
	EventBus  events.Bus
	Validator *validator.Validator
	Config    *config.Config
	Logger    *logger.Logger
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	processor *service.Processor
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(deps Deps) (*Module, error) {
	cfg, log := deps.Config, deps.Logger

	engine, err := NewEngine(cfg, deps.Validator)
	if err != nil {
		return nil, err
	}

	tiers, err := NewTierClassifier(cfg)
	if err != nil {
		return nil, err
	}

	classifier, err := NewIntentClassifier(cfg, deps.Redis, log)
	if err != nil {
		return nil, err
	}
	log.Info("intent classifier ready", "backend", intent.BackendName(classifier))

	var store repository.Store
	if deps.Pool != nil {
		store = repository.NewPostgresStore(deps.Pool)
	} else {
		store = repository.NewMemoryStore()
		log.Warn("DATABASE_URL not configured; leads are kept in memory")
	}

	opts := []service.Option{
		service.WithConcurrency(cfg.GetScoringConcurrency()),
		service.WithBus(deps.EventBus),
		service.WithLogger(log),
	}
	if deps.Storage != nil {
		opts = append(opts, service.WithArchiver(storage.NewArchiver(deps.Storage, cfg.GetMinioBucketLeadUploads())))
	}

	processor := service.New(store, engine, tiers, classifier, opts...)

	return &Module{
		handler:   handler.New(processor),
		processor: processor,
	}, nil
}

// NewEngine loads the scoring rules. PHONE_DEFAULT_REGION overrides the
// region from the rules file.
func NewEngine(cfg config.ScoringConfig, val *validator.Validator) (*scoring.Engine, error) {
	rules, err := scoring.LoadRules(cfg.GetScoringRulesFile())
	if err != nil {
		return nil, err
	}
	if region := cfg.GetPhoneDefaultRegion(); region != "" {
		rules.Contact.DefaultRegion = region
	}
	return scoring.NewEngine(rules, val)
}

// NewTierClassifier builds the tier classifier from configured thresholds.
func NewTierClassifier(cfg config.TierConfig) (*tier.Classifier, error) {
	return tier.New(
		tier.Thresholds{Hot: cfg.GetTierHotMin(), Medium: cfg.GetTierMediumMin(), Low: cfg.GetTierLowMin()},
		tier.Policy{DowngradeLabels: cfg.GetIntentDowngradeLabels()},
	)
}

// NewIntentClassifier picks the LLM backend when an API key is configured and
// the keyword heuristic otherwise. The LLM backend is guarded by the
// configured timeout and rate limit, and cached in Redis when available.
func NewIntentClassifier(cfg config.IntentConfig, rdb *redis.Client, log *logger.Logger) (intent.Classifier, error) {
	if !cfg.IsLLMIntentEnabled() {
		return intent.NewGuard(intent.NewHeuristicClassifier(), cfg.GetIntentTimeout(), 0), nil
	}

	llm, err := intent.NewLLMClassifier(openrouter.NewModel(openrouter.Config{
		APIKey:    cfg.GetIntentAPIKey(),
		BaseURL:   cfg.GetIntentBaseURL(),
		Model:     cfg.GetIntentModel(),
		MaxTokens: 200,
	}))
	if err != nil {
		return nil, err
	}

	guarded := intent.NewGuard(llm, cfg.GetIntentTimeout(), cfg.GetIntentRatePerSec())
	if rdb == nil || cfg.GetIntentCacheTTL() <= 0 {
		return guarded, nil
	}
	return intent.WithCache(guarded, intent.NewCache(rdb, cfg.GetIntentCacheTTL(), log)), nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Processor returns the batch processor for external use.
func (m *Module) Processor() *service.Processor {
	return m.processor
}

// RegisterRoutes mounts leads routes at the root and under /api/v1.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Root)
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
