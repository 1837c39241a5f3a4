package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"lead_triage_backend/internal/leads"
	"lead_triage_backend/internal/leads/intent"
	"lead_triage_backend/internal/leads/repository"
	"lead_triage_backend/internal/leads/scoring"
	"lead_triage_backend/internal/leads/service"
	"lead_triage_backend/internal/leads/transport"
	"lead_triage_backend/platform/config"
	"lead_triage_backend/platform/logger"
	"lead_triage_backend/platform/validator"

	"github.com/spf13/cobra"
)

type options struct {
	checkConfig bool
	useLLM      bool
	reportOnly  bool
	pretty      bool
}

// output is the JSON document printed for a scored file.
type output struct {
	Summary transport.ProcessResponse `json:"summary"`
	Leads   []transport.LeadResponse  `json:"leads,omitempty"`
	Report  transport.ReportResponse  `json:"report,omitempty"`
}

// configSummary is printed by --check-config.
type configSummary struct {
	IntentBackend   string                       `json:"intent_backend"`
	LLMConfigured   bool                         `json:"llm_configured"`
	RulesFile       string                       `json:"rules_file"`
	ScoringVersion  string                       `json:"scoring_version"`
	Thresholds      transport.ThresholdsResponse `json:"thresholds"`
	DowngradeLabels []string                     `json:"downgrade_labels"`
	Store           string                       `json:"store"`
	Cache           string                       `json:"cache"`
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "lead-score [file.csv]",
		Short: "Score and tier a lead CSV offline",
		Long: `Runs a CSV through the same ingest, scoring, intent and tiering pipeline as
the API and prints the scored leads as JSON. Nothing is persisted.

The keyword intent heuristic is used unless --llm is given and an API key is
configured.

Examples:
  # Score a file
  lead-score leads.csv

  # Only the HOT-by-source report
  lead-score --report leads.csv

  # Show which backends the current environment selects
  lead-score --check-config`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.BoolVar(&opts.checkConfig, "check-config", false, "print the active configuration and exit")
	f.BoolVar(&opts.useLLM, "llm", false, "use the configured LLM intent classifier")
	f.BoolVar(&opts.reportOnly, "report", false, "print only the HOT-by-source report")
	f.BoolVar(&opts.pretty, "pretty", true, "indent JSON output")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cfg.Env, cmd.ErrOrStderr())

	classifier, err := buildClassifier(cfg, opts.useLLM, log)
	if err != nil {
		return err
	}

	if opts.checkConfig {
		return printConfig(cmd.OutOrStdout(), cfg, classifier, opts.pretty)
	}
	if len(args) != 1 {
		return errors.New("a CSV file argument is required")
	}

	body, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	engine, err := leads.NewEngine(cfg, validator.New())
	if err != nil {
		return err
	}
	tiers, err := leads.NewTierClassifier(cfg)
	if err != nil {
		return err
	}

	p := service.New(repository.NewMemoryStore(), engine, tiers, classifier,
		service.WithConcurrency(cfg.GetScoringConcurrency()),
		service.WithLogger(log),
	)

	res, err := p.Process(cmd.Context(), service.Upload{FileName: args[0], Body: body})
	if err != nil {
		return err
	}

	tierCounts := make(map[string]int, len(res.Tiers))
	for t, n := range res.Tiers {
		tierCounts[string(t)] = n
	}
	out := output{Summary: transport.ProcessResponse{
		Message:            transport.ProcessedMessage(res.Count),
		Count:              res.Count,
		Skipped:            res.Skipped,
		ClassifierFailures: res.ClassifierFailures,
		NoContact:          res.NoContact,
		BatchID:            res.BatchID,
		Tiers:              tierCounts,
	}}

	if opts.reportOnly {
		r, err := p.Report(cmd.Context())
		if err != nil {
			return err
		}
		out.Report = transport.FromReport(r)
	} else {
		out.Leads = transport.FromLeads(res.Leads)
	}

	return writeJSON(cmd.OutOrStdout(), out, opts.pretty)
}

func buildClassifier(cfg *config.Config, useLLM bool, log *logger.Logger) (intent.Classifier, error) {
	if !useLLM {
		return intent.NewGuard(intent.NewHeuristicClassifier(), cfg.GetIntentTimeout(), 0), nil
	}
	if !cfg.IsLLMIntentEnabled() {
		return nil, errors.New("--llm requires OPENROUTER_API_KEY or OPENAI_API_KEY")
	}
	return leads.NewIntentClassifier(cfg, nil, log)
}

func printConfig(w io.Writer, cfg *config.Config, classifier intent.Classifier, pretty bool) error {
	store := "memory"
	if cfg.IsDatabaseEnabled() {
		store = "postgres"
	}
	cache := "disabled"
	if cfg.IsRedisEnabled() {
		cache = "redis"
	}
	labels := cfg.GetIntentDowngradeLabels()
	if labels == nil {
		labels = []string{}
	}

	tiers, err := leads.NewTierClassifier(cfg)
	if err != nil {
		return err
	}
	th := tiers.Thresholds()

	return writeJSON(w, configSummary{
		IntentBackend:   intent.BackendName(classifier),
		LLMConfigured:   cfg.IsLLMIntentEnabled(),
		RulesFile:       cfg.GetScoringRulesFile(),
		ScoringVersion:  scoring.ScoreVersion,
		Thresholds:      transport.ThresholdsResponse{Hot: th.Hot, Medium: th.Medium, Low: th.Low},
		DowngradeLabels: labels,
		Store:           store,
		Cache:           cache,
	}, pretty)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
