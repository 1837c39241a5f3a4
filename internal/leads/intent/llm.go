package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/platform/sanitize"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	llmAppName     = "lead_intent"
	maxPromptField = 600
	maxReasonLen   = 200
)

const systemPrompt = `You are a strict classifier that reads a single real-estate lead and returns a JSON object only.
Allowed intent labels: serious_buyer, serious_renter, seller, casual_inquiry, spam, not_relevant.
Respond with exactly two string fields: "intent_label" (one of the allowed labels) and "short_reason" (one sentence, at most 20 words).
Do not add commentary, markdown or any other fields.`

// LLMClassifier asks a language model for the lead's intent through an ADK runner.
type LLMClassifier struct {
	runner         *runner.Runner
	sessionService session.Service
	modelName      string
}

// NewLLMClassifier builds the ADK agent and runner around llm.
func NewLLMClassifier(llm model.LLM) (*LLMClassifier, error) {
	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "IntentClassifier",
		Model:       llm,
		Description: "Classifies the intent of a real-estate lead.",
		Instruction: systemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create intent agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        llmAppName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create intent runner: %w", err)
	}

	return &LLMClassifier{runner: r, sessionService: sessionService, modelName: llm.Name()}, nil
}

// Backend reports the model used for classification.
func (c *LLMClassifier) Backend() string { return "llm:" + c.modelName }

// Classify runs one isolated session per lead.
func (c *LLMClassifier) Classify(ctx context.Context, f domain.Fields) (domain.AIAnalysis, error) {
	userID := "lead"
	sessionID := uuid.NewString()

	if _, err := c.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   llmAppName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("failed to create intent session: %w", err)
	}
	defer func() {
		_ = c.sessionService.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   llmAppName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildPrompt(f)}},
	}

	var output strings.Builder
	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}
	for event, err := range c.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return domain.AIAnalysis{}, fmt.Errorf("intent run failed: %w", err)
		}
		if event == nil || event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			if part != nil {
				output.WriteString(part.Text)
			}
		}
	}

	return parseAnalysis(output.String())
}

func buildPrompt(f domain.Fields) string {
	field := func(v, fallback string) string {
		v = sanitize.ForPrompt(v, maxPromptField)
		if v == "" {
			return fallback
		}
		return v
	}

	var b strings.Builder
	b.WriteString("Lead Data:\n")
	fmt.Fprintf(&b, "Name: %s\n", field(f.Name, "Not provided"))
	fmt.Fprintf(&b, "Email provided: %t\n", f.Email != "")
	fmt.Fprintf(&b, "Phone provided: %t\n", f.Phone != "")
	fmt.Fprintf(&b, "Property Type: %s\n", field(f.PropertyType, "Not specified"))
	fmt.Fprintf(&b, "Budget: %s\n", field(f.Budget, "Not specified"))
	fmt.Fprintf(&b, "Location Preference: %s\n", field(f.LocationPreference, "Not specified"))
	fmt.Fprintf(&b, "Timeframe: %s\n", field(f.TimeframeToMove, "Not specified"))
	fmt.Fprintf(&b, "Source: %s\n", field(f.Source, "Unknown"))
	fmt.Fprintf(&b, "Message: %s\n", field(f.Message, "No message"))
	return b.String()
}

type llmVerdict struct {
	IntentLabel string `json:"intent_label"`
	ShortReason string `json:"short_reason"`
}

// parseAnalysis extracts the verdict from model output, tolerating markdown
// fences and text around the JSON object.
func parseAnalysis(raw string) (domain.AIAnalysis, error) {
	content := stripFences(raw)
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var v llmVerdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return domain.AIAnalysis{}, fmt.Errorf("%w: invalid JSON from model: %v", ErrClassifierFailed, err)
	}

	label := strings.ToLower(strings.TrimSpace(v.IntentLabel))
	if !domain.IsIntentLabel(label) {
		return domain.AIAnalysis{}, fmt.Errorf("%w: unknown intent label %q", ErrClassifierFailed, v.IntentLabel)
	}

	reason := sanitize.Text(v.ShortReason)
	if len(reason) > maxReasonLen {
		reason = sanitize.ForPrompt(reason, maxReasonLen)
	}
	return domain.AIAnalysis{IntentLabel: label, ShortReason: reason}, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
