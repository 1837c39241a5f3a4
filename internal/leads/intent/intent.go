// Package intent classifies the intent behind a lead. Classifiers are treated
// as untrusted collaborators: callers wrap them in a Guard and degrade to a
// lead without analysis when classification fails.
package intent

import (
	"context"
	"errors"

	"lead_triage_backend/internal/leads/domain"
)

var (
	// ErrClassifierTimeout is returned when a classification exceeds its deadline.
	ErrClassifierTimeout = errors.New("intent classifier timed out")
	// ErrClassifierFailed is returned for any other classification failure.
	ErrClassifierFailed = errors.New("intent classifier failed")
)

// Classifier produces an intent label and a short reason for a lead.
type Classifier interface {
	Classify(ctx context.Context, fields domain.Fields) (domain.AIAnalysis, error)
}

// ClassifierFunc adapts an ordinary function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, fields domain.Fields) (domain.AIAnalysis, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, fields domain.Fields) (domain.AIAnalysis, error) {
	return f(ctx, fields)
}

// Named is implemented by classifiers that can report which backend they use.
type Named interface {
	Backend() string
}

// BackendName returns c's backend name, or "custom" when it does not report one.
func BackendName(c Classifier) string {
	if n, ok := c.(Named); ok {
		return n.Backend()
	}
	return "custom"
}
