package intent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lead_triage_backend/internal/leads/domain"

	"golang.org/x/time/rate"
)

// Guard bounds a classifier with a per-call timeout and a shared rate limit,
// and normalizes every failure to ErrClassifierTimeout or ErrClassifierFailed.
type Guard struct {
	next    Classifier
	timeout time.Duration
	limiter *rate.Limiter
}

// NewGuard wraps next. A zero timeout disables the deadline and a zero
// perSecond disables rate limiting.
func NewGuard(next Classifier, timeout time.Duration, perSecond float64) *Guard {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &Guard{
		next:    next,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Backend reports the wrapped classifier's backend.
func (g *Guard) Backend() string { return BackendName(g.next) }

type classifyResult struct {
	analysis domain.AIAnalysis
	err      error
}

// Classify waits for a rate slot and runs the wrapped classifier. A
// classifier that ignores its context cannot hold the caller past the deadline.
func (g *Guard) Classify(ctx context.Context, f domain.Fields) (domain.AIAnalysis, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return domain.AIAnalysis{}, g.mapErr(ctx, err)
	}

	done := make(chan classifyResult, 1)
	go func() {
		a, err := g.next.Classify(ctx, f)
		done <- classifyResult{analysis: a, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.AIAnalysis{}, g.mapErr(ctx, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return domain.AIAnalysis{}, g.mapErr(ctx, res.err)
		}
		if !domain.IsIntentLabel(res.analysis.IntentLabel) {
			return domain.AIAnalysis{}, fmt.Errorf("%w: unknown intent label %q", ErrClassifierFailed, res.analysis.IntentLabel)
		}
		return res.analysis, nil
	}
}

func (g *Guard) mapErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrClassifierTimeout), errors.Is(err, ErrClassifierFailed):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrClassifierTimeout, g.timeout)
	default:
		return fmt.Errorf("%w: %v", ErrClassifierFailed, err)
	}
}
