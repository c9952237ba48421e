package middleware

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

var _ ports.EvaluationStore = (*SubmissionGuard)(nil)

// SubmissionGuard wraps an EvaluationStore with pre-write enforcement:
// the injected judge-assignment check and an optional rate limit that
// keeps offline flush bursts from stampeding the store. Reads pass
// through untouched.
type SubmissionGuard struct {
	next     ports.EvaluationStore
	assigned ports.AssignmentChecker
	limiter  *rate.Limiter
}

// NewSubmissionGuard creates a guard around next. checker may be nil to
// skip assignment enforcement; limiter may be nil for unthrottled
// writes.
func NewSubmissionGuard(next ports.EvaluationStore, checker ports.AssignmentChecker, limiter *rate.Limiter) (*SubmissionGuard, error) {
	if next == nil {
		return nil, fmt.Errorf("submission guard requires a store")
	}
	return &SubmissionGuard{next: next, assigned: checker, limiter: limiter}, nil
}

// Submit enforces assignment and throttling before delegating.
func (g *SubmissionGuard) Submit(ctx context.Context, key domain.EvaluationKey, input domain.EvaluationInput, score domain.ScoreResult) (domain.Evaluation, error) {
	if err := g.admit(ctx, key); err != nil {
		return domain.Evaluation{}, err
	}
	return g.next.Submit(ctx, key, input, score)
}

// Append enforces assignment and throttling before delegating.
// Reconciliation writes flow through here, so offline batches are
// throttled per record.
func (g *SubmissionGuard) Append(ctx context.Context, key domain.EvaluationKey, input domain.EvaluationInput, score domain.ScoreResult, evaluatedAt time.Time, promote bool) (domain.Evaluation, error) {
	if err := g.admit(ctx, key); err != nil {
		return domain.Evaluation{}, err
	}
	return g.next.Append(ctx, key, input, score, evaluatedAt, promote)
}

// admit applies the assignment check, then waits for rate capacity.
// Waiting honors context cancellation, so callers control how long a
// throttled write may block.
func (g *SubmissionGuard) admit(ctx context.Context, key domain.EvaluationKey) error {
	if g.assigned != nil && !g.assigned.IsJudgeAssigned(ctx, key.JudgeID, key.AreaID) {
		return domain.NewSubmissionError(key, "judge is not assigned to this area", domain.ErrJudgeNotAssigned)
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("submission throttled: %w", err)
		}
	}
	return nil
}

// CurrentFor delegates to the wrapped store.
func (g *SubmissionGuard) CurrentFor(ctx context.Context, teamID, areaID string) ([]domain.Evaluation, error) {
	return g.next.CurrentFor(ctx, teamID, areaID)
}

// CurrentByJudge delegates to the wrapped store.
func (g *SubmissionGuard) CurrentByJudge(ctx context.Context, key domain.EvaluationKey) (domain.Evaluation, bool, error) {
	return g.next.CurrentByJudge(ctx, key)
}

// HistoryFor delegates to the wrapped store.
func (g *SubmissionGuard) HistoryFor(ctx context.Context, key domain.EvaluationKey) ([]domain.Evaluation, error) {
	return g.next.HistoryFor(ctx, key)
}

// Retract delegates to the wrapped store. Retraction is an explicit
// admin action and is neither assignment-checked nor throttled.
func (g *SubmissionGuard) Retract(ctx context.Context, key domain.EvaluationKey) error {
	return g.next.Retract(ctx, key)
}

// Len delegates to the wrapped store.
func (g *SubmissionGuard) Len(ctx context.Context) int { return g.next.Len(ctx) }
