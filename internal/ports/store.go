// Package ports defines the core interfaces that form the contract
// between the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system
// testable.
package ports

import (
	"context"
	"time"

	"github.com/podiumhq/podium/internal/domain"
)

// EvaluationStore is the append-only ledger of judge evaluations. One
// versioned history exists per (team, area, judge) key; implementations
// must serialize writers per key so two concurrent resubmissions cannot
// both be accepted as current.
type EvaluationStore interface {
	// Submit records a judge's scored submission as the next version for
	// the key and makes it current. The first submission for a key
	// always succeeds; a resubmission succeeds only when the store
	// permits reevaluation, otherwise it fails with a SubmissionError
	// wrapping ErrReevaluationNotAllowed.
	Submit(ctx context.Context, key domain.EvaluationKey, input domain.EvaluationInput, score domain.ScoreResult) (domain.Evaluation, error)

	// Append records a submission at the next version with an explicit
	// evaluation time, optionally without promoting it to current.
	// Reconciliation uses it to retain conflict losers in history while
	// the resolved winner stays current. Append bypasses the
	// reevaluation gate; callers own that policy decision.
	Append(ctx context.Context, key domain.EvaluationKey, input domain.EvaluationInput, score domain.ScoreResult, evaluatedAt time.Time, promote bool) (domain.Evaluation, error)

	// CurrentFor returns the current evaluation of every judge for the
	// team and area, excluding retracted records. An empty slice means
	// the area is unscored for the team, not zero.
	CurrentFor(ctx context.Context, teamID, areaID string) ([]domain.Evaluation, error)

	// CurrentByJudge returns the current evaluation for one key.
	// The boolean reports whether one exists.
	CurrentByJudge(ctx context.Context, key domain.EvaluationKey) (domain.Evaluation, bool, error)

	// HistoryFor returns every retained version for the key in
	// increasing version order.
	HistoryFor(ctx context.Context, key domain.EvaluationKey) ([]domain.Evaluation, error)

	// Retract withdraws the key's current evaluation. History is
	// retained for audit; the key becomes unscored until resubmission.
	// Returns ErrNoCurrentEvaluation when nothing is current.
	Retract(ctx context.Context, key domain.EvaluationKey) error

	// Len reports the number of keys with at least one version.
	Len(ctx context.Context) int
}
