package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

// RejectedEvaluation pairs a pending submission with the reason it was
// refused, so the submitting client can decide whether to resubmit,
// request an override, or abandon.
type RejectedEvaluation struct {
	Pending domain.PendingEvaluation
	Err     error
}

// ReconcileResult reports the outcome of one reconciliation batch.
// Accepted submissions were recorded in the store; conflict losers are
// retained in history without becoming current and still count as
// accepted.
type ReconcileResult struct {
	Accepted []domain.Evaluation
	Rejected []RejectedEvaluation
}

// SyncCoordinator reconciles evaluations queued by offline clients
// against the store, applying the tournament's conflict policy and
// emitting change notifications so collaborators caching ranking output
// invalidate it.
type SyncCoordinator struct {
	store    ports.EvaluationStore
	scorer   ports.ScoreModel
	catalog  ports.AreaCatalog
	resolver ports.ConflictResolver
	notifier ports.Notifier
	metrics  ports.MetricsCollector
	tracer   trace.Tracer

	now func() time.Time
}

// NewSyncCoordinator creates a coordinator. The notifier and metrics
// collector may be nil; the remaining dependencies are required.
func NewSyncCoordinator(
	store ports.EvaluationStore,
	scorer ports.ScoreModel,
	catalog ports.AreaCatalog,
	resolver ports.ConflictResolver,
	notifier ports.Notifier,
	metrics ports.MetricsCollector,
) (*SyncCoordinator, error) {
	if store == nil || scorer == nil || catalog == nil || resolver == nil {
		return nil, fmt.Errorf("store, scorer, catalog, and resolver must not be nil")
	}
	return &SyncCoordinator{
		store:    store,
		scorer:   scorer,
		catalog:  catalog,
		resolver: resolver,
		notifier: notifier,
		metrics:  metrics,
		tracer:   otel.Tracer("sync-coordinator"),
		now:      time.Now,
	}, nil
}

type scoredPending struct {
	pending domain.PendingEvaluation
	score   domain.ScoreResult
}

// Reconcile applies a batch of queued offline submissions to the store.
// Pendings are validated and scored first; invalid ones are rejected
// individually without failing the batch. Valid pendings for the same
// key are resolved against each other and any existing current
// evaluation under the conflict policy: the winner becomes current,
// losers are appended to history. When a current evaluation exists and
// the tournament forbids reevaluation, every pending for that key is
// rejected. One change notification is emitted per affected
// (tournament, area, team), however many submissions touched it.
func (sc *SyncCoordinator) Reconcile(
	ctx context.Context,
	config domain.TournamentConfig,
	batch []domain.PendingEvaluation,
) (ReconcileResult, error) {
	ctx, span := sc.tracer.Start(ctx, "sync_coordinator.reconcile",
		trace.WithAttributes(
			attribute.String("tournament.id", config.ID),
			attribute.String("conflict.policy", sc.resolver.Name()),
			attribute.Int("batch.size", len(batch)),
		))
	defer span.End()

	var result ReconcileResult
	byKey := make(map[domain.EvaluationKey][]scoredPending)
	for _, p := range batch {
		area, ok := sc.catalog.AreaByID(p.Key.AreaID)
		if !ok {
			result.Rejected = append(result.Rejected, RejectedEvaluation{
				Pending: p,
				Err:     fmt.Errorf("%w: %s", domain.ErrUnknownArea, p.Key.AreaID),
			})
			continue
		}
		score, err := sc.scorer.ComputeEvaluationScore(ctx, area, p.Input)
		if err != nil {
			result.Rejected = append(result.Rejected, RejectedEvaluation{Pending: p, Err: err})
			continue
		}
		byKey[p.Key] = append(byKey[p.Key], scoredPending{pending: p, score: score})
	}

	// Deterministic key order keeps version assignment and notification
	// order stable across runs of the same batch.
	keys := make([]domain.EvaluationKey, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	notified := make(map[domain.ChangeEvent]struct{})
	for _, key := range keys {
		accepted, rejected, err := sc.reconcileKey(ctx, config, key, byKey[key])
		if err != nil {
			return ReconcileResult{}, err
		}
		result.Rejected = append(result.Rejected, rejected...)
		if len(accepted) == 0 {
			continue
		}
		result.Accepted = append(result.Accepted, accepted...)

		event := domain.ChangeEvent{
			Type:         domain.EventSynced,
			TournamentID: byKey[key][0].pending.TournamentID,
			AreaID:       key.AreaID,
			TeamID:       key.TeamID,
		}
		if _, seen := notified[event]; seen {
			continue
		}
		notified[event] = struct{}{}
		if err := sc.publish(ctx, event); err != nil {
			return ReconcileResult{}, err
		}
	}

	if sc.metrics != nil {
		sc.metrics.RecordCounter("reconcile_outcomes_total", float64(len(result.Accepted)),
			map[string]string{"result": "accepted"})
		sc.metrics.RecordCounter("reconcile_outcomes_total", float64(len(result.Rejected)),
			map[string]string{"result": "rejected"})
	}
	span.SetAttributes(
		attribute.Int("reconcile.accepted", len(result.Accepted)),
		attribute.Int("reconcile.rejected", len(result.Rejected)),
	)
	return result, nil
}

// reconcileKey resolves all pendings for one key against the store.
func (sc *SyncCoordinator) reconcileKey(
	ctx context.Context,
	config domain.TournamentConfig,
	key domain.EvaluationKey,
	pendings []scoredPending,
) (accepted []domain.Evaluation, rejected []RejectedEvaluation, err error) {
	existing, hasExisting, err := sc.store.CurrentByJudge(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load current evaluation for %s: %w", key, err)
	}

	if hasExisting && !config.AllowReevaluation {
		for _, sp := range pendings {
			rejected = append(rejected, RejectedEvaluation{
				Pending: sp.pending,
				Err:     domain.NewSubmissionError(key, "reevaluation is disabled for this tournament", domain.ErrReevaluationNotAllowed),
			})
		}
		return nil, rejected, nil
	}

	var existingPtr *domain.Evaluation
	if hasExisting {
		existingPtr = &existing
	}
	raw := make([]domain.PendingEvaluation, len(pendings))
	for i, sp := range pendings {
		raw[i] = sp.pending
	}
	winner, err := sc.resolver.Resolve(existingPtr, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("conflict resolution failed for %s: %w", key, err)
	}

	now := sc.now()
	for i, sp := range pendings {
		ev, err := sc.store.Append(ctx, key, sp.pending.Input, sp.score, now, i == winner)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to record reconciled evaluation for %s: %w", key, err)
		}
		accepted = append(accepted, ev)
	}
	return accepted, nil, nil
}

func (sc *SyncCoordinator) publish(ctx context.Context, event domain.ChangeEvent) error {
	if sc.notifier == nil {
		return nil
	}
	event.ID = uuid.NewString()
	event.At = sc.now()
	if err := sc.notifier.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}
