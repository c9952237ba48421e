package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

// EngineConfig carries the dependencies and tournament snapshot an
// Engine is built from. Store, Scorer, Tournament, and Areas are
// required; Notifier and Metrics may be nil.
type EngineConfig struct {
	Tournament domain.TournamentConfig
	Areas      []domain.Area

	Store    ports.EvaluationStore
	Scorer   ports.ScoreModel
	Notifier ports.Notifier
	Metrics  ports.MetricsCollector
}

// Engine is the tournament-scoped facade over the scoring engine. It
// accepts judge submissions, retractions, and offline batches, and
// computes rankings on demand. The tournament and area configuration is
// a read-only snapshot; editing it is owned by an external
// collaborator, and a new Engine is built per snapshot.
type Engine struct {
	config  domain.TournamentConfig
	areas   []domain.Area
	byID    map[string]domain.Area
	store   ports.EvaluationStore
	scorer  ports.ScoreModel
	ranking *RankingEngine
	sync    *SyncCoordinator

	notifier ports.Notifier
	metrics  ports.MetricsCollector
	tracer   trace.Tracer
	now      func() time.Time
}

// NewEngine builds an engine for one tournament configuration snapshot.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("evaluation store must not be nil")
	}
	if cfg.Scorer == nil {
		return nil, fmt.Errorf("score model must not be nil")
	}
	if len(cfg.Areas) == 0 {
		return nil, fmt.Errorf("%w: tournament has no areas", domain.ErrInvalidConfiguration)
	}

	e := &Engine{
		config:   cfg.Tournament,
		areas:    cfg.Areas,
		byID:     make(map[string]domain.Area, len(cfg.Areas)),
		store:    cfg.Store,
		scorer:   cfg.Scorer,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		tracer:   otel.Tracer("engine"),
		now:      time.Now,
	}
	for _, a := range cfg.Areas {
		if _, dup := e.byID[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate area id %q", domain.ErrInvalidConfiguration, a.ID)
		}
		e.byID[a.ID] = a
	}

	aggregator, err := NewAggregator(cfg.Store, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	e.ranking, err = NewRankingEngine(aggregator, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	resolver, err := NewConflictResolver(cfg.Tournament.ConflictPolicy)
	if err != nil {
		return nil, err
	}
	e.sync, err = NewSyncCoordinator(cfg.Store, cfg.Scorer, e, resolver, cfg.Notifier, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// AreaByID implements ports.AreaCatalog over the engine's configuration
// snapshot.
func (e *Engine) AreaByID(id string) (domain.Area, bool) {
	a, ok := e.byID[id]
	return a, ok
}

// SubmitEvaluation scores and records one judge's online submission.
// The input is validated against the area configuration; invalid
// selections, blocked time overruns, and forbidden resubmissions are
// returned as typed errors and nothing is recorded. On success the
// record is current for its key and a SAVED notification is emitted.
func (e *Engine) SubmitEvaluation(
	ctx context.Context,
	key domain.EvaluationKey,
	input domain.EvaluationInput,
) (domain.Evaluation, error) {
	ctx, span := e.tracer.Start(ctx, "engine.submit_evaluation",
		trace.WithAttributes(
			attribute.String("evaluation.team_id", key.TeamID),
			attribute.String("evaluation.area_id", key.AreaID),
			attribute.String("evaluation.judge_id", key.JudgeID),
		))
	defer span.End()

	area, ok := e.byID[key.AreaID]
	if !ok {
		e.countSubmission(key.AreaID, "rejected")
		return domain.Evaluation{}, domain.NewSubmissionError(key,
			fmt.Sprintf("area %q is not configured", key.AreaID), domain.ErrUnknownArea)
	}

	score, err := e.scorer.ComputeEvaluationScore(ctx, area, input)
	if err != nil {
		e.countSubmission(area.Code, "rejected")
		return domain.Evaluation{}, err
	}

	ev, err := e.store.Submit(ctx, key, input, score)
	if err != nil {
		e.countSubmission(area.Code, "rejected")
		return domain.Evaluation{}, err
	}
	e.countSubmission(area.Code, "accepted")
	span.SetAttributes(
		attribute.Float64("evaluation.score", ev.Score.Achieved),
		attribute.Int("evaluation.version", ev.Version),
	)

	if err := e.publish(ctx, domain.EventSaved, key); err != nil {
		return domain.Evaluation{}, err
	}
	return ev, nil
}

// RetractEvaluation withdraws the current evaluation for the key.
// History is retained; the key becomes unscored until resubmission, and
// a DELETED notification is emitted.
func (e *Engine) RetractEvaluation(ctx context.Context, key domain.EvaluationKey) error {
	ctx, span := e.tracer.Start(ctx, "engine.retract_evaluation")
	defer span.End()

	if err := e.store.Retract(ctx, key); err != nil {
		return err
	}
	return e.publish(ctx, domain.EventDeleted, key)
}

// Rank computes the current leaderboard for the given teams under the
// engine's tournament configuration.
func (e *Engine) Rank(ctx context.Context, teams []domain.Team, filter domain.RankingFilter) ([]domain.TeamRanking, error) {
	return e.ranking.Rank(ctx, e.config, e.areas, teams, filter)
}

// Reconcile applies a batch of offline submissions under the
// tournament's conflict policy.
func (e *Engine) Reconcile(ctx context.Context, batch []domain.PendingEvaluation) (ReconcileResult, error) {
	return e.sync.Reconcile(ctx, e.config, batch)
}

// History returns every retained version for the key in increasing
// version order.
func (e *Engine) History(ctx context.Context, key domain.EvaluationKey) ([]domain.Evaluation, error) {
	return e.store.HistoryFor(ctx, key)
}

func (e *Engine) countSubmission(area, status string) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordCounter("submissions_total", 1,
		map[string]string{"area": area, "status": status})
	e.metrics.RecordGauge("stored_keys", float64(e.store.Len(context.Background())),
		map[string]string{"metric": "stored_keys"})
}

func (e *Engine) publish(ctx context.Context, typ domain.EventType, key domain.EvaluationKey) error {
	if e.notifier == nil {
		return nil
	}
	event := domain.ChangeEvent{
		ID:           uuid.NewString(),
		Type:         typ,
		TournamentID: e.config.ID,
		AreaID:       key.AreaID,
		TeamID:       key.TeamID,
		At:           e.now(),
	}
	if err := e.notifier.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}
