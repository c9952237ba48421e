package application

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

// Aggregator collapses the current per-judge evaluations of a team and
// area into a single area score under the tournament's aggregation
// policy. It reads the store on demand and holds no state of its own,
// so a computed score can never be stale.
type Aggregator struct {
	store   ports.EvaluationStore
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// NewAggregator creates an aggregator reading from the given store.
// The metrics collector may be nil.
func NewAggregator(store ports.EvaluationStore, metrics ports.MetricsCollector) (*Aggregator, error) {
	if store == nil {
		return nil, fmt.Errorf("evaluation store must not be nil")
	}
	return &Aggregator{
		store:   store,
		metrics: metrics,
		tracer:  otel.Tracer("aggregator"),
	}, nil
}

// AggregateArea computes the aggregated score of one team in one area.
// The boolean reports whether any judge has a current evaluation; a
// false result means the area is unscored for the team, which is
// distinct from a zero score.
func (ag *Aggregator) AggregateArea(
	ctx context.Context,
	team domain.Team,
	area domain.Area,
	policy domain.AggregationPolicy,
) (domain.TeamAreaScore, bool, error) {
	ctx, span := ag.tracer.Start(ctx, "aggregator.aggregate_area",
		trace.WithAttributes(
			attribute.String("team.id", team.ID),
			attribute.String("area.id", area.ID),
			attribute.String("aggregation.policy", string(policy)),
		))
	defer span.End()

	evals, err := ag.store.CurrentFor(ctx, team.ID, area.ID)
	if err != nil {
		return domain.TeamAreaScore{}, false, fmt.Errorf("failed to load current evaluations for %s/%s: %w", team.ID, area.ID, err)
	}
	if len(evals) == 0 {
		span.SetAttributes(attribute.Bool("area.scored", false))
		return domain.TeamAreaScore{}, false, nil
	}

	achieved, err := aggregate(evals, policy)
	if err != nil {
		return domain.TeamAreaScore{}, false, err
	}

	maxPossible := area.MaxPossibleScore()
	score := domain.TeamAreaScore{
		TeamID:      team.ID,
		AreaID:      area.ID,
		Score:       achieved,
		MaxPossible: maxPossible,
		Percentage:  domain.RoundPercentage(achieved, maxPossible),
		JudgeCount:  len(evals),
	}
	for _, ev := range evals {
		score.ElapsedSeconds += ev.Input.ElapsedSeconds
	}

	span.SetAttributes(
		attribute.Float64("area.score", score.Score),
		attribute.Int("area.percentage", score.Percentage),
		attribute.Int("area.judge_count", score.JudgeCount),
	)
	if ag.metrics != nil {
		ag.metrics.RecordHistogram("area_score_percentage", float64(score.Percentage),
			map[string]string{"area": area.Code})
	}
	return score, true, nil
}

// aggregate collapses per-judge achieved scores under the policy.
func aggregate(evals []domain.Evaluation, policy domain.AggregationPolicy) (float64, error) {
	if len(evals) == 1 {
		return evals[0].Score.Achieved, nil
	}

	switch policy {
	case domain.AggregateAverage, "":
		var sum float64
		for _, ev := range evals {
			sum += ev.Score.Achieved
		}
		return sum / float64(len(evals)), nil

	case domain.AggregateMedian:
		scores := make([]float64, len(evals))
		for i, ev := range evals {
			scores[i] = ev.Score.Achieved
		}
		sort.Float64s(scores)
		mid := len(scores) / 2
		if len(scores)%2 == 1 {
			return scores[mid], nil
		}
		return (scores[mid-1] + scores[mid]) / 2, nil

	case domain.AggregateBest:
		best := math.Inf(-1)
		for _, ev := range evals {
			best = math.Max(best, ev.Score.Achieved)
		}
		return best, nil

	case domain.AggregateWorst:
		worst := math.Inf(1)
		for _, ev := range evals {
			worst = math.Min(worst, ev.Score.Achieved)
		}
		return worst, nil

	case domain.AggregateLast:
		last := evals[0]
		for _, ev := range evals[1:] {
			if ev.EvaluatedAt.After(last.EvaluatedAt) {
				last = ev
			}
		}
		return last.Score.Achieved, nil

	default:
		return 0, fmt.Errorf("%w: unknown aggregation policy %q",
			domain.ErrInvalidConfiguration, policy)
	}
}
