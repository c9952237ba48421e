package scoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

var _ ports.ScoreModel = (*Model)(nil)

// Config bounds the inputs the model is willing to process. The limits
// guard against pathological submissions (thousands of selections or
// penalty occurrences) consuming memory and time; realistic areas stay
// far below them.
type Config struct {
	// MaxSelections caps the number of rubric selections in one
	// submission.
	MaxSelections int `yaml:"max_selections" json:"max_selections" validate:"min=1,max=10000"`

	// MaxMissionCounts caps the number of counted missions in one
	// submission.
	MaxMissionCounts int `yaml:"max_mission_counts" json:"max_mission_counts" validate:"min=1,max=10000"`

	// MaxPenaltyOccurrences caps the total penalty occurrences reported
	// in one submission.
	MaxPenaltyOccurrences int `yaml:"max_penalty_occurrences" json:"max_penalty_occurrences" validate:"min=1,max=100000"`
}

// DefaultConfig returns the limits used when callers have no reason to
// tune them.
func DefaultConfig() Config {
	return Config{
		MaxSelections:         1000,
		MaxMissionCounts:      1000,
		MaxPenaltyOccurrences: 10000,
	}
}

// Model computes evaluation scores by dispatching on the Area's scoring
// type. It is stateless and safe for concurrent use.
type Model struct {
	config Config
	tracer trace.Tracer
}

// NewModel creates a Model with validated limits.
func NewModel(config Config) (*Model, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &Model{
		config: config,
		tracer: otel.Tracer("score-model"),
	}, nil
}

// ComputeEvaluationScore validates the judge's input against the Area
// configuration and computes the achieved score and ceiling.
//
// Behavior by scoring type:
//   - rubric: score = Σ(selected option × criterion weight); omitted
//     criteria contribute 0; a value outside the criterion's closed
//     option set is invalid input.
//   - performance: score = Σ(points × count) for missions whose
//     dependencies all have a non-zero count, minus reported penalties;
//     counts above quantity are invalid input.
//   - mixed: rubric and performance sub-scores computed independently,
//     combined per the Area's MixedAggregation.
//
// Time handling is advisory at this layer: exceeding a blocking limit
// fails with ErrTimeExceeded before any computation; under the alert
// action the result carries TimeWarning instead.
func (m *Model) ComputeEvaluationScore(ctx context.Context, area domain.Area, input domain.EvaluationInput) (domain.ScoreResult, error) {
	_, span := m.tracer.Start(ctx, "Model.ComputeEvaluationScore",
		trace.WithAttributes(
			attribute.String("area.id", area.ID),
			attribute.String("area.scoring_type", string(area.ScoringType)),
		),
	)
	defer span.End()

	if err := m.checkLimits(input); err != nil {
		span.RecordError(err)
		return domain.ScoreResult{}, err
	}

	var warning bool
	if area.TimeLimit > 0 && input.ElapsedSeconds > area.TimeLimit {
		if area.TimeAction == domain.TimeActionBlock {
			err := fmt.Errorf("elapsed %ds over limit %ds: %w",
				input.ElapsedSeconds, area.TimeLimit, domain.ErrTimeExceeded)
			span.RecordError(err)
			return domain.ScoreResult{}, err
		}
		warning = true
	}

	var (
		result domain.ScoreResult
		err    error
	)
	switch area.ScoringType {
	case domain.ScoringRubric:
		result, err = scoreRubric(area, input)
	case domain.ScoringPerformance:
		result, err = scorePerformance(area, input)
	case domain.ScoringMixed:
		result, err = scoreMixed(area, input)
	default:
		err = fmt.Errorf("area %s: %w: %q", area.ID, ErrUnknownScoringType, area.ScoringType)
	}
	if err != nil {
		span.RecordError(err)
		return domain.ScoreResult{}, err
	}

	result.TimeWarning = warning
	span.SetAttributes(
		attribute.Float64("score.achieved", result.Achieved),
		attribute.Float64("score.max_possible", result.MaxPossible),
	)
	return result, nil
}

// checkLimits rejects submissions exceeding the configured bounds
// before any per-item validation runs.
func (m *Model) checkLimits(input domain.EvaluationInput) error {
	if len(input.RubricSelections) > m.config.MaxSelections {
		return fmt.Errorf("%d rubric selections exceed limit %d: %w",
			len(input.RubricSelections), m.config.MaxSelections, domain.ErrInvalidInput)
	}
	if len(input.MissionCounts) > m.config.MaxMissionCounts {
		return fmt.Errorf("%d mission counts exceed limit %d: %w",
			len(input.MissionCounts), m.config.MaxMissionCounts, domain.ErrInvalidInput)
	}
	var occurrences int
	for _, p := range input.PenaltiesApplied {
		if p.Count < 0 {
			return fmt.Errorf("penalty %q has negative count %d: %w",
				p.Type, p.Count, domain.ErrInvalidInput)
		}
		occurrences += p.Count
	}
	if occurrences > m.config.MaxPenaltyOccurrences {
		return fmt.Errorf("%d penalty occurrences exceed limit %d: %w",
			occurrences, m.config.MaxPenaltyOccurrences, domain.ErrInvalidInput)
	}
	return nil
}
