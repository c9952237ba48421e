package scoring

import (
	"fmt"

	"github.com/podiumhq/podium/internal/domain"
)

// scoreMixed computes the rubric and performance sub-scores
// independently, each against its own maximum, and combines them per
// the Area's MixedAggregation:
//
//   - sum: achieved = rubric + performance; max = rubricMax + perfMax.
//   - weighted_average: each sub-score normalized to a percentage of
//     its own max, averaged with equal weight; achieved is that
//     percentage over a max of 100.
//   - percentage: identical computation; the value only differs in how
//     downstream consumers present it.
//
// Penalty reports route to the performance sub-score; rubric scoring
// defines no penalty term.
func scoreMixed(area domain.Area, input domain.EvaluationInput) (domain.ScoreResult, error) {
	if area.Rubric == nil {
		return domain.ScoreResult{}, fmt.Errorf("area %s: %w", area.ID, ErrMissingRubricConfig)
	}
	if area.Performance == nil {
		return domain.ScoreResult{}, fmt.Errorf("area %s: %w", area.ID, ErrMissingPerformanceConfig)
	}

	rubricScore, err := rubricAchieved(area, input.RubricSelections)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	perfScore, err := performanceAchieved(area, input)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	rubricMax := area.Rubric.MaxScore()
	perfMax := area.Performance.MaxScore()

	switch area.MixedAggregation {
	case domain.MixedSum:
		return domain.ScoreResult{
			Achieved:    rubricScore + perfScore,
			MaxPossible: rubricMax + perfMax,
		}, nil
	case domain.MixedWeightedAverage, domain.MixedPercentage:
		return domain.ScoreResult{
			Achieved:    (subPercentage(rubricScore, rubricMax) + subPercentage(perfScore, perfMax)) / 2,
			MaxPossible: 100,
		}, nil
	default:
		return domain.ScoreResult{}, fmt.Errorf("area %s: %w: %q",
			area.ID, ErrUnknownMixedAggregation, area.MixedAggregation)
	}
}

// subPercentage normalizes a sub-score to its own maximum. A sub-type
// with a zero ceiling contributes 0 rather than dividing by zero;
// template validation rejects such configurations upstream.
func subPercentage(achieved, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return achieved / max * 100
}
