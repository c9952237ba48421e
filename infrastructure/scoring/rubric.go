package scoring

import (
	"fmt"

	"github.com/podiumhq/podium/internal/domain"
)

// scoreRubric computes the rubric score: Σ(selected value × criterion
// weight) over the judge's selections. Every criterion is mandatory;
// an omitted criterion contributes 0 rather than failing. The maximum
// is Σ(maxScore × weight) over all criteria regardless of selections.
//
// Rubric scoring defines no penalty term, so reported penalties on a
// pure rubric area are invalid input.
func scoreRubric(area domain.Area, input domain.EvaluationInput) (domain.ScoreResult, error) {
	if area.Rubric == nil {
		return domain.ScoreResult{}, fmt.Errorf("area %s: %w", area.ID, ErrMissingRubricConfig)
	}
	if area.ScoringType == domain.ScoringRubric && len(input.PenaltiesApplied) > 0 {
		return domain.ScoreResult{}, fmt.Errorf(
			"area %s: rubric areas accept no penalties: %w", area.ID, domain.ErrInvalidInput)
	}

	achieved, err := rubricAchieved(area, input.RubricSelections)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	return domain.ScoreResult{
		Achieved:    achieved,
		MaxPossible: area.Rubric.MaxScore(),
	}, nil
}

// rubricAchieved sums the weighted selections, rejecting values outside
// each criterion's closed option set and references to unknown
// criteria.
func rubricAchieved(area domain.Area, selections map[string]float64) (float64, error) {
	var achieved float64
	for criterionID, value := range selections {
		criterion, ok := area.Rubric.CriterionByID(criterionID)
		if !ok {
			return 0, fmt.Errorf("area %s: unknown criterion %q: %w",
				area.ID, criterionID, domain.ErrInvalidInput)
		}
		if !criterion.AllowsOption(value) {
			return 0, fmt.Errorf("area %s: criterion %q does not allow value %v: %w",
				area.ID, criterionID, value, domain.ErrInvalidInput)
		}
		achieved += value * criterion.Weight
	}
	return achieved, nil
}
