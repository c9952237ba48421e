package scoring

import (
	"fmt"
	"math"

	"github.com/podiumhq/podium/internal/domain"
)

// scorePerformance computes the mission score: Σ(points × count) over
// counted missions, gated on dependencies, minus reported penalties.
// A mission whose dependencies are not all non-zero contributes exactly
// 0 regardless of its own count. The maximum is Σ(points × quantity)
// over all missions; penalties reduce achieved scores, never the
// ceiling.
func scorePerformance(area domain.Area, input domain.EvaluationInput) (domain.ScoreResult, error) {
	if area.Performance == nil {
		return domain.ScoreResult{}, fmt.Errorf("area %s: %w", area.ID, ErrMissingPerformanceConfig)
	}

	achieved, err := performanceAchieved(area, input)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	return domain.ScoreResult{
		Achieved:    achieved,
		MaxPossible: area.Performance.MaxScore(),
	}, nil
}

// performanceAchieved validates counts and applies dependency gating
// and penalties.
func performanceAchieved(area domain.Area, input domain.EvaluationInput) (float64, error) {
	var achieved float64
	for missionID, count := range input.MissionCounts {
		mission, ok := area.Performance.MissionByID(missionID)
		if !ok {
			return 0, fmt.Errorf("area %s: unknown mission %q: %w",
				area.ID, missionID, domain.ErrInvalidInput)
		}
		if count < 0 {
			return 0, fmt.Errorf("area %s: mission %q count %d is negative: %w",
				area.ID, missionID, count, domain.ErrInvalidInput)
		}
		if count > mission.Quantity {
			return 0, fmt.Errorf("area %s: mission %q count %d exceeds quantity %d: %w",
				area.ID, missionID, count, mission.Quantity, domain.ErrInvalidInput)
		}
		if !dependenciesMet(mission, input.MissionCounts) {
			continue
		}
		achieved += mission.Points * float64(count)
	}

	deduction, err := penaltyDeduction(area, input.PenaltiesApplied)
	if err != nil {
		return 0, err
	}
	return achieved - deduction, nil
}

// dependenciesMet reports whether every dependency mission has a
// non-zero count in the same submission.
func dependenciesMet(mission domain.PerformanceMission, counts map[string]int) bool {
	for _, dep := range mission.Dependencies {
		if counts[dep] <= 0 {
			return false
		}
	}
	return true
}

// penaltyDeduction totals the reported penalty occurrences against the
// area-global and mission-local penalty configurations. The penalty
// magnitude deducts once per occurrence whichever sign convention the
// configuration used.
func penaltyDeduction(area domain.Area, applied []domain.PenaltyCount) (float64, error) {
	var total float64
	for _, pc := range applied {
		penalty, ok := area.PenaltyByType(pc.Type)
		if !ok {
			penalty, ok = missionPenaltyByType(area, pc.Type)
		}
		if !ok {
			return 0, fmt.Errorf("area %s: unknown penalty %q: %w",
				area.ID, pc.Type, domain.ErrInvalidInput)
		}
		total += math.Abs(penalty.Points) * float64(pc.Count)
	}
	return total, nil
}

// missionPenaltyByType searches mission-local penalty configurations.
func missionPenaltyByType(area domain.Area, penaltyType string) (domain.Penalty, bool) {
	for _, m := range area.Performance.Missions {
		for _, p := range m.Penalties {
			if p.Type == penaltyType {
				return p, true
			}
		}
	}
	return domain.Penalty{}, false
}
