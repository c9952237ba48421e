// Package domain contains pure, dependency-free domain models and types
// for the scoring and ranking engine.
package domain

// ScoringType discriminates how an Area turns judge input into a score.
// An Area carries exactly the configuration payload matching its type;
// scorers dispatch on this tag rather than on subtype hierarchies.
type ScoringType string

const (
	// ScoringRubric scores discrete-option selections per named criterion.
	ScoringRubric ScoringType = "rubric"

	// ScoringPerformance scores countable mission completions with
	// quantity caps and dependencies.
	ScoringPerformance ScoringType = "performance"

	// ScoringMixed combines a rubric sub-score and a performance
	// sub-score using the Area's MixedAggregation formula.
	ScoringMixed ScoringType = "mixed"
)

// TimeAction determines what happens when a judge's elapsed time exceeds
// the Area's time limit.
type TimeAction string

const (
	// TimeActionAlert attaches a warning flag to the score result without
	// affecting the numeric outcome.
	TimeActionAlert TimeAction = "alert"

	// TimeActionBlock rejects the submission with ErrTimeExceeded and
	// records no score.
	TimeActionBlock TimeAction = "block"
)

// MixedAggregation selects the formula used to combine the rubric and
// performance sub-scores of a mixed Area.
type MixedAggregation string

const (
	// MixedSum adds the two sub-scores; the maximum is the sum of the
	// two sub-maxima.
	MixedSum MixedAggregation = "sum"

	// MixedWeightedAverage normalizes each sub-score to a percentage of
	// its own maximum and averages the two with equal weight. The result
	// is reported as that percentage over a maximum of 100.
	MixedWeightedAverage MixedAggregation = "weighted_average"

	// MixedPercentage applies the same normalization as
	// MixedWeightedAverage; it differs only in how downstream consumers
	// present the number (achieved = weighted percentage, max = 100).
	MixedPercentage MixedAggregation = "percentage"
)

// Penalty is a named point deduction. Points holds the magnitude that is
// subtracted from the achieved score once per reported occurrence;
// configurations conventionally store it as a negative value, but the
// sign is normalized at scoring time so either convention deducts.
type Penalty struct {
	// Type is the stable identifier judges reference when reporting an
	// occurrence of this penalty.
	Type string `json:"type"`

	// Name is the human-readable label for display.
	Name string `json:"name,omitempty"`

	// Points is the per-occurrence deduction, typically negative.
	Points float64 `json:"points"`
}

// RubricCriterion is one judged criterion of a rubric Area. A judge must
// pick one of the closed Options; free-entry values are invalid input.
type RubricCriterion struct {
	// ID uniquely identifies the criterion within its Area.
	ID string `json:"id"`

	// Name is the display label for the criterion.
	Name string `json:"name,omitempty"`

	// MaxScore is the highest selectable value and the basis for the
	// criterion's contribution to the Area maximum.
	MaxScore float64 `json:"max_score"`

	// Weight scales the selected value; it is local to the criterion.
	Weight float64 `json:"weight"`

	// Options is the closed set of point values a judge may select.
	Options []float64 `json:"options"`
}

// AllowsOption reports whether v is one of the criterion's selectable
// option values.
func (c RubricCriterion) AllowsOption(v float64) bool {
	for _, opt := range c.Options {
		if opt == v {
			return true
		}
	}
	return false
}

// PerformanceMission is one countable objective of a performance Area.
type PerformanceMission struct {
	// ID uniquely identifies the mission within its Area.
	ID string `json:"id"`

	// Name is the display label for the mission.
	Name string `json:"name,omitempty"`

	// Points is awarded per completed unit.
	Points float64 `json:"points"`

	// Quantity caps the number of countable repetitions.
	Quantity int `json:"quantity"`

	// Dependencies lists mission ids that must have a non-zero count in
	// the same submission for this mission to count at all.
	Dependencies []string `json:"dependencies,omitempty"`

	// Penalties are deductions local to this mission.
	Penalties []Penalty `json:"penalties,omitempty"`
}

// MaxPoints returns the mission's contribution to the Area maximum.
func (m PerformanceMission) MaxPoints() float64 {
	return m.Points * float64(m.Quantity)
}

// RubricConfig holds the rubric payload of a rubric or mixed Area.
type RubricConfig struct {
	Criteria []RubricCriterion `json:"criteria"`
}

// MaxScore returns the rubric's maximum achievable score,
// Σ(maxScore × weight) over all criteria.
func (r RubricConfig) MaxScore() float64 {
	var max float64
	for _, c := range r.Criteria {
		max += c.MaxScore * c.Weight
	}
	return max
}

// CriterionByID returns the criterion with the given id, if present.
func (r RubricConfig) CriterionByID(id string) (RubricCriterion, bool) {
	for _, c := range r.Criteria {
		if c.ID == id {
			return c, true
		}
	}
	return RubricCriterion{}, false
}

// PerformanceConfig holds the mission payload of a performance or mixed
// Area.
type PerformanceConfig struct {
	Missions []PerformanceMission `json:"missions"`
}

// MaxScore returns the performance maximum, Σ(points × quantity) over
// all missions. Penalties never reduce the ceiling, only achieved scores.
func (p PerformanceConfig) MaxScore() float64 {
	var max float64
	for _, m := range p.Missions {
		max += m.MaxPoints()
	}
	return max
}

// MissionByID returns the mission with the given id, if present.
func (p PerformanceConfig) MissionByID(id string) (PerformanceMission, bool) {
	for _, m := range p.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return PerformanceMission{}, false
}

// Area is one evaluable dimension of a tournament. It is a tagged
// variant: ScoringType selects which payload (Rubric, Performance, or
// both plus MixedAggregation) is meaningful. Configuration is owned by
// the template-editing collaborator; the engine treats it as read-only.
type Area struct {
	// ID uniquely identifies the Area.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Code is the stable key used for cross-linking: tournament weight
	// overrides and tie-break chains reference Areas by code.
	Code string `json:"code"`

	// ScoringType selects the scoring payload.
	ScoringType ScoringType `json:"scoring_type"`

	// Weight scales this Area's contribution to raw-method ranking.
	// It must be positive for any Area counted in ranking.
	Weight float64 `json:"weight"`

	// TimeLimit is the advisory or blocking limit in seconds for a
	// judge's evaluation. Zero means no limit.
	TimeLimit int `json:"time_limit,omitempty"`

	// TimeAction selects alert or block behavior when TimeLimit is
	// exceeded.
	TimeAction TimeAction `json:"time_action,omitempty"`

	// Active excludes the Area from ranking when false.
	Active bool `json:"active"`

	// Order is the display and tie-break ordinal.
	Order int `json:"order"`

	// Penalties are Area-global deductions judges may report.
	Penalties []Penalty `json:"penalties,omitempty"`

	// Rubric is present for rubric and mixed Areas.
	Rubric *RubricConfig `json:"rubric,omitempty"`

	// Performance is present for performance and mixed Areas.
	Performance *PerformanceConfig `json:"performance,omitempty"`

	// MixedAggregation selects the combination formula for mixed Areas.
	MixedAggregation MixedAggregation `json:"mixed_aggregation,omitempty"`
}

// MaxPossibleScore returns the Area's score ceiling under its scoring
// type. Mixed Areas using weighted_average or percentage report on a
// 0-100 scale.
func (a Area) MaxPossibleScore() float64 {
	switch a.ScoringType {
	case ScoringRubric:
		if a.Rubric == nil {
			return 0
		}
		return a.Rubric.MaxScore()
	case ScoringPerformance:
		if a.Performance == nil {
			return 0
		}
		return a.Performance.MaxScore()
	case ScoringMixed:
		if a.MixedAggregation == MixedSum {
			var max float64
			if a.Rubric != nil {
				max += a.Rubric.MaxScore()
			}
			if a.Performance != nil {
				max += a.Performance.MaxScore()
			}
			return max
		}
		return 100
	}
	return 0
}

// PenaltyByType returns the Area-global penalty with the given type.
func (a Area) PenaltyByType(penaltyType string) (Penalty, bool) {
	for _, p := range a.Penalties {
		if p.Type == penaltyType {
			return p, true
		}
	}
	return Penalty{}, false
}
