// Package application wires the scoring, aggregation, ranking, and
// reconciliation components into the engine's public operations.
package application

import (
	"fmt"

	"github.com/podiumhq/podium/internal/domain"
)

// TournamentTemplate defines the complete configuration for one
// tournament and serves as the primary configuration entry point for
// the engine. Templates are produced by the editing collaborator and
// consumed here as read-only snapshots.
type TournamentTemplate struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across template updates.
	Version string `yaml:"version" validate:"required,semver"`
	// Metadata contains descriptive information about the template for
	// organization and discovery.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Tournament holds the tournament-level scoring settings.
	Tournament TournamentSettings `yaml:"tournament" validate:"required"`
	// Areas defines the evaluable dimensions of the tournament.
	Areas []AreaConfig `yaml:"areas" validate:"required,min=1,dive"`
}

// Metadata provides descriptive information about a tournament template.
type Metadata struct {
	// Name is the human-readable identifier for this template.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description explains the template's purpose.
	Description string `yaml:"description" validate:"max=1000"`
	// Tags are categorical labels for filtering and grouping.
	Tags []string `yaml:"tags" validate:"max=20,dive,min=1,max=50"`
	// Labels are arbitrary key-value pairs for external integrations.
	Labels map[string]string `yaml:"labels" validate:"max=50"`
}

// TournamentSettings mirrors domain.TournamentConfig in YAML form.
type TournamentSettings struct {
	// ID identifies the tournament.
	ID string `yaml:"id" validate:"required,min=1,max=100"`
	// Name is the display name.
	Name string `yaml:"name" validate:"max=255"`
	// RankingMethod selects the percentage or raw ranking path.
	RankingMethod string `yaml:"ranking_method" validate:"required,oneof=percentage raw"`
	// AreaWeights optionally overrides area weights by code.
	AreaWeights map[string]float64 `yaml:"area_weights" validate:"omitempty,dive,gt=0"`
	// TieBreak is the ordered tie-break chain; keys are area codes or
	// the built-ins total_score, percentage, elapsed_time.
	TieBreak []string `yaml:"tie_break" validate:"max=10,dive,min=1"`
	// MultiJudgeAggregation collapses multiple judges' scores.
	MultiJudgeAggregation string `yaml:"multi_judge_aggregation" validate:"required,oneof=average median best worst last"`
	// AllowReevaluation permits versioned resubmissions.
	AllowReevaluation bool `yaml:"allow_reevaluation"`
	// ConflictPolicy selects offline reconciliation behavior.
	ConflictPolicy string `yaml:"conflict_policy" validate:"omitempty,oneof=last_write_wins server_wins client_wins manual"`
}

// AreaConfig defines one Area in YAML form.
type AreaConfig struct {
	// ID uniquely identifies the area within the tournament.
	ID string `yaml:"id" validate:"required,min=1,max=100"`
	// Name is the display name.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Code is the stable linking key referenced by weights and
	// tie-break chains.
	Code string `yaml:"code" validate:"required,areacode"`
	// ScoringType selects the scoring payload.
	ScoringType string `yaml:"scoring_type" validate:"required,oneof=rubric performance mixed"`
	// Weight scales the area's raw-method contribution.
	Weight float64 `yaml:"weight" validate:"required,gt=0"`
	// TimeLimitSeconds is the evaluation time limit; zero disables it.
	TimeLimitSeconds int `yaml:"time_limit_seconds" validate:"min=0,max=86400"`
	// TimeAction selects alert or block when the limit is exceeded.
	TimeAction string `yaml:"time_action" validate:"omitempty,oneof=alert block"`
	// Inactive excludes the area from ranking. The zero value keeps
	// areas active so templates only mark the exception.
	Inactive bool `yaml:"inactive"`
	// Order is the display and tie-break ordinal.
	Order int `yaml:"order" validate:"min=0"`
	// Penalties are area-global deductions.
	Penalties []PenaltyConfig `yaml:"penalties" validate:"omitempty,dive"`
	// Rubric is required for rubric and mixed areas.
	Rubric *RubricSection `yaml:"rubric"`
	// Performance is required for performance and mixed areas.
	Performance *PerformanceSection `yaml:"performance"`
	// MixedAggregation is required for mixed areas.
	MixedAggregation string `yaml:"mixed_aggregation" validate:"omitempty,oneof=sum weighted_average percentage"`
}

// PenaltyConfig defines one named deduction.
type PenaltyConfig struct {
	Type   string  `yaml:"type" validate:"required,min=1,max=100"`
	Name   string  `yaml:"name" validate:"max=255"`
	Points float64 `yaml:"points" validate:"required"`
}

// RubricSection holds the rubric payload.
type RubricSection struct {
	Criteria []CriterionConfig `yaml:"criteria" validate:"required,min=1,dive"`
}

// CriterionConfig defines one rubric criterion.
type CriterionConfig struct {
	ID       string    `yaml:"id" validate:"required,min=1,max=100"`
	Name     string    `yaml:"name" validate:"max=255"`
	MaxScore float64   `yaml:"max_score" validate:"required,gt=0"`
	Weight   float64   `yaml:"weight" validate:"required,gt=0"`
	Options  []float64 `yaml:"options" validate:"required,min=1"`
}

// PerformanceSection holds the mission payload.
type PerformanceSection struct {
	Missions []MissionConfig `yaml:"missions" validate:"required,min=1,dive"`
}

// MissionConfig defines one performance mission.
type MissionConfig struct {
	ID           string          `yaml:"id" validate:"required,min=1,max=100"`
	Name         string          `yaml:"name" validate:"max=255"`
	Points       float64         `yaml:"points" validate:"required,gt=0"`
	Quantity     int             `yaml:"quantity" validate:"required,min=1"`
	Dependencies []string        `yaml:"dependencies" validate:"omitempty,dive,min=1"`
	Penalties    []PenaltyConfig `yaml:"penalties" validate:"omitempty,dive"`
}

// ToDomain converts the validated template into the domain
// configuration the engine computes with.
func (t *TournamentTemplate) ToDomain() (domain.TournamentConfig, []domain.Area, error) {
	cfg := domain.TournamentConfig{
		ID:                    t.Tournament.ID,
		Name:                  t.Tournament.Name,
		RankingMethod:         domain.RankingMethod(t.Tournament.RankingMethod),
		AreaWeights:           t.Tournament.AreaWeights,
		TieBreak:              t.Tournament.TieBreak,
		MultiJudgeAggregation: domain.AggregationPolicy(t.Tournament.MultiJudgeAggregation),
		AllowReevaluation:     t.Tournament.AllowReevaluation,
		ConflictPolicy:        domain.ConflictPolicy(t.Tournament.ConflictPolicy),
	}
	if cfg.ConflictPolicy == "" {
		cfg.ConflictPolicy = domain.ConflictLastWriteWins
	}

	areas := make([]domain.Area, 0, len(t.Areas))
	for _, ac := range t.Areas {
		area, err := ac.toDomain()
		if err != nil {
			return domain.TournamentConfig{}, nil, err
		}
		areas = append(areas, area)
	}
	return cfg, areas, nil
}

func (ac AreaConfig) toDomain() (domain.Area, error) {
	area := domain.Area{
		ID:               ac.ID,
		Name:             ac.Name,
		Code:             ac.Code,
		ScoringType:      domain.ScoringType(ac.ScoringType),
		Weight:           ac.Weight,
		TimeLimit:        ac.TimeLimitSeconds,
		TimeAction:       domain.TimeAction(ac.TimeAction),
		Active:           !ac.Inactive,
		Order:            ac.Order,
		Penalties:        penaltiesToDomain(ac.Penalties),
		MixedAggregation: domain.MixedAggregation(ac.MixedAggregation),
	}
	if ac.TimeLimitSeconds > 0 && area.TimeAction == "" {
		area.TimeAction = domain.TimeActionAlert
	}

	if ac.Rubric != nil {
		criteria := make([]domain.RubricCriterion, 0, len(ac.Rubric.Criteria))
		for _, cc := range ac.Rubric.Criteria {
			criteria = append(criteria, domain.RubricCriterion{
				ID:       cc.ID,
				Name:     cc.Name,
				MaxScore: cc.MaxScore,
				Weight:   cc.Weight,
				Options:  cc.Options,
			})
		}
		area.Rubric = &domain.RubricConfig{Criteria: criteria}
	}
	if ac.Performance != nil {
		missions := make([]domain.PerformanceMission, 0, len(ac.Performance.Missions))
		for _, mc := range ac.Performance.Missions {
			missions = append(missions, domain.PerformanceMission{
				ID:           mc.ID,
				Name:         mc.Name,
				Points:       mc.Points,
				Quantity:     mc.Quantity,
				Dependencies: mc.Dependencies,
				Penalties:    penaltiesToDomain(mc.Penalties),
			})
		}
		area.Performance = &domain.PerformanceConfig{Missions: missions}
	}

	if area.MaxPossibleScore() <= 0 {
		return domain.Area{}, fmt.Errorf("area %s has a zero score ceiling: %w",
			ac.ID, domain.ErrInvalidConfiguration)
	}
	return area, nil
}

func penaltiesToDomain(configs []PenaltyConfig) []domain.Penalty {
	if len(configs) == 0 {
		return nil
	}
	penalties := make([]domain.Penalty, 0, len(configs))
	for _, pc := range configs {
		penalties = append(penalties, domain.Penalty{Type: pc.Type, Name: pc.Name, Points: pc.Points})
	}
	return penalties
}
