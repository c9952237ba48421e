// Package testutils provides sample tournament data generation for
// demos, benchmarks, and tests.
package testutils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/podiumhq/podium/internal/domain"
)

// SampleTemplateYAML returns a complete tournament template covering
// all three scoring types: a rubric research area, a performance robot
// game, and a mixed core-values area.
func SampleTemplateYAML(tournamentID string) []byte {
	return []byte(fmt.Sprintf(`version: "1.0.0"
metadata:
  name: "Sample Robotics Tournament"
  description: "Generated sample configuration exercising rubric, performance, and mixed scoring."
  tags: ["sample", "robotics"]
tournament:
  id: "%s"
  name: "Sample Regional"
  ranking_method: raw
  tie_break: ["ROBOT_GAME", "total_score", "elapsed_time"]
  multi_judge_aggregation: median
  allow_reevaluation: true
  conflict_policy: last_write_wins
areas:
  - id: area-research
    name: "Research Project"
    code: PROJECT
    scoring_type: rubric
    weight: 1.0
    order: 1
    rubric:
      criteria:
        - id: innovation
          name: "Innovation"
          max_score: 10
          weight: 1
          options: [0, 2, 5, 7, 10]
        - id: presentation
          name: "Presentation"
          max_score: 10
          weight: 1
          options: [0, 2, 5, 7, 10]
  - id: area-robot-game
    name: "Robot Game"
    code: ROBOT_GAME
    scoring_type: performance
    weight: 2.0
    time_limit_seconds: 150
    time_action: alert
    order: 2
    penalties:
      - type: touch
        name: "Touch penalty"
        points: -10
    performance:
      missions:
        - id: m01
          name: "Bridge Crossing"
          points: 10
          quantity: 3
        - id: m02
          name: "Tower Delivery"
          points: 20
          quantity: 1
          dependencies: [m01]
  - id: area-core-values
    name: "Core Values"
    code: CORE_VALUES
    scoring_type: mixed
    weight: 1.0
    order: 3
    mixed_aggregation: weighted_average
    rubric:
      criteria:
        - id: teamwork
          name: "Teamwork"
          max_score: 4
          weight: 1
          options: [1, 2, 3, 4]
    performance:
      missions:
        - id: gp01
          name: "Gracious Professionalism"
          points: 5
          quantity: 2
`, tournamentID))
}

// GenerateTeams produces n teams with deterministic ids and shift/grade
// attributes cycled from small fixed sets.
func GenerateTeams(n int, seed int64) []domain.Team {
	rng := rand.New(rand.NewSource(seed))
	shifts := []string{"morning", "afternoon"}
	grades := []string{"elementary", "middle", "high"}

	teams := make([]domain.Team, 0, n)
	for i := 0; i < n; i++ {
		teams = append(teams, domain.Team{
			ID:    fmt.Sprintf("team-%03d", i+1),
			Name:  fmt.Sprintf("Team %03d", i+1),
			Shift: shifts[rng.Intn(len(shifts))],
			Grade: grades[rng.Intn(len(grades))],
		})
	}
	return teams
}

// GenerateEvaluationBatch produces one valid pending evaluation per
// (team, area, judge) combination, with inputs randomized within each
// area's configured constraints. Client timestamps are spread over the
// hour before now so last-write-wins reconciliation has real work.
func GenerateEvaluationBatch(
	tournamentID string,
	teams []domain.Team,
	areas []domain.Area,
	judges []string,
	seed int64,
) []domain.PendingEvaluation {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	var batch []domain.PendingEvaluation
	for _, team := range teams {
		for _, area := range areas {
			for _, judge := range judges {
				batch = append(batch, domain.PendingEvaluation{
					TournamentID: tournamentID,
					Key: domain.EvaluationKey{
						TeamID:  team.ID,
						AreaID:  area.ID,
						JudgeID: judge,
					},
					Input: randomInput(rng, area, now),
				})
			}
		}
	}
	return batch
}

// randomInput builds a valid input for the area's scoring type.
func randomInput(rng *rand.Rand, area domain.Area, now time.Time) domain.EvaluationInput {
	input := domain.EvaluationInput{
		ElapsedSeconds:  30 + rng.Intn(120),
		ClientTimestamp: now.Add(-time.Duration(rng.Intn(3600)) * time.Second),
	}

	if area.Rubric != nil {
		input.RubricSelections = make(map[string]float64, len(area.Rubric.Criteria))
		for _, c := range area.Rubric.Criteria {
			input.RubricSelections[c.ID] = c.Options[rng.Intn(len(c.Options))]
		}
	}
	if area.Performance != nil {
		input.MissionCounts = make(map[string]int, len(area.Performance.Missions))
		for _, m := range area.Performance.Missions {
			input.MissionCounts[m.ID] = rng.Intn(m.Quantity + 1)
		}
		// Satisfy dependencies so gated missions are exercised rather
		// than systematically zeroed.
		for _, m := range area.Performance.Missions {
			if input.MissionCounts[m.ID] == 0 {
				continue
			}
			for _, dep := range m.Dependencies {
				if input.MissionCounts[dep] == 0 {
					input.MissionCounts[dep] = 1
				}
			}
		}
	}
	return input
}

// SaveFile writes generated data to path, creating parent directories
// as needed.
func SaveFile(data []byte, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
