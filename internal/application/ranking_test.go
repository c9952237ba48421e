package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podiumhq/podium/infrastructure/store"
	"github.com/podiumhq/podium/internal/domain"
)

// rankFixture wires a store and ranking engine over two rubric areas
// with distinct weights.
type rankFixture struct {
	store  *store.MemoryStore
	engine *RankingEngine
	areas  []domain.Area
	config domain.TournamentConfig
}

func newRankFixture(t *testing.T, method domain.RankingMethod) *rankFixture {
	t.Helper()
	criteria := func(max float64) *domain.RubricConfig {
		return &domain.RubricConfig{
			Criteria: []domain.RubricCriterion{
				{ID: "c1", MaxScore: max, Weight: 1, Options: []float64{0, max / 4, max / 2, 3 * max / 4, max}},
			},
		}
	}

	s := store.NewMemoryStore()
	ag, err := NewAggregator(s, nil)
	require.NoError(t, err)
	re, err := NewRankingEngine(ag, nil)
	require.NoError(t, err)

	return &rankFixture{
		store:  s,
		engine: re,
		areas: []domain.Area{
			{ID: "area-a", Code: "ALPHA", ScoringType: domain.ScoringRubric, Weight: 1, Active: true, Order: 1, Rubric: criteria(100)},
			{ID: "area-b", Code: "BETA", ScoringType: domain.ScoringRubric, Weight: 2, Active: true, Order: 2, Rubric: criteria(50)},
		},
		config: domain.TournamentConfig{
			ID:                    "t-1",
			RankingMethod:         method,
			MultiJudgeAggregation: domain.AggregateAverage,
		},
	}
}

func (f *rankFixture) score(t *testing.T, teamID, areaID string, achieved, max float64, elapsed int) {
	t.Helper()
	key := domain.EvaluationKey{TeamID: teamID, AreaID: areaID, JudgeID: "judge-1"}
	_, err := f.store.Submit(context.Background(), key,
		domain.EvaluationInput{ElapsedSeconds: elapsed},
		domain.ScoreResult{Achieved: achieved, MaxPossible: max})
	require.NoError(t, err)
}

func TestRankingEngine_Rank_RawMethod(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)
	teams := []domain.Team{
		{ID: "team-1", Name: "One"},
		{ID: "team-2", Name: "Two"},
	}

	// team-1: 80/100 in ALPHA (w1), 25/50 in BETA (w2) → total 130/200.
	f.score(t, "team-1", "area-a", 80, 100, 60)
	f.score(t, "team-1", "area-b", 25, 50, 60)
	// team-2: 50/100 in ALPHA, 50/50 in BETA → total 150/200.
	f.score(t, "team-2", "area-a", 50, 100, 60)
	f.score(t, "team-2", "area-b", 50, 50, 60)

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	assert.Equal(t, "team-2", rankings[0].TeamID)
	assert.Equal(t, 1, rankings[0].Position)
	assert.InDelta(t, 150.0, rankings[0].TotalScore, 0.0001)
	assert.InDelta(t, 200.0, rankings[0].MaxPossibleScore, 0.0001)
	assert.InDelta(t, 75.0, rankings[0].Percentage, 0.0001)

	assert.Equal(t, "team-1", rankings[1].TeamID)
	assert.Equal(t, 2, rankings[1].Position)
	assert.InDelta(t, 130.0, rankings[1].TotalScore, 0.0001)
}

// The percentage method averages area percentages without weights,
// which can invert the raw-method order.
func TestRankingEngine_Rank_PercentageMethod(t *testing.T) {
	f := newRankFixture(t, domain.RankPercentage)
	teams := []domain.Team{
		{ID: "team-1", Name: "One"},
		{ID: "team-2", Name: "Two"},
	}

	// team-1: 100% in ALPHA, 50% in BETA → mean 75.
	f.score(t, "team-1", "area-a", 100, 100, 60)
	f.score(t, "team-1", "area-b", 25, 50, 60)
	// team-2: 50% in ALPHA, 100% in BETA → mean 75, but higher weighted
	// total; the percentage method ignores weights, so the final key is
	// the team id.
	f.score(t, "team-2", "area-a", 50, 100, 60)
	f.score(t, "team-2", "area-b", 50, 50, 60)

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	assert.InDelta(t, 75.0, rankings[0].Percentage, 0.0001)
	assert.InDelta(t, 75.0, rankings[1].Percentage, 0.0001)
	assert.Equal(t, "team-1", rankings[0].TeamID, "identical percentages fall through to team id")
}

func TestRankingEngine_Rank_SkipsUnscoredAreas(t *testing.T) {
	f := newRankFixture(t, domain.RankPercentage)
	teams := []domain.Team{{ID: "team-1"}, {ID: "team-2"}}

	// team-1 scored only in ALPHA at 75%; team-2 in both at 50% each.
	// Skipping, not zeroing, the missing area ranks team-1 first.
	f.score(t, "team-1", "area-a", 75, 100, 60)
	f.score(t, "team-2", "area-a", 50, 100, 60)
	f.score(t, "team-2", "area-b", 25, 50, 60)

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	assert.Equal(t, "team-1", rankings[0].TeamID)
	assert.InDelta(t, 75.0, rankings[0].Percentage, 0.0001)
	assert.Len(t, rankings[0].Areas, 1, "unscored area is absent, not zero")
	assert.InDelta(t, 50.0, rankings[1].Percentage, 0.0001)
}

func TestRankingEngine_Rank_TieBreakChain(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)
	f.config.TieBreak = []string{"BETA", "elapsed_time"}
	teams := []domain.Team{{ID: "team-1"}, {ID: "team-2"}, {ID: "team-3"}}

	// All three teams total 100 raw points with equal percentages.
	// team-2 leads BETA; team-1 and team-3 tie there, and team-3 was
	// faster.
	f.score(t, "team-1", "area-a", 60, 100, 100)
	f.score(t, "team-1", "area-b", 20, 50, 100)
	f.score(t, "team-2", "area-a", 50, 100, 100)
	f.score(t, "team-2", "area-b", 25, 50, 100)
	f.score(t, "team-3", "area-a", 60, 100, 50)
	f.score(t, "team-3", "area-b", 20, 50, 50)

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	assert.Equal(t, "team-2", rankings[0].TeamID, "BETA score decides first")
	assert.Equal(t, "team-3", rankings[1].TeamID, "elapsed time decides the rest")
	assert.Equal(t, "team-1", rankings[2].TeamID)
}

func TestRankingEngine_Rank_ExhaustedTieBreaksUseTeamID(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)
	f.config.TieBreak = []string{"total_score", "percentage", "elapsed_time"}
	teams := []domain.Team{{ID: "team-b"}, {ID: "team-a"}}

	for _, id := range []string{"team-a", "team-b"} {
		f.score(t, id, "area-a", 50, 100, 60)
	}

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, "team-a", rankings[0].TeamID)
	assert.Equal(t, "team-b", rankings[1].TeamID)
}

// Positions are a permutation of 1..N, and ranking twice with the same
// inputs yields identical output.
func TestRankingEngine_Rank_PositionsAndIdempotence(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)
	var teams []domain.Team
	scores := []float64{50, 75, 50, 100, 25, 75, 0, 50}
	for i, score := range scores {
		id := string(rune('a'+i))
		team := domain.Team{ID: "team-" + id}
		teams = append(teams, team)
		f.score(t, team.ID, "area-a", score, 100, 60)
	}

	first, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, first, len(teams))

	seen := make(map[int]bool)
	for _, r := range first {
		require.False(t, seen[r.Position], "duplicate position %d", r.Position)
		require.GreaterOrEqual(t, r.Position, 1)
		require.LessOrEqual(t, r.Position, len(teams))
		seen[r.Position] = true
	}

	second, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRankingEngine_Rank_Filters(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)
	teams := []domain.Team{
		{ID: "team-1", Shift: "morning", Grade: "middle"},
		{ID: "team-2", Shift: "afternoon", Grade: "middle"},
		{ID: "team-3", Shift: "morning", Grade: "high"},
	}
	for _, team := range teams {
		f.score(t, team.ID, "area-a", 50, 100, 60)
	}

	tests := []struct {
		name   string
		filter domain.RankingFilter
		want   []string
	}{
		{name: "no filter includes everyone", filter: domain.RankingFilter{}, want: []string{"team-1", "team-2", "team-3"}},
		{name: "shift filter", filter: domain.RankingFilter{Shift: "morning"}, want: []string{"team-1", "team-3"}},
		{name: "shift and grade filter", filter: domain.RankingFilter{Shift: "morning", Grade: "middle"}, want: []string{"team-1"}},
		{name: "filters are case-sensitive", filter: domain.RankingFilter{Shift: "Morning"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, tt.filter)
			require.NoError(t, err)

			var got []string
			for _, r := range rankings {
				got = append(got, r.TeamID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestRankingEngine_Rank_EmptyInputs(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, nil, domain.RankingFilter{})
	require.NoError(t, err)
	assert.Empty(t, rankings)

	rankings, err = f.engine.Rank(context.Background(), f.config, nil,
		[]domain.Team{{ID: "team-1"}}, domain.RankingFilter{})
	require.NoError(t, err)
	assert.Empty(t, rankings)
}

func TestRankingEngine_Rank_InactiveAreasExcluded(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)
	f.areas[1].Active = false
	teams := []domain.Team{{ID: "team-1"}}

	f.score(t, "team-1", "area-a", 50, 100, 60)
	f.score(t, "team-1", "area-b", 50, 50, 60)

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rankings, 1)
	assert.InDelta(t, 50.0, rankings[0].TotalScore, 0.0001)
	assert.NotContains(t, rankings[0].Areas, "BETA")
}

func TestRankingEngine_Rank_AreaWeightOverride(t *testing.T) {
	f := newRankFixture(t, domain.RankRaw)
	f.config.AreaWeights = map[string]float64{"ALPHA": 3}
	teams := []domain.Team{{ID: "team-1"}}

	f.score(t, "team-1", "area-a", 50, 100, 60)

	rankings, err := f.engine.Rank(context.Background(), f.config, f.areas, teams, domain.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rankings, 1)
	assert.InDelta(t, 150.0, rankings[0].TotalScore, 0.0001)
	assert.InDelta(t, 300.0, rankings[0].MaxPossibleScore, 0.0001)
}
