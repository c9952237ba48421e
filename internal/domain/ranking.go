package domain

import "math"

// Team is the minimal team projection the engine needs for filtering
// and ranking. Team records are owned by an external collaborator.
type Team struct {
	// ID is the stable team identifier; it is also the final
	// deterministic tie-break key.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name,omitempty"`

	// Shift and Grade are filterable attributes; matching is exact and
	// case-sensitive on normalized values.
	Shift string `json:"shift,omitempty"`
	Grade string `json:"grade,omitempty"`
}

// RankingFilter restricts which teams enter a ranking computation.
// Empty fields match everything. Filtered-out teams never rank.
type RankingFilter struct {
	Shift string `json:"shift,omitempty"`
	Grade string `json:"grade,omitempty"`
}

// TeamAreaScore is the aggregated score for one team in one area,
// derived on demand from the current evaluations of every judge. It is
// never persisted as source of truth.
type TeamAreaScore struct {
	TeamID string `json:"team_id"`
	AreaID string `json:"area_id"`

	// Score is the aggregated achieved score under the tournament's
	// multi-judge aggregation policy.
	Score float64 `json:"score"`

	// MaxPossible is the Area ceiling.
	MaxPossible float64 `json:"max_possible"`

	// Percentage is Score/MaxPossible × 100, rounded half-up to the
	// nearest integer.
	Percentage int `json:"percentage"`

	// JudgeCount is the number of current evaluations aggregated.
	JudgeCount int `json:"judge_count"`

	// ElapsedSeconds sums the judges' evaluation durations; it feeds the
	// elapsed_time tie-break key.
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// AreaScore is the per-area slice of a TeamRanking.
type AreaScore struct {
	Score      float64 `json:"score"`
	Percentage int     `json:"percentage"`
}

// TeamRanking is one team's row in a ranked leaderboard. It is computed
// fresh per request and ephemeral; collaborators that cache it must
// subscribe to change notifications.
type TeamRanking struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name,omitempty"`

	// TotalScore is Σ(achieved × effective weight) over scored areas.
	TotalScore float64 `json:"total_score"`

	// MaxPossibleScore is Σ(area max × effective weight) over the same
	// areas.
	MaxPossibleScore float64 `json:"max_possible_score"`

	// Percentage is the team's ranking percentage under the tournament's
	// method: the unweighted mean of scored-area percentages for the
	// percentage method, or TotalScore/MaxPossibleScore × 100 for raw.
	Percentage float64 `json:"percentage"`

	// Areas maps area code to the team's score in that area. Areas
	// without a current evaluation are absent, not zero.
	Areas map[string]AreaScore `json:"areas"`

	// ElapsedSeconds sums evaluation durations over scored areas.
	ElapsedSeconds int `json:"elapsed_seconds"`

	// Position is the 1-based sequential rank. Teams that remain tied
	// after the full tie-break chain still receive distinct positions.
	Position int `json:"position"`
}

// RoundPercentage converts an achieved/max pair to an integer
// percentage using half-up rounding. A non-positive max yields 0.
func RoundPercentage(achieved, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(math.Floor(achieved/max*100 + 0.5))
}
