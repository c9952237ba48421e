package domain

// RankingMethod selects how per-area scores collapse into the value
// teams are sorted by.
type RankingMethod string

const (
	// RankPercentage ranks teams by the unweighted arithmetic mean of
	// the percentages of their scored areas. Area weights do not apply
	// on this path; the method normalizes away absolute scale.
	RankPercentage RankingMethod = "percentage"

	// RankRaw ranks teams by Σ(achieved × area weight), with the
	// percentage derived from the weighted maximum as a secondary key.
	RankRaw RankingMethod = "raw"
)

// AggregationPolicy is the rule for collapsing multiple judges' scores
// for one team and area into a single area score.
type AggregationPolicy string

const (
	// AggregateAverage takes the arithmetic mean of all current
	// per-judge scores.
	AggregateAverage AggregationPolicy = "average"

	// AggregateMedian takes the statistical median; an even count
	// averages the two middle values.
	AggregateMedian AggregationPolicy = "median"

	// AggregateBest takes the maximum per-judge score.
	AggregateBest AggregationPolicy = "best"

	// AggregateWorst takes the minimum per-judge score.
	AggregateWorst AggregationPolicy = "worst"

	// AggregateLast takes the score of the most recently completed
	// evaluation, independent of judge identity.
	AggregateLast AggregationPolicy = "last"
)

// ConflictPolicy names the strategy for reconciling offline submissions
// against the store. Only last_write_wins has mandated semantics; the
// remaining values exist as configuration surface for the editing UI.
type ConflictPolicy string

const (
	// ConflictLastWriteWins makes the submission with the latest client
	// timestamp current; earlier ones are retained in history.
	ConflictLastWriteWins ConflictPolicy = "last_write_wins"

	// ConflictServerWins is reserved configuration surface.
	ConflictServerWins ConflictPolicy = "server_wins"

	// ConflictClientWins is reserved configuration surface.
	ConflictClientWins ConflictPolicy = "client_wins"

	// ConflictManual is reserved configuration surface.
	ConflictManual ConflictPolicy = "manual"
)

// TournamentConfig carries the tournament-level settings the engine
// consumes. It is supplied by the tournament-editing collaborator and
// treated as a read-only snapshot for the duration of a computation.
type TournamentConfig struct {
	// ID identifies the tournament; change notifications are keyed by it.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name,omitempty"`

	// RankingMethod selects the percentage or raw ranking path.
	RankingMethod RankingMethod `json:"ranking_method"`

	// AreaWeights optionally overrides Area.Weight by area code for the
	// raw ranking path. Areas without an override use their own weight.
	AreaWeights map[string]float64 `json:"area_weights,omitempty"`

	// TieBreak is the ordered chain of comparison keys applied when two
	// teams' primary values tie exactly. A key is an area code or one of
	// the built-ins "total_score", "percentage", "elapsed_time".
	TieBreak []string `json:"tie_break,omitempty"`

	// MultiJudgeAggregation collapses multiple judges' scores for one
	// team and area into the area score.
	MultiJudgeAggregation AggregationPolicy `json:"multi_judge_aggregation"`

	// AllowReevaluation permits a judge to resubmit for a team and area
	// they already scored, creating a new version with history retained.
	AllowReevaluation bool `json:"allow_reevaluation"`

	// ConflictPolicy selects offline reconciliation behavior.
	ConflictPolicy ConflictPolicy `json:"conflict_policy,omitempty"`
}

// EffectiveWeight returns the weight used for the given Area on the raw
// ranking path, preferring a tournament-level override by area code.
func (t TournamentConfig) EffectiveWeight(a Area) float64 {
	if w, ok := t.AreaWeights[a.Code]; ok {
		return w
	}
	return a.Weight
}
