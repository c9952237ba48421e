package domain

import (
	"fmt"
	"time"
)

// EvaluationKey identifies the (team, area, judge) triple that owns a
// versioned evaluation history. Submissions for the same key are
// serialized by the store.
type EvaluationKey struct {
	TeamID  string `json:"team_id"`
	AreaID  string `json:"area_id"`
	JudgeID string `json:"judge_id"`
}

// String renders the key for error messages and debugging.
func (k EvaluationKey) String() string {
	return fmt.Sprintf("team=%s area=%s judge=%s", k.TeamID, k.AreaID, k.JudgeID)
}

// PenaltyCount reports how many occurrences of a configured penalty a
// judge observed.
type PenaltyCount struct {
	// Type references a Penalty configured on the Area or on a mission.
	Type string `json:"type"`

	// Count is the number of occurrences; each occurrence deducts the
	// penalty's points once.
	Count int `json:"count"`
}

// EvaluationInput is one judge's raw scoring act for one team in one
// area, before score computation. Which fields are meaningful depends on
// the Area's scoring type.
type EvaluationInput struct {
	// RubricSelections maps criterion id to the selected option value.
	// A selection outside the criterion's closed option set is invalid.
	RubricSelections map[string]float64 `json:"rubric_selections,omitempty"`

	// MissionCounts maps mission id to the completed count, capped by
	// the mission's quantity.
	MissionCounts map[string]int `json:"mission_counts,omitempty"`

	// PenaltiesApplied lists reported penalty occurrences.
	PenaltiesApplied []PenaltyCount `json:"penalties_applied,omitempty"`

	// Comments carries free-text judge remarks.
	Comments string `json:"comments,omitempty"`

	// ElapsedSeconds is the judge's evaluation duration, compared
	// against the Area's time limit.
	ElapsedSeconds int `json:"elapsed_seconds,omitempty"`

	// ClientTimestamp is the submitting client's local time. It is
	// untrusted and consulted only by last-write-wins reconciliation.
	ClientTimestamp time.Time `json:"client_timestamp,omitempty"`
}

// ScoreResult is the computed outcome of one evaluation.
type ScoreResult struct {
	// Achieved is the numeric score after penalties.
	Achieved float64 `json:"achieved"`

	// MaxPossible is the Area ceiling for this scoring type; penalties
	// never reduce it.
	MaxPossible float64 `json:"max_possible"`

	// TimeWarning is set when the Area's time limit was exceeded under
	// the alert action. It does not affect the numeric result.
	TimeWarning bool `json:"time_warning,omitempty"`
}

// Evaluation is the immutable record of one judge's scoring act.
// A resubmission never mutates an existing record; it creates a new
// version for the same key. Only the current version per key feeds
// aggregation; prior versions remain retrievable for audit.
type Evaluation struct {
	// ID uniquely identifies this record.
	ID string `json:"id"`

	// Key is the owning (team, area, judge) triple.
	Key EvaluationKey `json:"key"`

	// Input is the judge's raw submission.
	Input EvaluationInput `json:"input"`

	// Score is the computed result for Input.
	Score ScoreResult `json:"score"`

	// EvaluatedAt is the server-side time the record was accepted.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// Version increases monotonically per key, starting at 1.
	Version int `json:"version"`

	// Retracted marks a record withdrawn by an explicit judge or admin
	// action. Retracted records never surface as current.
	Retracted bool `json:"retracted,omitempty"`
}

// PendingEvaluation is an offline client's queued submission awaiting
// reconciliation.
type PendingEvaluation struct {
	// TournamentID scopes the change notification emitted when this
	// submission affects the current state.
	TournamentID string `json:"tournament_id"`

	// Key is the owning (team, area, judge) triple.
	Key EvaluationKey `json:"key"`

	// Input is the queued submission, including the client timestamp
	// used by last-write-wins resolution.
	Input EvaluationInput `json:"input"`
}
