package domain

import "time"

// EventType classifies a change notification at the engine boundary.
type EventType string

const (
	// EventSaved signals an online submission was accepted.
	EventSaved EventType = "SAVED"

	// EventSynced signals offline reconciliation changed the current
	// evaluation for a key.
	EventSynced EventType = "SYNCED"

	// EventDeleted signals a retraction removed the current evaluation.
	EventDeleted EventType = "DELETED"
)

// ChangeEvent invalidates cached rankings and reports. The engine holds
// no cache itself; collaborators that cache ranking output must
// recompute on the next read after receiving an event for the
// tournament, optionally narrowed by area and team.
type ChangeEvent struct {
	// ID uniquely identifies the event for consumer-side deduplication.
	ID string `json:"id"`

	// Type classifies the change.
	Type EventType `json:"type"`

	// TournamentID scopes the invalidation.
	TournamentID string `json:"tournament_id"`

	// AreaID narrows the invalidation to one area when non-empty.
	AreaID string `json:"area_id,omitempty"`

	// TeamID narrows the invalidation to one team when non-empty.
	TeamID string `json:"team_id,omitempty"`

	// At records when the change was applied.
	At time.Time `json:"at"`
}
