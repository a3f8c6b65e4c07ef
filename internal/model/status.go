package model

import "fmt"

// Status is the lifecycle state of an itinerary.
type Status string

const (
	// StatusDraft is the initial state, set only by the generation pipeline.
	StatusDraft Status = "DRAFT"
	// StatusConfirmed marks an itinerary the owner has accepted.
	StatusConfirmed Status = "CONFIRMED"
	// StatusMain marks the owner's single active plan. At most one itinerary
	// per owner holds this status at any time.
	StatusMain Status = "MAIN"
	// StatusArchived is terminal; no transitions lead out of it.
	StatusArchived Status = "ARCHIVED"
)

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusConfirmed, StatusMain, StatusArchived:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// transitions holds the legal edges of the status state machine. Same-state
// transitions are handled separately as idempotent no-ops.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed},
	StatusConfirmed: {StatusMain, StatusArchived},
	StatusMain:      {StatusArchived},
	StatusArchived:  {},
}

// CanTransition reports whether from -> to is a legal status change.
// A same-state change is always legal (no-op).
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanDelete reports whether an itinerary in the given status may be deleted.
// Only drafts are deletable; everything else is transitioned, never destroyed.
func CanDelete(s Status) bool { return s == StatusDraft }
