package x402

import "fmt"

// Status represents the lifecycle state of a transfer authorization.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusSettled   Status = "settled"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// transitions is the closed set of legal lifecycle moves. Everything not
// listed here is rejected with InvalidStateTransitionError.
var transitions = map[Status][]Status{
	StatusPending:   {StatusSubmitted, StatusSettled, StatusCancelled, StatusExpired},
	StatusSubmitted: {StatusCompleted, StatusExpired},
	StatusSettled:   {StatusCompleted},
	StatusCompleted: {},
	StatusExpired:   {},
	StatusCancelled: {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired || s == StatusCancelled
}

// CanTransition reports whether the move from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an InvalidStateTransitionError if the move
// from -> to is not in the transition table.
func CheckTransition(from, to Status) error {
	if !from.Valid() {
		return NewValidationError("unknown authorization status %q", from)
	}
	if !to.Valid() {
		return NewValidationError("unknown authorization status %q", to)
	}
	if !CanTransition(from, to) {
		return &InvalidStateTransitionError{From: from, To: to}
	}
	return nil
}

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown authorization status %q", s)
	}
	return status, nil
}
