package models

import "fmt"

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Booking listing state filters.
const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

const (
	// DefaultPageSize is used when a listing query carries no size parameter.
	DefaultPageSize = 10
)

// ParseState maps a state query parameter to a known filter.
// An empty value means ALL.
func ParseState(s string) (string, error) {
	switch s {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, nil
	default:
		return "", fmt.Errorf("unknown state: %s", s)
	}
}
