package domain

import "time"

// Event names emitted by the Friend aggregate.
const (
	EventFriendRequested = "friend.requested"
	EventFriendAccepted  = "friend.accepted"
	EventFriendRejected  = "friend.rejected"
	EventFriendRemoved   = "friend.removed"
)

// Event records a significant aggregate state change. Events travel with the
// returned entity instance so callers can inspect and dispatch them
// deterministically; there is no global bus.
type Event struct {
	Name        string
	AggregateID string
	OccurredAt  time.Time
}
