package domain

import (
	"time"

	"github.com/google/uuid"
)

// FriendStatus enumerates the friend relationship lifecycle.
type FriendStatus string

const (
	FriendRequested FriendStatus = "requested"
	FriendAccepted  FriendStatus = "accepted"
	FriendRejected  FriendStatus = "rejected"
	FriendRemoved   FriendStatus = "removed"
)

// Friend is the aggregate root for a friend relationship between two users.
// All mutators have value semantics: they return a new instance carrying the
// accumulated domain events and never modify the receiver.
type Friend struct {
	ID           FriendID
	UserID       UserID // requester
	FriendUserID UserID // receiver
	Status       FriendStatus
	RequestedAt  time.Time
	RespondedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	events []Event
}

// NewFriendRequest creates a pending friend request from userID to
// friendUserID. Requesting oneself is rejected.
func NewFriendRequest(userID, friendUserID UserID) (Friend, error) {
	if userID == "" || friendUserID == "" {
		return Friend{}, validationErr("friend", "both user ids are required")
	}
	if userID == friendUserID {
		return Friend{}, validationErr("friend", "cannot send a friend request to yourself")
	}

	now := time.Now().UTC()
	id := FriendID(uuid.NewString())

	friend := Friend{
		ID:           id,
		UserID:       userID,
		FriendUserID: friendUserID,
		Status:       FriendRequested,
		RequestedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	friend.events = []Event{{Name: EventFriendRequested, AggregateID: id.String(), OccurredAt: now}}

	return friend, nil
}

// Accept marks a pending request as accepted.
func (f Friend) Accept() (Friend, error) {
	if f.Status != FriendRequested {
		return Friend{}, transitionErr("friend", "accept", string(f.Status))
	}

	now := time.Now().UTC()
	next := f
	next.Status = FriendAccepted
	next.RespondedAt = &now
	next.UpdatedAt = now
	next.events = appendEvent(f.events, Event{Name: EventFriendAccepted, AggregateID: f.ID.String(), OccurredAt: now})

	return next, nil
}

// Reject marks a pending request as rejected.
func (f Friend) Reject() (Friend, error) {
	if f.Status != FriendRequested {
		return Friend{}, transitionErr("friend", "reject", string(f.Status))
	}

	now := time.Now().UTC()
	next := f
	next.Status = FriendRejected
	next.RespondedAt = &now
	next.UpdatedAt = now
	next.events = appendEvent(f.events, Event{Name: EventFriendRejected, AggregateID: f.ID.String(), OccurredAt: now})

	return next, nil
}

// Remove ends an accepted friendship.
func (f Friend) Remove() (Friend, error) {
	if f.Status != FriendAccepted {
		return Friend{}, transitionErr("friend", "remove", string(f.Status))
	}

	now := time.Now().UTC()
	next := f
	next.Status = FriendRemoved
	next.UpdatedAt = now
	next.events = appendEvent(f.events, Event{Name: EventFriendRemoved, AggregateID: f.ID.String(), OccurredAt: now})

	return next, nil
}

// IsRequester reports whether the given user initiated the request.
func (f Friend) IsRequester(id UserID) bool { return f.UserID == id }

// IsReceiver reports whether the given user received the request.
func (f Friend) IsReceiver(id UserID) bool { return f.FriendUserID == id }

// IsActive reports whether the friendship is currently accepted.
func (f Friend) IsActive() bool { return f.Status == FriendAccepted }

// IsPending reports whether the request awaits a response.
func (f Friend) IsPending() bool { return f.Status == FriendRequested }

// Events returns a snapshot of the domain events accumulated on this instance.
func (f Friend) Events() []Event {
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

func appendEvent(events []Event, event Event) []Event {
	out := make([]Event, len(events), len(events)+1)
	copy(out, events)
	return append(out, event)
}

// FriendRecord is the flat persistence representation of a Friend. Timestamps
// are unix milliseconds.
type FriendRecord struct {
	ID           string
	UserID       string
	FriendUserID string
	Status       string
	RequestedAt  int64
	RespondedAt  *int64
	CreatedAt    int64
	UpdatedAt    int64
}

// Record flattens the aggregate for persistence. Domain events are not part
// of the record; they belong to the in-flight instance only.
func (f Friend) Record() FriendRecord {
	rec := FriendRecord{
		ID:           f.ID.String(),
		UserID:       f.UserID.String(),
		FriendUserID: f.FriendUserID.String(),
		Status:       string(f.Status),
		RequestedAt:  f.RequestedAt.UnixMilli(),
		CreatedAt:    f.CreatedAt.UnixMilli(),
		UpdatedAt:    f.UpdatedAt.UnixMilli(),
	}
	if f.RespondedAt != nil {
		millis := f.RespondedAt.UnixMilli()
		rec.RespondedAt = &millis
	}
	return rec
}

// FriendFromRecord rebuilds the aggregate from its persisted form.
func FriendFromRecord(rec FriendRecord) (Friend, error) {
	id, err := NewFriendID(rec.ID)
	if err != nil {
		return Friend{}, err
	}
	userID, err := NewUserID(rec.UserID)
	if err != nil {
		return Friend{}, err
	}
	friendUserID, err := NewUserID(rec.FriendUserID)
	if err != nil {
		return Friend{}, err
	}

	switch FriendStatus(rec.Status) {
	case FriendRequested, FriendAccepted, FriendRejected, FriendRemoved:
	default:
		return Friend{}, validationErr("friend", "unknown status "+rec.Status)
	}

	friend := Friend{
		ID:           id,
		UserID:       userID,
		FriendUserID: friendUserID,
		Status:       FriendStatus(rec.Status),
		RequestedAt:  time.UnixMilli(rec.RequestedAt).UTC(),
		CreatedAt:    time.UnixMilli(rec.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(rec.UpdatedAt).UTC(),
	}
	if rec.RespondedAt != nil {
		t := time.UnixMilli(*rec.RespondedAt).UTC()
		friend.RespondedAt = &t
	}

	return friend, nil
}
