package domain

import (
	"errors"
	"testing"
)

func newTestRequest(t *testing.T) Friend {
	t.Helper()
	friend, err := NewFriendRequest("user-1", "user-2")
	if err != nil {
		t.Fatalf("create friend request: %v", err)
	}
	return friend
}

func TestNewFriendRequest(t *testing.T) {
	friend := newTestRequest(t)

	if friend.Status != FriendRequested {
		t.Fatalf("expected status %q got %q", FriendRequested, friend.Status)
	}
	if friend.ID == "" {
		t.Fatalf("expected generated id")
	}

	events := friend.Events()
	if len(events) != 1 || events[0].Name != EventFriendRequested {
		t.Fatalf("expected exactly one %q event, got %+v", EventFriendRequested, events)
	}
	if events[0].AggregateID != friend.ID.String() {
		t.Fatalf("expected event aggregate id %q got %q", friend.ID, events[0].AggregateID)
	}
}

func TestNewFriendRequestRejectsSelf(t *testing.T) {
	if _, err := NewFriendRequest("user-1", "user-1"); err == nil {
		t.Fatalf("expected self-request to fail")
	}
	if _, err := NewFriendRequest("", "user-2"); err == nil {
		t.Fatalf("expected missing requester to fail")
	}
}

func TestFriendAccept(t *testing.T) {
	friend := newTestRequest(t)

	accepted, err := friend.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if accepted.Status != FriendAccepted {
		t.Fatalf("expected status %q got %q", FriendAccepted, accepted.Status)
	}
	if accepted.RespondedAt == nil {
		t.Fatalf("expected respondedAt to be set")
	}
	if !accepted.IsActive() || accepted.IsPending() {
		t.Fatalf("expected accepted friendship to be active")
	}
	if got := accepted.Events(); len(got) != 2 || got[1].Name != EventFriendAccepted {
		t.Fatalf("expected accepted event appended, got %+v", got)
	}

	// The original instance must be untouched.
	if friend.Status != FriendRequested || friend.RespondedAt != nil {
		t.Fatalf("expected original to remain pending, got %+v", friend)
	}
	if len(friend.Events()) != 1 {
		t.Fatalf("expected original event list unchanged")
	}
}

func TestFriendReject(t *testing.T) {
	friend := newTestRequest(t)

	rejected, err := friend.Reject()
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != FriendRejected {
		t.Fatalf("expected status %q got %q", FriendRejected, rejected.Status)
	}
	if got := rejected.Events(); len(got) != 2 || got[1].Name != EventFriendRejected {
		t.Fatalf("expected rejected event appended, got %+v", got)
	}
}

func TestFriendRemove(t *testing.T) {
	friend := newTestRequest(t)
	accepted, err := friend.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	removed, err := accepted.Remove()
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Status != FriendRemoved {
		t.Fatalf("expected status %q got %q", FriendRemoved, removed.Status)
	}
	if got := removed.Events(); len(got) != 3 || got[2].Name != EventFriendRemoved {
		t.Fatalf("expected removed event appended, got %+v", got)
	}
}

func TestFriendGuardedTransitions(t *testing.T) {
	friend := newTestRequest(t)
	accepted, _ := friend.Accept()
	rejected, _ := friend.Reject()
	removed, _ := accepted.Remove()

	cases := []struct {
		name    string
		attempt func() (Friend, error)
	}{
		{"acceptAccepted", accepted.Accept},
		{"acceptRejected", rejected.Accept},
		{"rejectAccepted", accepted.Reject},
		{"rejectRemoved", removed.Reject},
		{"removePending", friend.Remove},
		{"removeRejected", rejected.Remove},
		{"removeRemoved", removed.Remove},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.attempt()
			if err == nil {
				t.Fatalf("expected transition to be rejected")
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			var te *TransitionError
			if !errors.As(err, &te) {
				t.Fatalf("expected *TransitionError, got %T", err)
			}
		})
	}
}

func TestFriendRequesterReceiverQueries(t *testing.T) {
	friend := newTestRequest(t)

	if !friend.IsRequester("user-1") || friend.IsRequester("user-2") {
		t.Fatalf("unexpected requester classification")
	}
	if !friend.IsReceiver("user-2") || friend.IsReceiver("user-1") {
		t.Fatalf("unexpected receiver classification")
	}
}

func TestFriendRecordRoundTrip(t *testing.T) {
	friend := newTestRequest(t)
	accepted, err := friend.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	for _, entity := range []Friend{friend, accepted} {
		restored, err := FriendFromRecord(entity.Record())
		if err != nil {
			t.Fatalf("restore from record: %v", err)
		}

		if restored.ID != entity.ID {
			t.Fatalf("expected id %q got %q", entity.ID, restored.ID)
		}
		if restored.UserID != entity.UserID || restored.FriendUserID != entity.FriendUserID {
			t.Fatalf("expected user ids preserved, got %+v", restored)
		}
		if restored.Status != entity.Status {
			t.Fatalf("expected status %q got %q", entity.Status, restored.Status)
		}
		if restored.RequestedAt.UnixMilli() != entity.RequestedAt.UnixMilli() {
			t.Fatalf("expected requestedAt preserved at millisecond precision")
		}
		if (restored.RespondedAt == nil) != (entity.RespondedAt == nil) {
			t.Fatalf("expected respondedAt presence preserved")
		}
	}
}

func TestFriendFromRecordRejectsBadStatus(t *testing.T) {
	rec := newTestRequest(t).Record()
	rec.Status = "blocked"
	if _, err := FriendFromRecord(rec); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}
}
