package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/teamhub/backend/internal/domain"
	"github.com/teamhub/backend/internal/logging"
	"github.com/teamhub/backend/internal/repositories"
)

// FriendHandler drives the friend relationship lifecycle over HTTP.
type FriendHandler struct {
	Friends FriendStore
	Limiter RateLimiter
}

// Invite handles POST /api/v1/friends/invite requests.
func (h FriendHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "friend-invite") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many invites, slow down"})
		return
	}

	var req friendInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend invite payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	userID, err := domain.NewUserID(strings.TrimSpace(req.UserID))
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "User ID is required"})
		return
	}
	friendUserID, err := domain.NewUserID(strings.TrimSpace(req.FriendUserID))
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "friend user id is required"})
		return
	}

	friend, err := domain.NewFriendRequest(userID, friendUserID)
	if err != nil {
		logger.Warn("friend invite rejected", "userId", userID, "friendUserId", friendUserID, "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.Friends.Create(ctx, friend.Record()); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			logger.Warn("duplicate friend invite", "userId", userID, "friendUserId", friendUserID)
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "friend request already exists"})
		case errors.Is(err, repositories.ErrNotFound):
			logger.Warn("friend invite for unknown user", "userId", userID, "friendUserId", friendUserID)
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
		default:
			logger.Error("failed to save friend invite", "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create friend request"})
		}
		return
	}

	logEvents(ctx, friend.Events())
	respondJSON(ctx, w, http.StatusCreated, friendViewFrom(friend))
}

// Respond handles POST /api/v1/friends/respond requests. The action field
// selects accept or reject.
func (h FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	var req friendRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend respond payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != "accept" && action != "reject" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "action must be accept or reject"})
		return
	}

	friend, ok := h.loadFriend(w, r, req.FriendID)
	if !ok {
		return
	}

	var next domain.Friend
	var err error
	if action == "accept" {
		next, err = friend.Accept()
	} else {
		next, err = friend.Reject()
	}
	if err != nil {
		h.rejectTransition(w, r, err, req.FriendID, action)
		return
	}

	if err := h.Friends.Update(ctx, next.Record()); err != nil {
		logger.Error("failed to save friend response", "friendId", req.FriendID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update friend request"})
		return
	}

	logEvents(ctx, next.Events())
	respondJSON(ctx, w, http.StatusOK, friendViewFrom(next))
}

// Remove handles POST /api/v1/friends/remove requests.
func (h FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	var req friendRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend remove payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	friend, ok := h.loadFriend(w, r, req.FriendID)
	if !ok {
		return
	}

	next, err := friend.Remove()
	if err != nil {
		h.rejectTransition(w, r, err, req.FriendID, "remove")
		return
	}

	if err := h.Friends.Update(ctx, next.Record()); err != nil {
		logger.Error("failed to save friend removal", "friendId", req.FriendID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to remove friend"})
		return
	}

	logEvents(ctx, next.Events())
	respondJSON(ctx, w, http.StatusOK, friendViewFrom(next))
}

// List handles GET /api/v1/friends requests for the user named in the query.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "User ID is required"})
		return
	}

	records, err := h.Friends.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("failed to list friends", "userId", userID, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list friends"})
		return
	}

	views := make([]friendView, 0, len(records))
	for _, record := range records {
		friend, err := domain.FriendFromRecord(record)
		if err != nil {
			logger.Error("skipping corrupt friend record", "friendId", record.ID, "error", err)
			continue
		}
		views = append(views, friendViewFrom(friend))
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]friendView{"friends": views})
}

func (h FriendHandler) loadFriend(w http.ResponseWriter, r *http.Request, id string) (domain.Friend, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "friend id is required"})
		return domain.Friend{}, false
	}

	record, err := h.Friends.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("friend record not found", "friendId", id)
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "friend request not found"})
			return domain.Friend{}, false
		}
		logger.Error("failed to load friend record", "friendId", id, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load friend request"})
		return domain.Friend{}, false
	}

	friend, err := domain.FriendFromRecord(record)
	if err != nil {
		logger.Error("corrupt friend record", "friendId", id, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to load friend request"})
		return domain.Friend{}, false
	}

	return friend, true
}

func (h FriendHandler) rejectTransition(w http.ResponseWriter, r *http.Request, err error, id, action string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if errors.Is(err, domain.ErrInvalidTransition) {
		logger.Warn("friend transition rejected", "friendId", id, "action", action, "error", err)
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	logger.Error("friend transition failed", "friendId", id, "action", action, "error", err)
	respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update friend request"})
}

// logEvents surfaces domain events at the boundary. There is no event bus;
// the structured log is the integration point.
func logEvents(ctx context.Context, events []domain.Event) {
	logger := logging.FromContext(ctx)
	for _, event := range events {
		logger.Info("domain event", "event", event.Name, "aggregateId", event.AggregateID, "occurredAt", event.OccurredAt)
	}
}

type friendInviteRequest struct {
	UserID       string `json:"userId"`
	FriendUserID string `json:"friendUserId"`
}

type friendRespondRequest struct {
	FriendID string `json:"friendId"`
	Action   string `json:"action"`
}

type friendRemoveRequest struct {
	FriendID string `json:"friendId"`
}

type friendView struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	FriendUserID string `json:"friendUserId"`
	Status       string `json:"status"`
	RequestedAt  int64  `json:"requestedAt"`
	RespondedAt  *int64 `json:"respondedAt,omitempty"`
}

func friendViewFrom(friend domain.Friend) friendView {
	record := friend.Record()
	return friendView{
		ID:           record.ID,
		UserID:       record.UserID,
		FriendUserID: record.FriendUserID,
		Status:       record.Status,
		RequestedAt:  record.RequestedAt,
		RespondedAt:  record.RespondedAt,
	}
}
