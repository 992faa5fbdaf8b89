package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/teamhub/backend/internal/logging"
	"github.com/teamhub/backend/internal/profileimages"
)

// StorageEventHandler receives object-store finalize notifications and feeds
// them to the image pipeline.
type StorageEventHandler struct {
	Sink EventSink
}

// Handle implements POST /internal/storage/events.
func (h StorageEventHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sink == nil {
		logger.Error("pipeline queue unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "pipeline unavailable"})
		return
	}

	var event profileimages.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		logger.Warn("invalid storage event payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.Sink.Enqueue(ctx, event); err != nil {
		logger.Error("failed to enqueue storage event", "object", event.Name, "error", err)
		respondJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"error": "pipeline busy"})
		return
	}

	logger.Info("storage event accepted", "bucket", event.Bucket, "object", event.Name, "contentType", event.ContentType)
	w.WriteHeader(http.StatusAccepted)
}
