package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teamhub/backend/internal/domain"
	"github.com/teamhub/backend/internal/logging"
	"github.com/teamhub/backend/internal/profileimages"
	"github.com/teamhub/backend/internal/profiles"
)

// ProfileHandler exposes profile update and avatar upload endpoints.
type ProfileHandler struct {
	Profiles ProfileService
	Avatars  AvatarStorage

	// PublicBaseURL is the https origin under which stored objects are
	// addressable, used to describe the staged upload in responses.
	PublicBaseURL string

	NowFunc func() time.Time
}

// Update handles POST /api/v1/profile/update requests.
func (h ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Profiles == nil {
		logger.Error("profile service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "profile service unavailable"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		logger.Warn("profile update missing user id")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "User ID is required"})
		return
	}

	profile, err := h.Profiles.UpdateProfile(ctx, profiles.UpdateInput{
		UserID:      req.UserID,
		Username:    req.Username,
		Bio:         req.Bio,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrNotFound):
			logger.Warn("profile update for unknown user", "userId", req.UserID)
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "User profile not found"})
		case domain.IsValidation(err):
			logger.Warn("profile update rejected", "userId", req.UserID, "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			logger.Error("profile update failed", "userId", req.UserID, "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Update profile failed: %v", err)})
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]profiles.UserProfile{"userProfile": profile})
}

// UploadAvatar handles POST /api/v1/profile/avatar multipart requests. The
// file lands in the staging prefix; the image pipeline finalizes it later.
func (h ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Avatars == nil {
		logger.Error("avatar storage unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "avatar storage unavailable"})
		return
	}

	if err := r.ParseMultipartForm(domain.MaxImageBytes); err != nil {
		logger.Warn("invalid avatar upload form", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	userID, err := domain.NewUserID(r.FormValue("userId"))
	if err != nil {
		logger.Warn("avatar upload missing user id")
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "User ID is required"})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		logger.Warn("avatar upload missing file", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "avatar file is required"})
		return
	}
	defer file.Close()

	size, err := domain.NewImageSize(header.Size)
	if err != nil {
		logger.Warn("avatar upload rejected size", "userId", userID, "bytes", header.Size)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	format, err := domain.NewImageFormat(formatFromUpload(header))
	if err != nil {
		logger.Warn("avatar upload rejected format", "userId", userID, "filename", header.Filename)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	key := fmt.Sprintf("%s/%s/%s.%s", profileimages.StagingPrefix, userID, uuid.NewString(), format)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/" + format.String()
	}

	if err := h.Avatars.Save(ctx, key, contentType, file); err != nil {
		logger.Error("avatar upload failed to store file", "userId", userID, "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to store avatar"})
		return
	}

	originalURL, err := domain.NewImageURL(strings.TrimRight(h.PublicBaseURL, "/") + "/" + key)
	if err != nil {
		logger.Error("avatar upload produced invalid object url", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to describe avatar"})
		return
	}

	image, err := domain.NewProcessedImage(uuid.NewString(), originalURL, size, format, domain.ImageTypeUserProfile, userID)
	if err != nil {
		logger.Error("avatar upload produced invalid metadata", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to describe avatar"})
		return
	}

	logger.Info("avatar staged for processing", "userId", userID, "key", key, "bytes", size.Bytes())
	respondJSON(ctx, w, http.StatusAccepted, avatarResponse{
		ID:          image.ID,
		OriginalURL: image.OriginalURL.String(),
		Size:        image.Size.Bytes(),
		Format:      image.Format.String(),
		Type:        string(image.Type),
		OwnerID:     image.OwnerID.String(),
		CreatedAt:   image.CreatedAt,
	})
}

type updateProfileRequest struct {
	UserID      string  `json:"userId"`
	Username    *string `json:"username"`
	Bio         *string `json:"bio"`
	DisplayName *string `json:"displayName"`
}

type avatarResponse struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	Size        int64     `json:"size"`
	Format      string    `json:"format"`
	Type        string    `json:"type"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func formatFromUpload(header *multipart.FileHeader) string {
	ext := strings.TrimPrefix(path.Ext(header.Filename), ".")
	if ext != "" {
		return ext
	}
	return strings.TrimPrefix(header.Header.Get("Content-Type"), "image/")
}
