package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/teamhub/backend/internal/profiles"
)

type inMemoryProfileRepo struct {
	byUser map[string]profiles.UserProfile
}

func newInMemoryProfileRepo() *inMemoryProfileRepo {
	return &inMemoryProfileRepo{byUser: make(map[string]profiles.UserProfile)}
}

func (r *inMemoryProfileRepo) FindProfile(_ context.Context, userID string) (profiles.UserProfile, error) {
	profile, ok := r.byUser[userID]
	if !ok {
		return profiles.UserProfile{}, profiles.ErrNotFound
	}
	return profile, nil
}

func (r *inMemoryProfileRepo) SaveProfile(_ context.Context, profile profiles.UserProfile) error {
	if _, ok := r.byUser[profile.UserID]; !ok {
		return profiles.ErrNotFound
	}
	r.byUser[profile.UserID] = profile
	return nil
}

func postProfileUpdate(t *testing.T, handler ProfileHandler, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/update", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Update(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp["error"]
}

func TestProfileHandlerUpdate(t *testing.T) {
	repo := newInMemoryProfileRepo()
	repo.byUser["user-1"] = profiles.UserProfile{UserID: "user-1", Username: "original", Bio: "old bio"}
	handler := ProfileHandler{Profiles: profiles.NewService(repo)}

	username := "newname"
	rec := postProfileUpdate(t, handler, updateProfileRequest{UserID: "user-1", Username: &username})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp map[string]profiles.UserProfile
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	updated := resp["userProfile"]
	if updated.Username != "newname" {
		t.Fatalf("expected username to update, got %q", updated.Username)
	}
	if updated.Bio != "old bio" {
		t.Fatalf("expected untouched fields to be retained, got %q", updated.Bio)
	}
}

func TestProfileHandlerUpdateRequiresUserID(t *testing.T) {
	handler := ProfileHandler{Profiles: profiles.NewService(newInMemoryProfileRepo())}

	rec := postProfileUpdate(t, handler, updateProfileRequest{UserID: "   "})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got != "User ID is required" {
		t.Fatalf("expected %q got %q", "User ID is required", got)
	}
}

func TestProfileHandlerUpdateUnknownUser(t *testing.T) {
	handler := ProfileHandler{Profiles: profiles.NewService(newInMemoryProfileRepo())}

	rec := postProfileUpdate(t, handler, updateProfileRequest{UserID: "ghost"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestProfileHandlerUpdateValidationFailure(t *testing.T) {
	repo := newInMemoryProfileRepo()
	repo.byUser["user-1"] = profiles.UserProfile{UserID: "user-1"}
	handler := ProfileHandler{Profiles: profiles.NewService(repo)}

	short := "ab"
	rec := postProfileUpdate(t, handler, updateProfileRequest{UserID: "user-1", Username: &short})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

type failingProfileService struct {
	err error
}

func (s failingProfileService) UpdateProfile(context.Context, profiles.UpdateInput) (profiles.UserProfile, error) {
	return profiles.UserProfile{}, s.err
}

func TestProfileHandlerUpdateWrapsUnexpectedErrors(t *testing.T) {
	handler := ProfileHandler{Profiles: failingProfileService{err: errors.New("connection reset")}}

	rec := postProfileUpdate(t, handler, updateProfileRequest{UserID: "user-1"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d got %d", http.StatusInternalServerError, rec.Code)
	}
	if got := decodeError(t, rec); got != "Update profile failed: connection reset" {
		t.Fatalf("expected wrapped message, got %q", got)
	}
}

type capturedUpload struct {
	name        string
	contentType string
	bytes       int
}

type fakeAvatarStorage struct {
	uploads []capturedUpload
	err     error
}

func (s *fakeAvatarStorage) Save(_ context.Context, name string, contentType string, r io.Reader) error {
	if s.err != nil {
		return s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.uploads = append(s.uploads, capturedUpload{name: name, contentType: contentType, bytes: len(data)})
	return nil
}

func multipartAvatarRequest(t *testing.T, userID, filename, contentType, contents string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("userId", userID); err != nil {
		t.Fatalf("write field: %v", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestProfileHandlerUploadAvatar(t *testing.T) {
	store := &fakeAvatarStorage{}
	handler := ProfileHandler{Avatars: store, PublicBaseURL: "https://cdn.example.com"}

	req := multipartAvatarRequest(t, "user-1", "me.png", "image/png", "fake image bytes")
	rec := httptest.NewRecorder()

	handler.UploadAvatar(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status %d got %d: %s", http.StatusAccepted, rec.Code, rec.Body.String())
	}

	if len(store.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(store.uploads))
	}

	upload := store.uploads[0]
	if !strings.HasPrefix(upload.name, "user_profile_images/user-1/") {
		t.Fatalf("expected staging key, got %q", upload.name)
	}
	if !strings.HasSuffix(upload.name, ".png") {
		t.Fatalf("expected png extension, got %q", upload.name)
	}

	var resp avatarResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Format != "png" || resp.OwnerID != "user-1" {
		t.Fatalf("unexpected metadata: %+v", resp)
	}
	if !strings.HasPrefix(resp.OriginalURL, "https://cdn.example.com/user_profile_images/user-1/") {
		t.Fatalf("unexpected original url %q", resp.OriginalURL)
	}
}

func TestProfileHandlerUploadAvatarRejectsUnsupportedFormat(t *testing.T) {
	store := &fakeAvatarStorage{}
	handler := ProfileHandler{Avatars: store, PublicBaseURL: "https://cdn.example.com"}

	req := multipartAvatarRequest(t, "user-1", "notes.pdf", "application/pdf", "not an image")
	rec := httptest.NewRecorder()

	handler.UploadAvatar(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
	if len(store.uploads) != 0 {
		t.Fatal("expected no upload for rejected format")
	}
}

func TestProfileHandlerUploadAvatarRequiresUserID(t *testing.T) {
	handler := ProfileHandler{Avatars: &fakeAvatarStorage{}, PublicBaseURL: "https://cdn.example.com"}

	req := multipartAvatarRequest(t, "", "me.png", "image/png", "fake image bytes")
	rec := httptest.NewRecorder()

	handler.UploadAvatar(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got != "User ID is required" {
		t.Fatalf("expected %q got %q", "User ID is required", got)
	}
}
