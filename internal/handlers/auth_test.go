package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/teamhub/backend/internal/auth"
	"github.com/teamhub/backend/internal/profiles"
	"github.com/teamhub/backend/internal/repositories"
)

type inMemoryUserStore struct {
	users map[string]profiles.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[string]profiles.User)}
}

func (s *inMemoryUserStore) Create(_ context.Context, user profiles.User) error {
	if _, exists := s.users[user.Email]; exists {
		return repositories.ErrConflict
	}
	s.users[user.Email] = user
	return nil
}

func (s *inMemoryUserStore) FindByEmail(_ context.Context, email string) (profiles.User, error) {
	user, ok := s.users[email]
	if !ok {
		return profiles.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func newSessionService() *auth.Service {
	return auth.NewService(time.Minute, time.Hour, auth.NewInMemorySessionStore())
}

func TestAuthHandlerSignUp(t *testing.T) {
	store := newInMemoryUserStore()
	handler := AuthHandler{Users: store, Sessions: newSessionService()}

	body, err := json.Marshal(signUpRequest{Email: "test@example.com", Password: "supersafe"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SignUp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d", http.StatusCreated, rec.Code)
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued, got %+v", resp.Tokens)
	}

	stored, err := store.FindByEmail(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("expected user to be stored: %v", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersafe")) != nil {
		t.Fatal("stored password is not hashed")
	}
}

func TestAuthHandlerSignUpRejectsDuplicate(t *testing.T) {
	store := newInMemoryUserStore()
	store.users["taken@example.com"] = profiles.User{ID: "user-1", Email: "taken@example.com"}
	handler := AuthHandler{Users: store, Sessions: newSessionService()}

	body, _ := json.Marshal(signUpRequest{Email: "taken@example.com", Password: "supersafe"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SignUp(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d got %d", http.StatusConflict, rec.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	store := newInMemoryUserStore()
	handler := AuthHandler{Users: store, Sessions: newSessionService()}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store.users["login@example.com"] = profiles.User{ID: "user-1", Email: "login@example.com", Password: string(hashed)}

	body, err := json.Marshal(loginRequest{Email: "login@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued, got %+v", resp.Tokens)
	}
}

func TestAuthHandlerLoginRejectsBadPassword(t *testing.T) {
	store := newInMemoryUserStore()
	handler := AuthHandler{Users: store, Sessions: newSessionService()}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	store.users["login@example.com"] = profiles.User{ID: "user-1", Email: "login@example.com", Password: string(hashed)}

	body, _ := json.Marshal(loginRequest{Email: "login@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthHandlerRefreshRotatesTokens(t *testing.T) {
	sessions := newSessionService()
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: sessions}

	issued, err := sessions.Issue(context.Background(), "user-123", nil)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	body, _ := json.Marshal(refreshRequest{RefreshToken: issued.RefreshToken.String()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Tokens.RefreshToken == issued.RefreshToken.String() {
		t.Fatal("expected refresh token to rotate")
	}
}

func TestAuthHandlerRefreshRejectsUnknownToken(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newSessionService()}

	body, _ := json.Marshal(refreshRequest{RefreshToken: "not-a-real-token"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthHandlerLogoutIsIdempotent(t *testing.T) {
	sessions := newSessionService()
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: sessions}

	issued, err := sessions.Issue(context.Background(), "user-123", nil)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(refreshRequest{RefreshToken: issued.RefreshToken.String()})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Logout(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected status %d got %d", i+1, http.StatusNoContent, rec.Code)
		}
	}

	if _, err := sessions.Refresh(context.Background(), issued.RefreshToken.String(), nil); err == nil {
		t.Fatal("expected revoked session to refuse refresh")
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestAuthHandlerLoginRateLimited(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: newSessionService(), Limiter: denyAllLimiter{}}

	body, _ := json.Marshal(loginRequest{Email: "login@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d got %d", http.StatusTooManyRequests, rec.Code)
	}
}
