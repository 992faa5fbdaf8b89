package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teamhub/backend/internal/domain"
)

var (
	// ErrSessionNotFound indicates the provided refresh token does not map to a known session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRefreshTokenExpired indicates the refresh window has closed and the session cannot be rotated.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	// ErrSessionRevoked indicates the session was explicitly revoked.
	ErrSessionRevoked = errors.New("session revoked")
)

// SessionStore persists session records so they can survive process restarts.
type SessionStore interface {
	Save(ctx context.Context, record domain.SessionRecord) error
	FindByRefreshToken(ctx context.Context, refreshToken string) (domain.SessionRecord, error)
	Update(ctx context.Context, record domain.SessionRecord) error
}

// Service manages the session lifecycle through the Session aggregate,
// backed by a persistent store.
type Service struct {
	accessTTL  time.Duration
	refreshTTL time.Duration

	store SessionStore
}

// NewService constructs a Service that issues sessions with the provided TTLs.
func NewService(accessTTL, refreshTTL time.Duration, store SessionStore) *Service {
	if store == nil {
		panic("auth: session store must not be nil")
	}
	return &Service{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
	}
}

// Issue creates and persists a new active session for the provided user.
func (s *Service) Issue(ctx context.Context, userID domain.UserID, ipAddress *string) (domain.Session, error) {
	if userID == "" {
		return domain.Session{}, errors.New("user id must be provided")
	}

	token, refreshToken, err := newTokenPair()
	if err != nil {
		return domain.Session{}, err
	}

	expiresAt := time.Now().UTC().Add(s.accessTTL)
	session, err := domain.NewSession(uuid.NewString(), userID, token, refreshToken, expiresAt, ipAddress)
	if err != nil {
		return domain.Session{}, fmt.Errorf("build session: %w", err)
	}

	if err := s.store.Save(ctx, session.Record()); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

// Refresh rotates the token material for the session matching the refresh
// token. Rotation reactivates the session even after its access expiry, but
// refuses revoked sessions and sessions past the refresh window.
func (s *Service) Refresh(ctx context.Context, refreshToken string, ipAddress *string) (domain.Session, error) {
	if refreshToken == "" {
		return domain.Session{}, ErrSessionNotFound
	}

	record, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return domain.Session{}, err
	}

	session, err := domain.SessionFromRecord(record)
	if err != nil {
		return domain.Session{}, fmt.Errorf("restore session: %w", err)
	}

	if session.Status == domain.SessionRevoked {
		return domain.Session{}, ErrSessionRevoked
	}

	if time.Now().UTC().After(session.CreatedAt.Add(s.refreshTTL)) {
		expired := session.Expire()
		_ = s.store.Update(ctx, expired.Record())
		return domain.Session{}, ErrRefreshTokenExpired
	}

	token, newRefreshToken, err := newTokenPair()
	if err != nil {
		return domain.Session{}, err
	}

	rotated := session.UpdateAccess(ipAddress).Refresh(token, newRefreshToken, time.Now().UTC().Add(s.accessTTL))
	if err := s.store.Update(ctx, rotated.Record()); err != nil {
		return domain.Session{}, err
	}

	return rotated, nil
}

// Revoke invalidates the session matching the refresh token. Unknown tokens
// are ignored so logout is idempotent.
func (s *Service) Revoke(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	record, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return
	}

	session, err := domain.SessionFromRecord(record)
	if err != nil {
		return
	}

	_ = s.store.Update(ctx, session.Revoke().Record())
}

// Touch records an access against the session matching the refresh token.
func (s *Service) Touch(ctx context.Context, refreshToken string, ipAddress *string) error {
	record, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	session, err := domain.SessionFromRecord(record)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	return s.store.Update(ctx, session.UpdateAccess(ipAddress).Record())
}

func newTokenPair() (domain.SessionToken, domain.RefreshToken, error) {
	rawToken, err := randomToken()
	if err != nil {
		return "", "", err
	}
	rawRefresh, err := randomToken()
	if err != nil {
		return "", "", err
	}

	token, err := domain.NewSessionToken(rawToken)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := domain.NewRefreshToken(rawRefresh)
	if err != nil {
		return "", "", err
	}

	return token, refreshToken, nil
}

func randomToken() (string, error) {
	const size = 32
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
