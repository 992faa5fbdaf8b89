package domain

import "time"

// SessionStatus enumerates the session lifecycle.
type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionRevoked SessionStatus = "revoked"
	SessionExpired SessionStatus = "expired"
)

// Session is the aggregate root for an authenticated session. Like Friend,
// mutators return new instances; unlike Friend, sessions emit no domain
// events because their lifecycle is infrastructure-level bookkeeping.
type Session struct {
	ID             string
	UserID         UserID
	Token          SessionToken
	RefreshToken   RefreshToken
	Status         SessionStatus
	ExpiresAt      time.Time
	LastAccessedAt *time.Time
	IPAddress      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSession constructs an active session with the full field set.
func NewSession(id string, userID UserID, token SessionToken, refreshToken RefreshToken, expiresAt time.Time, ipAddress *string) (Session, error) {
	if id == "" {
		return Session{}, validationErr("session", "id is required")
	}
	if userID == "" {
		return Session{}, validationErr("session", "user id is required")
	}

	now := time.Now().UTC()
	return Session{
		ID:           id,
		UserID:       userID,
		Token:        token,
		RefreshToken: refreshToken,
		Status:       SessionActive,
		ExpiresAt:    expiresAt.UTC(),
		IPAddress:    ipAddress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsExpired reports whether the session's expiry has passed.
func (s Session) IsExpired() bool {
	return !time.Now().UTC().Before(s.ExpiresAt)
}

// IsActive reports whether the session is usable: active status and unexpired.
func (s Session) IsActive() bool {
	return s.Status == SessionActive && !s.IsExpired()
}

// Revoke invalidates the session unconditionally.
func (s Session) Revoke() Session {
	next := s
	next.Status = SessionRevoked
	next.UpdatedAt = time.Now().UTC()
	return next
}

// Expire marks the session expired unconditionally.
func (s Session) Expire() Session {
	next := s
	next.Status = SessionExpired
	next.UpdatedAt = time.Now().UTC()
	return next
}

// UpdateAccess records an access, replacing the stored IP only when a new one
// is supplied.
func (s Session) UpdateAccess(ipAddress *string) Session {
	now := time.Now().UTC()
	next := s
	next.LastAccessedAt = &now
	next.UpdatedAt = now
	if ipAddress != nil {
		next.IPAddress = ipAddress
	}
	return next
}

// Refresh swaps in new token material and reactivates the session regardless
// of its prior status (token rotation).
func (s Session) Refresh(token SessionToken, refreshToken RefreshToken, expiresAt time.Time) Session {
	now := time.Now().UTC()
	next := s
	next.Token = token
	next.RefreshToken = refreshToken
	next.ExpiresAt = expiresAt.UTC()
	next.Status = SessionActive
	next.UpdatedAt = now
	next.LastAccessedAt = &now
	return next
}

// SessionRecord is the flat persistence representation of a Session.
// Timestamps are unix milliseconds.
type SessionRecord struct {
	ID             string
	UserID         string
	Token          string
	RefreshToken   string
	Status         string
	ExpiresAt      int64
	LastAccessedAt *int64
	IPAddress      *string
	CreatedAt      int64
	UpdatedAt      int64
}

// Record flattens the aggregate for persistence.
func (s Session) Record() SessionRecord {
	rec := SessionRecord{
		ID:           s.ID,
		UserID:       s.UserID.String(),
		Token:        s.Token.String(),
		RefreshToken: s.RefreshToken.String(),
		Status:       string(s.Status),
		ExpiresAt:    s.ExpiresAt.UnixMilli(),
		IPAddress:    s.IPAddress,
		CreatedAt:    s.CreatedAt.UnixMilli(),
		UpdatedAt:    s.UpdatedAt.UnixMilli(),
	}
	if s.LastAccessedAt != nil {
		millis := s.LastAccessedAt.UnixMilli()
		rec.LastAccessedAt = &millis
	}
	return rec
}

// SessionFromRecord rebuilds the aggregate from its persisted form.
func SessionFromRecord(rec SessionRecord) (Session, error) {
	userID, err := NewUserID(rec.UserID)
	if err != nil {
		return Session{}, err
	}
	token, err := NewSessionToken(rec.Token)
	if err != nil {
		return Session{}, err
	}
	refreshToken, err := NewRefreshToken(rec.RefreshToken)
	if err != nil {
		return Session{}, err
	}

	switch SessionStatus(rec.Status) {
	case SessionActive, SessionRevoked, SessionExpired:
	default:
		return Session{}, validationErr("session", "unknown status "+rec.Status)
	}

	session := Session{
		ID:           rec.ID,
		UserID:       userID,
		Token:        token,
		RefreshToken: refreshToken,
		Status:       SessionStatus(rec.Status),
		ExpiresAt:    time.UnixMilli(rec.ExpiresAt).UTC(),
		IPAddress:    rec.IPAddress,
		CreatedAt:    time.UnixMilli(rec.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(rec.UpdatedAt).UTC(),
	}
	if rec.LastAccessedAt != nil {
		t := time.UnixMilli(*rec.LastAccessedAt).UTC()
		session.LastAccessedAt = &t
	}

	return session, nil
}
