package domain

import (
	"net/url"
	"strings"
)

// UserID identifies an account. Opaque; compared by value.
type UserID string

// NewUserID validates and wraps a raw identifier.
func NewUserID(raw string) (UserID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", validationErr("userId", "must not be empty")
	}
	return UserID(raw), nil
}

func (id UserID) String() string { return string(id) }

// FriendID identifies a friend relationship aggregate.
type FriendID string

// NewFriendID validates and wraps a raw identifier.
func NewFriendID(raw string) (FriendID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", validationErr("friendId", "must not be empty")
	}
	return FriendID(raw), nil
}

func (id FriendID) String() string { return string(id) }

// minTokenLength is the shortest credential accepted for session material.
const minTokenLength = 10

// SessionToken is the bearer credential attached to a session.
type SessionToken string

// NewSessionToken validates and wraps a raw token value.
func NewSessionToken(raw string) (SessionToken, error) {
	if len(raw) < minTokenLength {
		return "", validationErr("token", "must be at least 10 characters")
	}
	return SessionToken(raw), nil
}

func (t SessionToken) String() string { return string(t) }

// RefreshToken is the rotation credential attached to a session.
type RefreshToken string

// NewRefreshToken validates and wraps a raw token value.
func NewRefreshToken(raw string) (RefreshToken, error) {
	if len(raw) < minTokenLength {
		return "", validationErr("refreshToken", "must be at least 10 characters")
	}
	return RefreshToken(raw), nil
}

func (t RefreshToken) String() string { return string(t) }

// ImageURL is a validated https URL pointing at an image asset.
type ImageURL string

// NewImageURL validates the raw string as an absolute https URL.
func NewImageURL(raw string) (ImageURL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", validationErr("imageUrl", "must be a valid URL")
	}
	if parsed.Scheme != "https" || parsed.Host == "" {
		return "", validationErr("imageUrl", "must use the https scheme")
	}
	return ImageURL(raw), nil
}

func (u ImageURL) String() string { return string(u) }

// MaxImageBytes is the inclusive upper bound for uploaded image payloads.
const MaxImageBytes int64 = 10 << 20

// ImageSize is a validated image payload size in bytes.
type ImageSize int64

// NewImageSize validates the byte count: positive and at most MaxImageBytes.
func NewImageSize(bytes int64) (ImageSize, error) {
	if bytes <= 0 {
		return 0, validationErr("imageSize", "must be a positive number of bytes")
	}
	if bytes > MaxImageBytes {
		return 0, validationErr("imageSize", "exceeds the maximum allowed size")
	}
	return ImageSize(bytes), nil
}

func (s ImageSize) Bytes() int64 { return int64(s) }

// supportedImageFormats is the whitelist accepted for uploads.
var supportedImageFormats = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

// ImageFormat is a validated image format name, normalized to lower case so
// comparisons are case-insensitive.
type ImageFormat string

// NewImageFormat validates the format against the supported whitelist.
func NewImageFormat(raw string) (ImageFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := supportedImageFormats[normalized]; !ok {
		return "", validationErr("imageFormat", "unsupported image format")
	}
	return ImageFormat(normalized), nil
}

func (f ImageFormat) String() string { return string(f) }

// Equals compares formats ignoring case on either side.
func (f ImageFormat) Equals(other ImageFormat) bool {
	return strings.EqualFold(string(f), string(other))
}
