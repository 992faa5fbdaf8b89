package profileimages

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"
)

const (
	// StagingPrefix is where clients upload raw profile images:
	// user_profile_images/<userId>/<anything>.
	StagingPrefix = "user_profile_images"
	// ProcessedPrefix is the stable app-facing location:
	// user_profiles/<userId>/profile.webp.
	ProcessedPrefix = "user_profiles"

	canonicalFilename = "profile.webp"

	// DefaultSignedURLTTL is effectively permanent for the app's purposes.
	DefaultSignedURLTTL = 10 * 365 * 24 * time.Hour
)

// ObjectStore captures the storage operations the pipeline needs.
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	SignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Event is the storage-finalize notification delivered by the platform.
type Event struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// Processor derives the canonical profile image from a finalized staging
// upload. Failures are logged and swallowed: the platform may redeliver
// events, so the pipeline favors completing without raising over strict
// error visibility.
type Processor struct {
	store        ObjectStore
	signedURLTTL time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewProcessor constructs a Processor over the provided object store.
func NewProcessor(store ObjectStore, signedURLTTL time.Duration, logger *slog.Logger) *Processor {
	if signedURLTTL <= 0 {
		signedURLTTL = DefaultSignedURLTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:        store,
		signedURLTTL: signedURLTTL,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Process handles one finalized-object event and returns the published
// signed URL, or "" when the event was ignored or a step failed. It never
// returns an error and performs no storage operations unless the event
// matches the staging convention for raw profile images.
func (p *Processor) Process(ctx context.Context, event Event) string {
	if event.Name == "" || event.ContentType == "" {
		return ""
	}

	if !strings.HasPrefix(event.ContentType, "image/") {
		return ""
	}

	segments := strings.Split(event.Name, "/")
	if len(segments) < 2 || segments[0] != StagingPrefix {
		// Uploads outside the staging directory, including already
		// processed files, are ignored.
		return ""
	}

	userID := segments[1]
	if userID == "" {
		p.logger.Error("profile image upload missing user id segment", "object", event.Name)
		return ""
	}

	if p.store == nil {
		p.logger.Error("profile image pipeline has no object store configured", "object", event.Name)
		return ""
	}

	destination := path.Join(ProcessedPrefix, userID, canonicalFilename)
	logger := p.logger.With("userId", userID, "source", event.Name, "destination", destination)

	exists, err := p.store.Exists(ctx, destination)
	if err != nil {
		logger.Error("check existing profile image", "error", err)
	} else if exists {
		// Overwrite idempotently; a failed delete does not abort processing.
		if err := p.store.Delete(ctx, destination); err != nil {
			logger.Error("delete previous profile image", "error", err)
		}
	}

	if err := p.store.Copy(ctx, event.Name, destination); err != nil {
		logger.Error("copy profile image to canonical path", "error", err)
		return ""
	}

	var publishedURL string
	signedURL, err := p.store.SignedGetURL(ctx, destination, p.signedURLTTL)
	if err != nil {
		logger.Error("sign profile image url", "error", err)
	} else {
		publishedURL = withCacheBuster(signedURL, p.now())
		logger.Info("profile image processed", "url", publishedURL)
	}

	// Cleanup is best effort: the processed asset already exists.
	if err := p.store.Delete(ctx, event.Name); err != nil {
		logger.Error("delete staging profile image", "error", err)
	}

	return publishedURL
}

func withCacheBuster(rawURL string, now time.Time) string {
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%sv=%d", rawURL, separator, now.UnixMilli())
}
