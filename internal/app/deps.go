package app

import (
	"time"

	"github.com/teamhub/backend/internal/auth"
	"github.com/teamhub/backend/internal/config"
	"github.com/teamhub/backend/internal/db"
	"github.com/teamhub/backend/internal/handlers"
	"github.com/teamhub/backend/internal/middleware"
	"github.com/teamhub/backend/internal/profileimages"
	"github.com/teamhub/backend/internal/profiles"
	"github.com/teamhub/backend/internal/repositories"
	"github.com/teamhub/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config, objectStore *storage.S3Storage, queue *profileimages.Queue) handlers.Dependencies {
	users := repositories.NewPostgresUserRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateRequests, cfg.AuthRateWindow, cfg.AuthRateBurst, 10*time.Minute)
	inviteLimiter := middleware.NewIPRateLimiter(cfg.AuthRateRequests, cfg.AuthRateWindow, cfg.AuthRateBurst, 10*time.Minute)

	return handlers.Dependencies{
		Users:    users,
		Sessions: auth.NewService(cfg.SessionAccessTTL, cfg.SessionRefreshTTL, sessionStore),
		Friends:  repositories.NewPostgresFriendRepository(pool),
		Profiles: profiles.NewService(users),
		Avatars:  objectStore,
		Events:   queue,

		PublicBaseURL: cfg.ObjectStore.PublicBaseURL,

		AuthLimiter:   authLimiter,
		InviteLimiter: inviteLimiter,
	}
}
