package repositories

import (
	"context"

	"github.com/teamhub/backend/internal/profiles"
)

// UserRepository defines data access for user accounts and their profiles.
type UserRepository interface {
	Create(ctx context.Context, user profiles.User) error
	FindByEmail(ctx context.Context, email string) (profiles.User, error)
	FindProfile(ctx context.Context, userID string) (profiles.UserProfile, error)
	SaveProfile(ctx context.Context, profile profiles.UserProfile) error
}
