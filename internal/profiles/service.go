package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamhub/backend/internal/domain"
)

// ErrNotFound indicates no profile exists for the requested user.
var ErrNotFound = errors.New("user profile not found")

// User is an account record together with its public profile fields.
type User struct {
	ID          string
	Email       string
	Password    string
	Username    string
	DisplayName string
	Bio         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserProfile is the public snapshot returned by profile operations.
type UserProfile struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Repository captures the persistence operations the profile service needs.
type Repository interface {
	FindProfile(ctx context.Context, userID string) (UserProfile, error)
	SaveProfile(ctx context.Context, profile UserProfile) error
}

// UpdateInput carries a partial profile update; nil fields are left as-is.
type UpdateInput struct {
	UserID      string
	Username    *string
	Bio         *string
	DisplayName *string
}

// Service implements the user-profile use cases.
type Service struct {
	repo Repository
}

// NewService constructs a profile service over the provided repository.
func NewService(repo Repository) *Service {
	if repo == nil {
		panic("profiles: repository must not be nil")
	}
	return &Service{repo: repo}
}

// UpdateProfile applies the supplied fields to the user's profile and returns
// the updated snapshot. Missing users surface ErrNotFound; invalid field
// values surface a domain validation error.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateInput) (UserProfile, error) {
	if _, err := domain.NewUserID(input.UserID); err != nil {
		return UserProfile{}, err
	}

	if err := validateInput(input); err != nil {
		return UserProfile{}, err
	}

	profile, err := s.repo.FindProfile(ctx, input.UserID)
	if err != nil {
		return UserProfile{}, err
	}

	if input.Username != nil {
		profile.Username = strings.TrimSpace(*input.Username)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return UserProfile{}, fmt.Errorf("save profile: %w", err)
	}

	return profile, nil
}

func validateInput(input UpdateInput) error {
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < 3 || len(username) > 32 {
			return &domain.ValidationError{Field: "username", Message: "must be between 3 and 32 characters"}
		}
	}
	if input.DisplayName != nil && len(strings.TrimSpace(*input.DisplayName)) > 64 {
		return &domain.ValidationError{Field: "displayName", Message: "must be at most 64 characters"}
	}
	if input.Bio != nil && len(*input.Bio) > 512 {
		return &domain.ValidationError{Field: "bio", Message: "must be at most 512 characters"}
	}
	return nil
}
