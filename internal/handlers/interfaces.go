package handlers

import (
	"context"
	"io"

	"github.com/teamhub/backend/internal/domain"
	"github.com/teamhub/backend/internal/profileimages"
	"github.com/teamhub/backend/internal/profiles"
)

// UserStore captures the persistence operations required by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, user profiles.User) error
	FindByEmail(ctx context.Context, email string) (profiles.User, error)
}

// SessionService issues, rotates and revokes sessions for users.
type SessionService interface {
	Issue(ctx context.Context, userID domain.UserID, ipAddress *string) (domain.Session, error)
	Refresh(ctx context.Context, refreshToken string, ipAddress *string) (domain.Session, error)
	Revoke(ctx context.Context, refreshToken string)
}

// FriendStore captures persistence for friend relationship records.
type FriendStore interface {
	Create(ctx context.Context, record domain.FriendRecord) error
	Get(ctx context.Context, id string) (domain.FriendRecord, error)
	Update(ctx context.Context, record domain.FriendRecord) error
	ListForUser(ctx context.Context, userID string) ([]domain.FriendRecord, error)
}

// ProfileService applies profile updates on behalf of the profile handler.
type ProfileService interface {
	UpdateProfile(ctx context.Context, input profiles.UpdateInput) (profiles.UserProfile, error)
}

// AvatarStorage writes raw uploads to the staging location.
type AvatarStorage interface {
	Save(ctx context.Context, name string, contentType string, r io.Reader) error
}

// EventSink schedules storage-finalize events for the image pipeline.
type EventSink interface {
	Enqueue(ctx context.Context, event profileimages.Event) error
}
