package repositories

import (
	"context"

	"github.com/teamhub/backend/internal/domain"
)

// FriendRepository defines data access for friend relationship records.
type FriendRepository interface {
	Create(ctx context.Context, record domain.FriendRecord) error
	Get(ctx context.Context, id string) (domain.FriendRecord, error)
	Update(ctx context.Context, record domain.FriendRecord) error
	ListForUser(ctx context.Context, userID string) ([]domain.FriendRecord, error)
}
