package storage

import (
	"context"
	"time"

	"github.com/mcoot/betgate/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Active user operations
	SaveActiveUser(ctx context.Context, user *model.User) error
	GetActiveUser(ctx context.Context, userName string) (*model.User, error)
	ListActiveUsers(ctx context.Context) ([]*model.User, error)

	// Blocked user operations
	IsBlocked(ctx context.Context, userName string) (bool, error)
	// BlockUser moves a user from the active set to the blocked set.
	// Returns model.ErrUserNotFound if the user is not active. Blocked
	// records are keyed by username, so a later block replaces an earlier one.
	BlockUser(ctx context.Context, userName string, blockedAt time.Time) error
	ListBlockedUsers(ctx context.Context) ([]*model.User, error)

	// Bet operations
	AppendBet(ctx context.Context, userName, bet string) error
	GetBets(ctx context.Context, userName string) ([]string, error)
}
