package directory

import (
	"context"

	"github.com/mcoot/betgate/internal/dependencies/clock"
	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/storage"
)

// Service holds the active and blocked user sets
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new directory Service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// LookupActive returns the active user with the given name
func (s *Service) LookupActive(ctx context.Context, userName string) (*model.User, error) {
	return s.storage.GetActiveUser(ctx, userName)
}

// IsBlocked reports whether userName is in the blocked set
func (s *Service) IsBlocked(ctx context.Context, userName string) (bool, error) {
	return s.storage.IsBlocked(ctx, userName)
}

// Insert adds user to the active set. Callers validate uniqueness first;
// an existing active user with the same name is overwritten.
func (s *Service) Insert(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.clock.Now()
	}
	return s.storage.SaveActiveUser(ctx, user)
}

// Block moves userName from the active set to the blocked set
func (s *Service) Block(ctx context.Context, userName string) error {
	return s.storage.BlockUser(ctx, userName, s.clock.Now())
}

// ListActive returns active users sorted by username
func (s *Service) ListActive(ctx context.Context) ([]*model.User, error) {
	return s.storage.ListActiveUsers(ctx)
}

// ListBlocked returns blocked users sorted by username
func (s *Service) ListBlocked(ctx context.Context) ([]*model.User, error) {
	return s.storage.ListBlockedUsers(ctx)
}
