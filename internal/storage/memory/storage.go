package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	active  map[string]*model.User
	blocked map[string]*model.User
	bets    map[string][]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		active:  make(map[string]*model.User),
		blocked: make(map[string]*model.User),
		bets:    make(map[string][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Active user operations

func (s *Storage) SaveActiveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[user.UserName] = user.Clone()
	return nil
}

func (s *Storage) GetActiveUser(ctx context.Context, userName string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.active[userName]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Storage) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedUsers(s.active), nil
}

// Blocked user operations

func (s *Storage) IsBlocked(ctx context.Context, userName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocked[userName]
	return ok, nil
}

func (s *Storage) BlockUser(ctx context.Context, userName string, blockedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.active[userName]
	if !ok {
		return model.ErrUserNotFound
	}
	user.BlockedAt = blockedAt
	s.blocked[userName] = user
	delete(s.active, userName)
	return nil
}

func (s *Storage) ListBlockedUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedUsers(s.blocked), nil
}

// Bet operations

func (s *Storage) AppendBet(ctx context.Context, userName, bet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bets[userName] = append(s.bets[userName], bet)
	return nil
}

func (s *Storage) GetBets(ctx context.Context, userName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, len(s.bets[userName]))
	copy(result, s.bets[userName])
	return result, nil
}

func sortedUsers(m map[string]*model.User) []*model.User {
	users := make([]*model.User, 0, len(m))
	for _, u := range m {
		users = append(users, u.Clone())
	}
	slices.SortFunc(users, func(a, b *model.User) int {
		return strings.Compare(a.UserName, b.UserName)
	})
	return users
}
