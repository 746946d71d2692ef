package ledger

import (
	"context"
	"strings"

	"github.com/mcoot/betgate/internal/model"
)

// Gate admits callers only while a regular user is logged in
type Gate interface {
	WithRegularUser(fn func(user *model.User) error) error
}

// Store is the append-only bet log keyed by username
type Store interface {
	AppendBet(ctx context.Context, userName, bet string) error
	GetBets(ctx context.Context, userName string) ([]string, error)
}

// Service records bets for the logged-in regular user
type Service struct {
	gate  Gate
	store Store
}

// New creates a new ledger Service
func New(gate Gate, store Store) *Service {
	return &Service{
		gate:  gate,
		store: store,
	}
}

// PlaceBet appends bet to the current user's ledger
func (s *Service) PlaceBet(ctx context.Context, bet string) error {
	return s.gate.WithRegularUser(func(user *model.User) error {
		if strings.TrimSpace(bet) == "" {
			return model.ErrEmptyBet
		}
		return s.store.AppendBet(ctx, user.UserName, bet)
	})
}

// ListBets returns the current user's bets in the order they were placed
func (s *Service) ListBets(ctx context.Context) ([]string, error) {
	var bets []string
	err := s.gate.WithRegularUser(func(user *model.User) error {
		var err error
		bets, err = s.store.GetBets(ctx, user.UserName)
		return err
	})
	if err != nil {
		return nil, err
	}
	if bets == nil {
		bets = []string{}
	}
	return bets, nil
}
