// Package platform is the single entry point to the betting access layer.
//
// It composes the session state machine, the user directory and the bet
// ledger. Every operation returns a value or one of the typed errors in
// package model; nothing here prints or logs.
package platform

import (
	"context"

	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/services/directory"
	"github.com/mcoot/betgate/internal/services/ledger"
	"github.com/mcoot/betgate/internal/services/session"
)

// Platform exposes register, login, logout, bet and admin operations
type Platform struct {
	session   *session.Machine
	directory *directory.Service
	ledger    *ledger.Service
}

// New creates a Platform from its components
func New(machine *session.Machine, directory *directory.Service, ledger *ledger.Service) *Platform {
	return &Platform{
		session:   machine,
		directory: directory,
		ledger:    ledger,
	}
}

// Register creates an account. It does not log the new user in.
func (p *Platform) Register(ctx context.Context, name, password string, role model.Role) (*model.User, error) {
	return p.session.Register(ctx, name, password, role)
}

// Login opens a session for userName
func (p *Platform) Login(ctx context.Context, userName, password string) (*model.User, error) {
	return p.session.Login(ctx, userName, password)
}

// Logout closes the current session, if any
func (p *Platform) Logout() {
	p.session.Logout()
}

// Status reports the current session state
func (p *Platform) Status() session.Snapshot {
	return p.session.Snapshot()
}

// PlaceBet records a bet for the logged-in regular user
func (p *Platform) PlaceBet(ctx context.Context, bet string) error {
	return p.ledger.PlaceBet(ctx, bet)
}

// ListBets returns the logged-in regular user's bets
func (p *Platform) ListBets(ctx context.Context) ([]string, error) {
	return p.ledger.ListBets(ctx)
}

// ListRegularUsers returns the names of active regular users, sorted.
// Admin only.
func (p *Platform) ListRegularUsers(ctx context.Context) ([]string, error) {
	var names []string
	err := p.session.WithAdmin(func(*model.User) error {
		users, err := p.directory.ListActive(ctx)
		if err != nil {
			return err
		}
		names = make([]string, 0, len(users))
		for _, u := range users {
			if u.Role == model.RoleRegular {
				names = append(names, u.UserName)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ListBlockedUsers returns the names of blocked users, sorted. Admin only.
func (p *Platform) ListBlockedUsers(ctx context.Context) ([]string, error) {
	var names []string
	err := p.session.WithAdmin(func(*model.User) error {
		users, err := p.directory.ListBlocked(ctx)
		if err != nil {
			return err
		}
		names = make([]string, 0, len(users))
		for _, u := range users {
			names = append(names, u.UserName)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// BlockUser bars userName from future logins. Admin only.
func (p *Platform) BlockUser(ctx context.Context, userName string) error {
	return p.session.BlockUser(ctx, userName)
}
