package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/betgate/internal/model"
)

// State is the global mode that decides which operations are legal
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	// StateRegistrationInProgress is only held while Register runs
	StateRegistrationInProgress State = "registration_in_progress"
	StateRegularSession         State = "regular_session"
	StateAdminSession           State = "admin_session"
)

// Snapshot is a point-in-time view of the session
type Snapshot struct {
	State    State
	UserName string     // empty when unauthenticated
	Role     model.Role // empty when unauthenticated
}

// Authenticated reports whether a user is logged in
func (s Snapshot) Authenticated() bool {
	return s.UserName != ""
}

// Directory is the user store the machine reads and writes
type Directory interface {
	LookupActive(ctx context.Context, userName string) (*model.User, error)
	IsBlocked(ctx context.Context, userName string) (bool, error)
	Insert(ctx context.Context, user *model.User) error
	Block(ctx context.Context, userName string) error
}

// Validator checks registration input
type Validator interface {
	ValidateUsername(ctx context.Context, candidate string) (string, error)
	ValidatePassword(candidate string) (string, error)
}

// Registrar creates accounts
type Registrar interface {
	Register(ctx context.Context, name, password string, role model.Role) (*model.User, error)
}

// Authenticator opens and closes the session
type Authenticator interface {
	Login(ctx context.Context, userName, password string) (*model.User, error)
	Logout()
}

// Machine tracks the single session. Every operation holds mu for its
// whole duration so directory reads and the state change are one step.
type Machine struct {
	directory Directory
	validator Validator

	mu      sync.Mutex
	state   State
	current *model.User
}

var (
	_ Registrar     = (*Machine)(nil)
	_ Authenticator = (*Machine)(nil)
)

// New creates a Machine in the unauthenticated state
func New(directory Directory, validator Validator) *Machine {
	return &Machine{
		directory: directory,
		validator: validator,
		state:     StateUnauthenticated,
	}
}

// Register validates and stores a new user. The session stays
// unauthenticated whatever the outcome.
func (m *Machine) Register(ctx context.Context, name, password string, role model.Role) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUnauthenticated {
		return nil, model.ErrSessionActive
	}
	if !role.Valid() {
		return nil, model.ErrInvalidRole
	}

	m.state = StateRegistrationInProgress
	defer func() { m.state = StateUnauthenticated }()

	userName, err := m.validator.ValidateUsername(ctx, name)
	if err != nil {
		return nil, err
	}
	pw, err := m.validator.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName: userName,
		Password: pw,
		Role:     role,
	}
	if err := m.directory.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// Login opens a session. Checks run in order: blocked, unknown user,
// wrong password. Any failure leaves the session unauthenticated.
func (m *Machine) Login(ctx context.Context, userName, password string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUnauthenticated {
		return nil, model.ErrSessionActive
	}

	blocked, err := m.directory.IsBlocked(ctx, userName)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, model.ErrBlockedUser
	}

	user, err := m.directory.LookupActive(ctx, userName)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrWrongAuthData
		}
		return nil, err
	}

	if user.Password != password {
		return nil, model.ErrWrongAuthData
	}

	m.current = user
	if user.IsAdmin() {
		m.state = StateAdminSession
	} else {
		m.state = StateRegularSession
	}
	return user.Clone(), nil
}

// Logout resets the session. Safe to call in any state.
func (m *Machine) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	m.state = StateUnauthenticated
}

// BlockUser moves userName to the blocked set. Admin only. An admin
// blocking themself keeps the open session until logout.
func (m *Machine) BlockUser(ctx context.Context, userName string) error {
	return m.WithAdmin(func(*model.User) error {
		return m.directory.Block(ctx, userName)
	})
}

// WithRegularUser runs fn with the logged-in regular user while holding
// the session lock. Returns ErrUnauthorized in any other state.
func (m *Machine) WithRegularUser(fn func(user *model.User) error) error {
	return m.withState(StateRegularSession, fn)
}

// WithAdmin runs fn with the logged-in admin while holding the session
// lock. Returns ErrUnauthorized in any other state.
func (m *Machine) WithAdmin(fn func(user *model.User) error) error {
	return m.withState(StateAdminSession, fn)
}

// Snapshot returns the current state and user
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{State: m.state}
	if m.current != nil {
		snap.UserName = m.current.UserName
		snap.Role = m.current.Role
	}
	return snap
}

func (m *Machine) withState(want State, fn func(user *model.User) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != want || m.current == nil {
		return model.ErrUnauthorized
	}
	return fn(m.current.Clone())
}
