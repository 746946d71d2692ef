package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betgate/internal/dependencies/mocks"
	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/services/credentials"
	"github.com/mcoot/betgate/internal/services/directory"
	"github.com/mcoot/betgate/internal/storage/memory"
)

type MachineSuite struct {
	suite.Suite
	directory *directory.Service
	machine   *Machine
	ctx       context.Context
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.directory = directory.New(memory.New(), clk)
	s.machine = New(s.directory, credentials.NewValidator(s.directory))
	s.ctx = context.Background()
}

func (s *MachineSuite) register(name, password string, role model.Role) {
	_, err := s.machine.Register(s.ctx, name, password, role)
	s.Require().NoError(err)
}

func (s *MachineSuite) login(name, password string) {
	_, err := s.machine.Login(s.ctx, name, password)
	s.Require().NoError(err)
}

func (s *MachineSuite) assertUnauthenticated() {
	snap := s.machine.Snapshot()
	s.Equal(StateUnauthenticated, snap.State)
	s.False(snap.Authenticated())
	s.Empty(snap.Role)
}

// Register tests

func (s *MachineSuite) TestInitialStateIsUnauthenticated() {
	s.assertUnauthenticated()
}

func (s *MachineSuite) TestRegisterSucceedsWithoutLogin() {
	user, err := s.machine.Register(s.ctx, "alice", "secret", model.RoleRegular)
	s.Require().NoError(err)

	s.Equal("alice", user.UserName)
	s.Equal(model.RoleRegular, user.Role)
	s.assertUnauthenticated()

	stored, err := s.directory.LookupActive(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("secret", stored.Password)
}

func (s *MachineSuite) TestRegisterReportsSpecificFailures() {
	s.register("alice", "secret", model.RoleRegular)

	tests := []struct {
		name, password string
		role           model.Role
		want           error
	}{
		{"alice", "secret", model.RoleRegular, model.ErrUserAlreadyExists},
		{"bob", "secret", model.RoleRegular, model.ErrBadUsername},
		{"carol", "abc", model.RoleRegular, model.ErrBadPassword},
		{"carol", "secret", model.Role("root"), model.ErrInvalidRole},
	}

	for _, tt := range tests {
		_, err := s.machine.Register(s.ctx, tt.name, tt.password, tt.role)
		s.ErrorIs(err, tt.want, "register %q", tt.name)
		s.assertUnauthenticated()
	}

	_, err := s.directory.LookupActive(s.ctx, "carol")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *MachineSuite) TestRegisterChecksUsernameBeforePassword() {
	_, err := s.machine.Register(s.ctx, "bob", "abc", model.RoleRegular)
	s.ErrorIs(err, model.ErrBadUsername)
}

func (s *MachineSuite) TestRegisterRejectedDuringSession() {
	s.register("alice", "secret", model.RoleRegular)
	s.login("alice", "secret")

	_, err := s.machine.Register(s.ctx, "carol", "secret", model.RoleRegular)
	s.ErrorIs(err, model.ErrSessionActive)
	s.ErrorIs(err, model.ErrUnauthorized)
	s.Equal(StateRegularSession, s.machine.Snapshot().State)
}

// Preserved behaviour: blocked names are free for a new registration
func (s *MachineSuite) TestBlockedUsernameCanBeRegisteredAgain() {
	s.register("alice", "secret", model.RoleRegular)
	s.register("bobby", "adminpw", model.RoleAdmin)
	s.login("bobby", "adminpw")
	s.Require().NoError(s.machine.BlockUser(s.ctx, "alice"))
	s.machine.Logout()

	_, err := s.machine.Register(s.ctx, "alice", "newsecret", model.RoleRegular)
	s.Require().NoError(err)

	// the blocked record still wins at login
	_, err = s.machine.Login(s.ctx, "alice", "newsecret")
	s.ErrorIs(err, model.ErrBlockedUser)
}

// Login tests

func (s *MachineSuite) TestLoginRegularUser() {
	s.register("alice", "secret", model.RoleRegular)

	user, err := s.machine.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.Equal("alice", user.UserName)

	snap := s.machine.Snapshot()
	s.Equal(StateRegularSession, snap.State)
	s.Equal("alice", snap.UserName)
	s.Equal(model.RoleRegular, snap.Role)
}

func (s *MachineSuite) TestLoginAdmin() {
	s.register("bobby", "adminpw", model.RoleAdmin)
	s.login("bobby", "adminpw")

	snap := s.machine.Snapshot()
	s.Equal(StateAdminSession, snap.State)
	s.Equal(model.RoleAdmin, snap.Role)
}

func (s *MachineSuite) TestLoginUnknownUser() {
	_, err := s.machine.Login(s.ctx, "nobody", "secret")
	s.ErrorIs(err, model.ErrWrongAuthData)
	s.assertUnauthenticated()
}

func (s *MachineSuite) TestLoginWrongPassword() {
	s.register("alice", "secret", model.RoleRegular)

	_, err := s.machine.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrWrongAuthData)
	s.assertUnauthenticated()
}

func (s *MachineSuite) TestLoginBlockedPrecedesPasswordCheck() {
	s.register("alice", "secret", model.RoleRegular)
	s.register("bobby", "adminpw", model.RoleAdmin)
	s.login("bobby", "adminpw")
	s.Require().NoError(s.machine.BlockUser(s.ctx, "alice"))
	s.machine.Logout()

	for _, pw := range []string{"secret", "wrong", ""} {
		_, err := s.machine.Login(s.ctx, "alice", pw)
		s.ErrorIs(err, model.ErrBlockedUser)
		s.assertUnauthenticated()
	}
}

func (s *MachineSuite) TestLoginRejectedDuringSession() {
	s.register("alice", "secret", model.RoleRegular)
	s.register("bobby", "adminpw", model.RoleAdmin)
	s.login("alice", "secret")

	_, err := s.machine.Login(s.ctx, "bobby", "adminpw")
	s.ErrorIs(err, model.ErrSessionActive)

	snap := s.machine.Snapshot()
	s.Equal(StateRegularSession, snap.State)
	s.Equal("alice", snap.UserName)
}

func (s *MachineSuite) TestLoginPropagatesStorageErrors() {
	boom := errors.New("storage unavailable")
	m := New(failingDirectory{err: boom}, credentials.NewValidator(s.directory))

	_, err := m.Login(s.ctx, "alice", "secret")
	s.ErrorIs(err, boom)
	s.Equal(StateUnauthenticated, m.Snapshot().State)
}

// Logout tests

func (s *MachineSuite) TestLogoutResetsSession() {
	s.register("alice", "secret", model.RoleRegular)
	s.login("alice", "secret")

	s.machine.Logout()
	s.assertUnauthenticated()
}

func (s *MachineSuite) TestLogoutIsIdempotent() {
	s.register("alice", "secret", model.RoleRegular)
	s.login("alice", "secret")

	s.machine.Logout()
	s.machine.Logout()
	s.assertUnauthenticated()

	// and legal from the initial state
	fresh := New(s.directory, credentials.NewValidator(s.directory))
	fresh.Logout()
	s.Equal(StateUnauthenticated, fresh.Snapshot().State)
}

// BlockUser tests

func (s *MachineSuite) TestBlockUserRequiresAdmin() {
	s.register("alice", "secret", model.RoleRegular)
	s.register("carol", "secret", model.RoleRegular)

	err := s.machine.BlockUser(s.ctx, "carol")
	s.ErrorIs(err, model.ErrUnauthorized)

	s.login("alice", "secret")
	err = s.machine.BlockUser(s.ctx, "carol")
	s.ErrorIs(err, model.ErrUnauthorized)

	blocked, err := s.directory.IsBlocked(s.ctx, "carol")
	s.Require().NoError(err)
	s.False(blocked)
}

func (s *MachineSuite) TestBlockUnknownUserIsNotFound() {
	s.register("bobby", "adminpw", model.RoleAdmin)
	s.login("bobby", "adminpw")

	err := s.machine.BlockUser(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
	s.Equal(StateAdminSession, s.machine.Snapshot().State)
}

func (s *MachineSuite) TestAdminCanBlockThemself() {
	s.register("bobby", "adminpw", model.RoleAdmin)
	s.login("bobby", "adminpw")

	s.Require().NoError(s.machine.BlockUser(s.ctx, "bobby"))
	s.Equal(StateAdminSession, s.machine.Snapshot().State)

	s.machine.Logout()
	_, err := s.machine.Login(s.ctx, "bobby", "adminpw")
	s.ErrorIs(err, model.ErrBlockedUser)
}

// Gate tests

func (s *MachineSuite) TestWithRegularUserGate() {
	s.register("alice", "secret", model.RoleRegular)
	s.register("bobby", "adminpw", model.RoleAdmin)

	called := false
	fn := func(u *model.User) error {
		called = true
		s.Equal("alice", u.UserName)
		return nil
	}

	s.ErrorIs(s.machine.WithRegularUser(fn), model.ErrUnauthorized)

	s.login("bobby", "adminpw")
	s.ErrorIs(s.machine.WithRegularUser(fn), model.ErrUnauthorized)
	s.machine.Logout()

	s.login("alice", "secret")
	s.Require().NoError(s.machine.WithRegularUser(fn))
	s.True(called)
	s.ErrorIs(s.machine.WithAdmin(fn), model.ErrUnauthorized)
}

func (s *MachineSuite) TestConcurrentOperationsKeepSingleSession() {
	s.register("alice", "secret", model.RoleRegular)
	s.register("bobby", "adminpw", model.RoleAdmin)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 3 {
			case 0:
				_, _ = s.machine.Login(s.ctx, "alice", "secret")
			case 1:
				_, _ = s.machine.Login(s.ctx, "bobby", "adminpw")
			default:
				s.machine.Logout()
			}
			snap := s.machine.Snapshot()
			switch snap.State {
			case StateRegularSession:
				s.Equal(model.RoleRegular, snap.Role)
			case StateAdminSession:
				s.Equal(model.RoleAdmin, snap.Role)
			default:
				s.Equal(StateUnauthenticated, snap.State)
				s.Empty(snap.UserName)
			}
		}()
	}
	wg.Wait()
}

// Scenarios

func (s *MachineSuite) TestRegularUserScenario() {
	s.register("alice", "secret", model.RoleRegular)
	s.login("alice", "secret")
	s.Equal(StateRegularSession, s.machine.Snapshot().State)

	s.machine.Logout()
	_, err := s.machine.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrWrongAuthData)
}

func (s *MachineSuite) TestAdminBlocksScenario() {
	s.register("alice", "secret", model.RoleRegular)
	s.register("bobby", "adminpw", model.RoleAdmin)
	s.login("bobby", "adminpw")
	s.Require().NoError(s.machine.BlockUser(s.ctx, "alice"))
	s.machine.Logout()

	_, err := s.machine.Login(s.ctx, "alice", "secret")
	s.ErrorIs(err, model.ErrBlockedUser)
}

type failingDirectory struct {
	err error
}

func (f failingDirectory) LookupActive(ctx context.Context, userName string) (*model.User, error) {
	return nil, f.err
}

func (f failingDirectory) IsBlocked(ctx context.Context, userName string) (bool, error) {
	return false, f.err
}

func (f failingDirectory) Insert(ctx context.Context, user *model.User) error {
	return f.err
}

func (f failingDirectory) Block(ctx context.Context, userName string) error {
	return f.err
}
