// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/storage"
)

// Suite exercises the storage.Storage contract. Backends embed it and
// set Storage in their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) saveUser(name string, role model.Role) *model.User {
	user := &model.User{
		UserName:  name,
		Password:  name + "-pw",
		Role:      role,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.Storage.SaveActiveUser(s.Ctx, user))
	return user
}

// Active user tests

func (s *Suite) TestSaveAndGetActiveUser() {
	user := s.saveUser("alice", model.RoleRegular)

	retrieved, err := s.Storage.GetActiveUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.UserName, retrieved.UserName)
	s.Equal(user.Password, retrieved.Password)
	s.Equal(user.Role, retrieved.Role)
	s.True(user.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetActiveUserNotFound() {
	_, err := s.Storage.GetActiveUser(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestSaveActiveUserOverwrites() {
	s.saveUser("alice", model.RoleRegular)

	replacement := &model.User{UserName: "alice", Password: "other", Role: model.RoleAdmin}
	s.Require().NoError(s.Storage.SaveActiveUser(s.Ctx, replacement))

	retrieved, err := s.Storage.GetActiveUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("other", retrieved.Password)
	s.Equal(model.RoleAdmin, retrieved.Role)
}

func (s *Suite) TestReturnedUserIsACopy() {
	s.saveUser("alice", model.RoleRegular)

	retrieved, _ := s.Storage.GetActiveUser(s.Ctx, "alice")
	retrieved.Password = "tampered"

	again, err := s.Storage.GetActiveUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice-pw", again.Password)
}

func (s *Suite) TestListActiveUsersSorted() {
	s.saveUser("charlie", model.RoleRegular)
	s.saveUser("alice", model.RoleRegular)
	s.saveUser("bobby", model.RoleAdmin)

	users, err := s.Storage.ListActiveUsers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal("alice", users[0].UserName)
	s.Equal("bobby", users[1].UserName)
	s.Equal("charlie", users[2].UserName)
}

func (s *Suite) TestListActiveUsersEmpty() {
	users, err := s.Storage.ListActiveUsers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

// Blocked user tests

func (s *Suite) TestBlockUserMovesToBlocked() {
	s.saveUser("alice", model.RoleRegular)
	blockedAt := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	err := s.Storage.BlockUser(s.Ctx, "alice", blockedAt)
	s.Require().NoError(err)

	_, err = s.Storage.GetActiveUser(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)

	blocked, err := s.Storage.IsBlocked(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(blocked)

	users, err := s.Storage.ListBlockedUsers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal("alice", users[0].UserName)
	s.True(blockedAt.Equal(users[0].BlockedAt))
}

func (s *Suite) TestBlockUserNotFound() {
	err := s.Storage.BlockUser(s.Ctx, "nobody", time.Now())
	s.ErrorIs(err, model.ErrUserNotFound)

	blocked, err := s.Storage.IsBlocked(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.False(blocked)
}

func (s *Suite) TestBlockUserTwiceFails() {
	s.saveUser("alice", model.RoleRegular)
	s.Require().NoError(s.Storage.BlockUser(s.Ctx, "alice", time.Now()))

	err := s.Storage.BlockUser(s.Ctx, "alice", time.Now())
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestBlockUserReplacesEarlierBlockedRecord() {
	s.saveUser("alice", model.RoleRegular)
	s.Require().NoError(s.Storage.BlockUser(s.Ctx, "alice", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)))

	again := &model.User{UserName: "alice", Password: "again", Role: model.RoleRegular}
	s.Require().NoError(s.Storage.SaveActiveUser(s.Ctx, again))
	secondBlock := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.BlockUser(s.Ctx, "alice", secondBlock))

	users, err := s.Storage.ListBlockedUsers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal("again", users[0].Password)
	s.True(secondBlock.Equal(users[0].BlockedAt))
}

func (s *Suite) TestIsBlockedFalseForActiveUser() {
	s.saveUser("alice", model.RoleRegular)

	blocked, err := s.Storage.IsBlocked(s.Ctx, "alice")
	s.Require().NoError(err)
	s.False(blocked)
}

// Bet tests

func (s *Suite) TestAppendAndGetBetsPreservesOrder() {
	s.Require().NoError(s.Storage.AppendBet(s.Ctx, "alice", "A-B:1"))
	s.Require().NoError(s.Storage.AppendBet(s.Ctx, "alice", "C-D:X"))
	s.Require().NoError(s.Storage.AppendBet(s.Ctx, "alice", "A-B:1"))

	bets, err := s.Storage.GetBets(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"A-B:1", "C-D:X", "A-B:1"}, bets)
}

func (s *Suite) TestGetBetsEmpty() {
	bets, err := s.Storage.GetBets(s.Ctx, "alice")
	s.Require().NoError(err)
	s.NotNil(bets)
	s.Empty(bets)
}

func (s *Suite) TestBetsAreKeyedByUser() {
	s.Require().NoError(s.Storage.AppendBet(s.Ctx, "alice", "A-B:1"))
	s.Require().NoError(s.Storage.AppendBet(s.Ctx, "bobby", "E-F:2"))

	bets, err := s.Storage.GetBets(s.Ctx, "bobby")
	s.Require().NoError(err)
	s.Equal([]string{"E-F:2"}, bets)
}

func (s *Suite) TestBetsSurviveBlocking() {
	s.saveUser("alice", model.RoleRegular)
	s.Require().NoError(s.Storage.AppendBet(s.Ctx, "alice", "A-B:1"))
	s.Require().NoError(s.Storage.BlockUser(s.Ctx, "alice", time.Now()))

	bets, err := s.Storage.GetBets(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"A-B:1"}, bets)
}
