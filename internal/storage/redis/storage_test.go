package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini   *miniredis.Miniredis
	client *redis.Client
	redis  *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.redis = NewWithClient(s.client, DefaultConfig())
	s.Storage = s.redis
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestNamespaceGeneratedWhenEmpty() {
	s.NotEmpty(s.redis.Namespace())

	other := NewWithClient(s.client, DefaultConfig())
	s.NotEqual(s.redis.Namespace(), other.Namespace())
}

func (s *StorageSuite) TestNamespacesAreIsolated() {
	user := &model.User{UserName: "alice", Password: "secret", Role: model.RoleRegular}
	s.Require().NoError(s.redis.SaveActiveUser(s.Ctx, user))

	// A restarted process gets a fresh namespace and sees nothing
	restarted := NewWithClient(s.client, DefaultConfig())
	_, err := restarted.GetActiveUser(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestExplicitNamespaceIsUsed() {
	cfg := DefaultConfig()
	cfg.Namespace = "fixed"
	fixed := NewWithClient(s.client, cfg)

	s.Require().NoError(fixed.AppendBet(s.Ctx, "alice", "A-B:1"))

	s.True(s.mini.Exists(betsKey("fixed", "alice")))
}

func (s *StorageSuite) TestRecordsOutliveIdleTime() {
	user := &model.User{UserName: "alice", Password: "secret", Role: model.RoleRegular}
	s.Require().NoError(s.redis.SaveActiveUser(s.Ctx, user))
	s.Require().NoError(s.redis.SaveActiveUser(s.Ctx, &model.User{UserName: "bobby", Password: "adminpw", Role: model.RoleAdmin}))
	s.Require().NoError(s.redis.AppendBet(s.Ctx, "alice", "A-B:1"))
	s.Require().NoError(s.redis.BlockUser(s.Ctx, "alice", time.Now()))

	s.mini.FastForward(30 * 24 * time.Hour)

	blocked, err := s.redis.IsBlocked(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(blocked)

	_, err = s.redis.GetActiveUser(s.Ctx, "bobby")
	s.NoError(err)

	bets, err := s.redis.GetBets(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"A-B:1"}, bets)

	ns := s.redis.Namespace()
	s.Zero(s.mini.TTL(activeUsersKey(ns)))
	s.Zero(s.mini.TTL(blockedUsersKey(ns)))
	s.Zero(s.mini.TTL(betsKey(ns, "alice")))
}

func (s *StorageSuite) TestKeyTTLIsOptIn() {
	cfg := DefaultConfig()
	cfg.KeyTTL = time.Hour
	store := NewWithClient(s.client, cfg)

	user := &model.User{UserName: "alice", Password: "secret", Role: model.RoleRegular}
	s.Require().NoError(store.SaveActiveUser(s.Ctx, user))
	s.Require().NoError(store.AppendBet(s.Ctx, "alice", "A-B:1"))
	s.Require().NoError(store.BlockUser(s.Ctx, "alice", time.Now()))

	ns := store.Namespace()
	s.Equal(time.Hour, s.mini.TTL(activeUsersKey(ns)))
	s.Equal(time.Hour, s.mini.TTL(blockedUsersKey(ns)))
	s.Equal(time.Hour, s.mini.TTL(betsKey(ns, "alice")))
}

func (s *StorageSuite) TestListReportsInvalidData() {
	user := &model.User{UserName: "alice", Password: "secret", Role: model.RoleRegular}
	s.Require().NoError(s.redis.SaveActiveUser(s.Ctx, user))
	s.mini.HSet(activeUsersKey(s.redis.Namespace()), "broken", "{not json")

	_, err := s.redis.ListActiveUsers(s.Ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "broken")
}

func (s *StorageSuite) TestListBlockedReportsInvalidData() {
	s.mini.HSet(blockedUsersKey(s.redis.Namespace()), "broken", "{not json")

	_, err := s.redis.ListBlockedUsers(s.Ctx)
	s.Error(err)
}

func (s *StorageSuite) TestNewFailsForBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not a url"

	_, err := New(cfg)
	s.Error(err)
}

func (s *StorageSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(cfg)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	s.NotEmpty(store.Namespace())
}
