package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/betgate/internal/model"
	"github.com/mcoot/betgate/internal/storage"
)

// blockRetries bounds optimistic-lock retries when moving a user
const blockRetries = 3

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client    *redis.Client
	cfg       Config
	namespace string
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	ns := cfg.Namespace
	if ns == "" {
		ns = uuid.NewString()
	}
	return &Storage{
		client:    client,
		cfg:       cfg,
		namespace: ns,
	}
}

// Namespace returns the key namespace this storage writes under
func (s *Storage) Namespace() string {
	return s.namespace
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Active user operations

func (s *Storage) SaveActiveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	key := activeUsersKey(s.namespace)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, user.UserName, data)
	s.expire(ctx, pipe, key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetActiveUser(ctx context.Context, userName string) (*model.User, error) {
	data, err := s.client.HGet(ctx, activeUsersKey(s.namespace), userName).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return decodeUser(data)
}

func (s *Storage) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	return s.listUsers(ctx, activeUsersKey(s.namespace))
}

// Blocked user operations

func (s *Storage) IsBlocked(ctx context.Context, userName string) (bool, error) {
	return s.client.HExists(ctx, blockedUsersKey(s.namespace), userName).Result()
}

func (s *Storage) BlockUser(ctx context.Context, userName string, blockedAt time.Time) error {
	activeKey := activeUsersKey(s.namespace)
	blockedKey := blockedUsersKey(s.namespace)

	// WATCH the active hash so a concurrent write aborts the move
	move := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, activeKey, userName).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrUserNotFound
			}
			return err
		}

		user, err := decodeUser(data)
		if err != nil {
			return err
		}
		user.BlockedAt = blockedAt

		blockedData, err := json.Marshal(user)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, activeKey, userName)
			pipe.HSet(ctx, blockedKey, userName, blockedData)
			s.expire(ctx, pipe, blockedKey)
			return nil
		})
		return err
	}

	for range blockRetries {
		err := s.client.Watch(ctx, move, activeKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("block %s: %w", userName, redis.TxFailedErr)
}

func (s *Storage) ListBlockedUsers(ctx context.Context) ([]*model.User, error) {
	return s.listUsers(ctx, blockedUsersKey(s.namespace))
}

// Bet operations

func (s *Storage) AppendBet(ctx context.Context, userName, bet string) error {
	key := betsKey(s.namespace, userName)

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, bet)
	s.expire(ctx, pipe, key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetBets(ctx context.Context, userName string) ([]string, error) {
	bets, err := s.client.LRange(ctx, betsKey(s.namespace, userName), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if bets == nil {
		bets = []string{}
	}
	return bets, nil
}

// listUsers decodes every user in a hash, sorted by username
func (s *Storage) listUsers(ctx context.Context, key string) ([]*model.User, error) {
	values, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(values))
	for name, val := range values {
		user, err := decodeUser([]byte(val))
		if err != nil {
			return nil, fmt.Errorf("decode user %s: %w", name, err)
		}
		users = append(users, user)
	}

	slices.SortFunc(users, func(a, b *model.User) int {
		return strings.Compare(a.UserName, b.UserName)
	})
	return users, nil
}

func (s *Storage) expire(ctx context.Context, pipe redis.Pipeliner, key string) {
	if s.cfg.KeyTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.KeyTTL)
	}
}

func decodeUser(data []byte) (*model.User, error) {
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
